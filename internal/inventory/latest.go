package inventory

import (
	"time"

	"go-pos-suite/internal/models"
)

// LatestEntry is one row of the latest-stock view. Quantity is nil when an
// item has no records yet, never zero-by-default.
type LatestEntry struct {
	Item           models.InventoryItem `json:"item"`
	LatestQuantity *float64             `json:"latestQuantity"`
	LatestRecordAt *time.Time           `json:"latestRecordAt"`
	BelowMinStock  bool                 `json:"belowMinStock"`
}

// LatestView computes, per item, the record with the maximum date not after
// asOf (or the overall maximum when asOf is nil). Items without a matching
// record still appear in the view.
func LatestView(items []models.InventoryItem, records []models.InventoryRecord, asOf *time.Time) []LatestEntry {
	latest := make(map[string]*models.InventoryRecord)

	for i := range records {
		rec := &records[i]
		if asOf != nil && rec.RecordDate.After(*asOf) {
			continue
		}
		cur, ok := latest[rec.InventoryItemID]
		if !ok || rec.RecordDate.After(cur.RecordDate) {
			latest[rec.InventoryItemID] = rec
		}
	}

	view := make([]LatestEntry, 0, len(items))
	for _, item := range items {
		entry := LatestEntry{Item: item}
		if rec, ok := latest[item.ID]; ok {
			qty := rec.Quantity
			at := rec.RecordDate
			entry.LatestQuantity = &qty
			entry.LatestRecordAt = &at
			if item.MinStockLevel != nil && qty < *item.MinStockLevel {
				entry.BelowMinStock = true
			}
		}
		view = append(view, entry)
	}
	return view
}
