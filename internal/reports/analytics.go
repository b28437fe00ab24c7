package reports

import (
	"errors"
	"sort"
	"time"

	"go-pos-suite/internal/models"
)

// Period shorthands accepted by the analytics endpoint
const (
	PeriodDaily   = "daily"
	PeriodWeekly  = "weekly"
	PeriodMonthly = "monthly"
	PeriodYearly  = "yearly"
	PeriodOverall = "overall"
	PeriodCustom  = "custom"
)

var ErrBadPeriod = errors.New("unknown period")

// MethodBreakdown is one payment-method bucket
type MethodBreakdown struct {
	Method string  `json:"method"`
	Total  float64 `json:"total"`
	Count  int     `json:"count"`
}

// CategoryBreakdown is one expense-category bucket
type CategoryBreakdown struct {
	Category string  `json:"category"`
	Total    float64 `json:"total"`
	Count    int     `json:"count"`
}

// TopProduct is one row of the best-sellers list
type TopProduct struct {
	ProductID   string  `json:"productId"`
	ProductName string  `json:"productName"`
	Sold        int     `json:"sold"`
	Revenue     float64 `json:"revenue"`
}

// Analytics is the full payload for /reports/analytics
type Analytics struct {
	TotalSales        float64             `json:"totalSales"`
	TransactionCount  int                 `json:"transactionCount"`
	AverageOrderValue float64             `json:"averageOrderValue"`
	PaymentMethods    []MethodBreakdown   `json:"paymentMethods"`
	TotalExpenses     float64             `json:"totalExpenses"`
	ExpenseCategories []CategoryBreakdown `json:"expenseCategories"`
	GrossProfit       float64             `json:"grossProfit"`
	ProfitMargin      float64             `json:"profitMargin"`
	WeeklyGrowth      float64             `json:"weeklyGrowth"`
	TopProducts       []TopProduct        `json:"topProducts"`
}

// ResolvePeriod turns a period shorthand into a concrete [start, end] range.
// Custom periods parse YYYY-MM-DD bounds; the end date is inclusive (we
// extend it to the end of that day).
func ResolvePeriod(period, startDate, endDate string, now time.Time) (time.Time, time.Time, error) {
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	switch period {
	case PeriodDaily:
		return dayStart, now, nil
	case PeriodWeekly:
		return dayStart.AddDate(0, 0, -6), now, nil
	case PeriodMonthly:
		return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()), now, nil
	case PeriodYearly:
		return time.Date(now.Year(), 1, 1, 0, 0, 0, 0, now.Location()), now, nil
	case PeriodOverall:
		return time.Time{}, now, nil
	case PeriodCustom:
		start, err := time.ParseInLocation("2006-01-02", startDate, now.Location())
		if err != nil {
			return time.Time{}, time.Time{}, errors.New("invalid startDate, expected YYYY-MM-DD")
		}
		end, err := time.ParseInLocation("2006-01-02", endDate, now.Location())
		if err != nil {
			return time.Time{}, time.Time{}, errors.New("invalid endDate, expected YYYY-MM-DD")
		}
		return start, end.AddDate(0, 0, 1).Add(-time.Nanosecond), nil
	default:
		return time.Time{}, time.Time{}, ErrBadPeriod
	}
}

// WeekBounds returns the start of the current week (Monday 00:00) and the
// start of the previous week, used for the week-over-week growth figure.
func WeekBounds(now time.Time) (currentStart, previousStart time.Time) {
	weekday := int(now.Weekday())
	if weekday == 0 {
		weekday = 7 // Sunday counts as day 7
	}
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	currentStart = dayStart.AddDate(0, 0, -(weekday - 1))
	previousStart = currentStart.AddDate(0, 0, -7)
	return currentStart, previousStart
}

// GrowthPercent computes (current - previous) / previous * 100, defined as
// 0 when there were no previous-week sales to compare against.
func GrowthPercent(currentWeekSales, previousWeekSales float64) float64 {
	if previousWeekSales == 0 {
		return 0
	}
	return (currentWeekSales - previousWeekSales) / previousWeekSales * 100
}

// CompletedSalesTotal sums totals of completed transactions only.
func CompletedSalesTotal(transactions []models.Transaction) float64 {
	var total float64
	for _, tx := range transactions {
		if tx.PaymentStatus == models.PaymentCompleted {
			total += tx.Total
		}
	}
	return total
}

// Build aggregates the already-fetched tenant rows into the analytics
// payload. Only completed transactions count toward sales; every figure is
// defined (as 0) on empty input.
func Build(transactions []models.Transaction, expenses []models.Expense) Analytics {
	var out Analytics

	methodMap := make(map[string]*MethodBreakdown)
	productMap := make(map[string]*TopProduct)

	for _, tx := range transactions {
		if tx.PaymentStatus != models.PaymentCompleted {
			continue
		}

		out.TotalSales += tx.Total
		out.TransactionCount++

		mb, ok := methodMap[tx.PaymentMethod]
		if !ok {
			mb = &MethodBreakdown{Method: tx.PaymentMethod}
			methodMap[tx.PaymentMethod] = mb
		}
		mb.Total += tx.Total
		mb.Count++

		for _, item := range tx.Items {
			tp, ok := productMap[item.ProductID]
			if !ok {
				tp = &TopProduct{ProductID: item.ProductID, ProductName: item.ProductName}
				productMap[item.ProductID] = tp
			}
			tp.Sold += item.Quantity
			tp.Revenue += item.Subtotal
		}
	}

	if out.TransactionCount > 0 {
		out.AverageOrderValue = out.TotalSales / float64(out.TransactionCount)
	}

	categoryMap := make(map[string]*CategoryBreakdown)
	for _, e := range expenses {
		out.TotalExpenses += e.Amount

		cb, ok := categoryMap[e.Category]
		if !ok {
			cb = &CategoryBreakdown{Category: e.Category}
			categoryMap[e.Category] = cb
		}
		cb.Total += e.Amount
		cb.Count++
	}

	out.GrossProfit = out.TotalSales - out.TotalExpenses
	if out.TotalSales > 0 {
		out.ProfitMargin = out.GrossProfit / out.TotalSales
	}

	out.PaymentMethods = make([]MethodBreakdown, 0, len(methodMap))
	for _, mb := range methodMap {
		out.PaymentMethods = append(out.PaymentMethods, *mb)
	}
	sort.Slice(out.PaymentMethods, func(i, j int) bool {
		return out.PaymentMethods[i].Total > out.PaymentMethods[j].Total
	})

	out.ExpenseCategories = make([]CategoryBreakdown, 0, len(categoryMap))
	for _, cb := range categoryMap {
		out.ExpenseCategories = append(out.ExpenseCategories, *cb)
	}
	sort.Slice(out.ExpenseCategories, func(i, j int) bool {
		return out.ExpenseCategories[i].Total > out.ExpenseCategories[j].Total
	})

	// Top 5 best sellers by quantity
	out.TopProducts = make([]TopProduct, 0, len(productMap))
	for _, tp := range productMap {
		out.TopProducts = append(out.TopProducts, *tp)
	}
	sort.Slice(out.TopProducts, func(i, j int) bool {
		return out.TopProducts[i].Sold > out.TopProducts[j].Sold
	})
	if len(out.TopProducts) > 5 {
		out.TopProducts = out.TopProducts[:5]
	}

	return out
}
