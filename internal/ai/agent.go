package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go-pos-suite/internal/database"
	"go-pos-suite/internal/inventory"
	"go-pos-suite/internal/models"
	"go-pos-suite/internal/reports"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// RunAgent answers an admin's question about THEIR store. Every tool is
// read-only and scoped to the tenant baked in here; the model never sees
// another store's rows.
func RunAgent(userMessage, tenantID, apiKey string) (string, error) {
	ctx := context.Background()
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return "", err
	}
	defer client.Close()

	model := client.GenerativeModel("gemini-2.0-flash-001")

	today := time.Now().Format("2006-01-02")

	systemPrompt := fmt.Sprintf(`SYSTEM: Today is %s. You are the analytics assistant for one store of a POS system.

	RULES:
	1. SALES: For revenue, order counts, averages, payment breakdowns, profit or growth, call 'get_sales_analytics' with a period.
	2. STOCK: For current stock levels or low-stock questions, call 'check_inventory' and read the latest quantities from the JSON.
	3. MENU: For product and price questions, call 'list_products'.
	4. You are read-only. If the user asks to change prices, stock or the menu, tell them to use the dashboard.

	USER: %s`, today, userMessage)

	model.Tools = []*genai.Tool{
		{
			FunctionDeclarations: []*genai.FunctionDeclaration{
				{
					Name:        "get_sales_analytics",
					Description: "Get sales totals, transaction count, average order value, expenses, profit and weekly growth for a period.",
					Parameters: &genai.Schema{
						Type: genai.TypeObject,
						Properties: map[string]*genai.Schema{
							"period": {Type: genai.TypeString, Description: "One of: daily, weekly, monthly, yearly, overall"},
						},
						Required: []string{"period"},
					},
				},
				{
					Name:        "check_inventory",
					Description: "Get the latest counted quantity for every inventory item, with low-stock flags.",
				},
				{
					Name:        "list_products",
					Description: "Get the product catalog with names and prices.",
				},
			},
		},
	}

	session := model.StartChat()

	resp, err := session.SendMessage(ctx, genai.Text(systemPrompt))
	if err != nil {
		return "", err
	}

	// One round of tool calls is enough for every question these tools
	// can answer.
	for _, part := range resp.Candidates[0].Content.Parts {
		if funcCall, ok := part.(genai.FunctionCall); ok {
			switch funcCall.Name {
			case "get_sales_analytics":
				return executeSalesAnalytics(ctx, session, funcCall, tenantID), nil
			case "check_inventory":
				return executeCheckInventory(ctx, session, tenantID), nil
			case "list_products":
				return executeListProducts(ctx, session, tenantID), nil
			}
		}
	}

	return printResponse(resp), nil
}

func executeSalesAnalytics(ctx context.Context, session *genai.ChatSession, funcCall genai.FunctionCall, tenantID string) string {
	period, _ := funcCall.Args["period"].(string)

	now := time.Now()
	start, end, err := reports.ResolvePeriod(period, "", "", now)
	if err != nil {
		return "Error: unknown period. Use daily, weekly, monthly, yearly or overall."
	}

	var transactions []models.Transaction
	if err := database.DB.Preload("Items").
		Where("tenant_id = ? AND transaction_time >= ? AND transaction_time <= ?", tenantID, start, end).
		Find(&transactions).Error; err != nil {
		return "Error fetching sales data."
	}
	var expenses []models.Expense
	if err := database.DB.
		Where("tenant_id = ? AND expense_date >= ? AND expense_date <= ?", tenantID, start, end).
		Find(&expenses).Error; err != nil {
		return "Error fetching expense data."
	}

	data := reports.Build(transactions, expenses)
	jsonBytes, _ := json.Marshal(data)

	finalResp, err := session.SendMessage(ctx, genai.FunctionResponse{
		Name:     "get_sales_analytics",
		Response: map[string]interface{}{"analytics": string(jsonBytes)},
	})
	if err != nil {
		return "Error talking to the assistant."
	}
	return printResponse(finalResp)
}

func executeCheckInventory(ctx context.Context, session *genai.ChatSession, tenantID string) string {
	var items []models.InventoryItem
	if err := database.DB.Where("tenant_id = ?", tenantID).Find(&items).Error; err != nil {
		return "Error fetching inventory."
	}
	var records []models.InventoryRecord
	if err := database.DB.Where("tenant_id = ?", tenantID).Find(&records).Error; err != nil {
		return "Error fetching inventory."
	}

	view := inventory.LatestView(items, records, nil)
	jsonBytes, _ := json.Marshal(view)

	finalResp, err := session.SendMessage(ctx, genai.FunctionResponse{
		Name:     "check_inventory",
		Response: map[string]interface{}{"inventory": string(jsonBytes)},
	})
	if err != nil {
		return "Error talking to the assistant."
	}
	return printResponse(finalResp)
}

func executeListProducts(ctx context.Context, session *genai.ChatSession, tenantID string) string {
	var products []models.Product
	if err := database.DB.Where("tenant_id = ?", tenantID).Find(&products).Error; err != nil {
		return "Error fetching products."
	}

	type simpleProduct struct {
		ID    string  `json:"id"`
		Name  string  `json:"name"`
		Price float64 `json:"price"`
	}
	simpleList := make([]simpleProduct, 0, len(products))
	for _, p := range products {
		simpleList = append(simpleList, simpleProduct{ID: p.ID, Name: p.Name, Price: p.Price})
	}
	jsonBytes, _ := json.Marshal(simpleList)

	finalResp, err := session.SendMessage(ctx, genai.FunctionResponse{
		Name:     "list_products",
		Response: map[string]interface{}{"products": string(jsonBytes)},
	})
	if err != nil {
		return "Error talking to the assistant."
	}
	return printResponse(finalResp)
}

func printResponse(resp *genai.GenerateContentResponse) string {
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			return string(txt)
		}
	}
	return "I completed the action."
}
