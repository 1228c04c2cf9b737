package cli

import "context"

func (a *App) reportsMenu(ctx context.Context) {
	a.Prompt.Printf("\n1. Sales by product\n2. Sales by category\n3. Back\n")
	switch a.Prompt.Line("> ") {
	case "1":
		a.productSales(ctx)
	case "2":
		a.categorySales(ctx)
	case "3":
	default:
		a.Prompt.Printf("Invalid input: enter a number between 1 and 3.\n")
	}
}

func (a *App) productSales(ctx context.Context) {
	rows, err := a.Reports.ProductSales(ctx)
	if err != nil {
		a.Prompt.Printf("Error: %v\n", err)
		return
	}
	a.Prompt.Printf("\n%-30s | %-20s | %-10s | %-8s | %-12s\n",
		"Product", "Category", "Price", "Sold", "Revenue")
	for _, r := range rows {
		a.Prompt.Printf("%-30s | %-20s | %-10s | %-8d | %-12s\n",
			r.ProductName, r.CategoryName, money(r.PriceCents), r.TotalQuantity, money(r.TotalCents))
	}
}

func (a *App) categorySales(ctx context.Context) {
	rows, err := a.Reports.CategorySales(ctx)
	if err != nil {
		a.Prompt.Printf("Error: %v\n", err)
		return
	}
	a.Prompt.Printf("\n%-25s | %-8s | %-12s\n", "Category", "Sold", "Revenue")
	for _, r := range rows {
		a.Prompt.Printf("%-25s | %-8d | %-12s\n", r.CategoryName, r.TotalQuantity, money(r.TotalCents))
	}
}
