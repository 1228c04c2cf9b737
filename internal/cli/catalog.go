package cli

import (
	"context"
	"errors"

	"github.com/anordqvist/shopdesk/internal/domain"
)

func (a *App) catalogMenu(ctx context.Context) {
	a.Prompt.Printf("\n1. Products\n2. Categories\n3. Back\n")
	switch a.Prompt.Line("> ") {
	case "1":
		a.productsMenu(ctx)
	case "2":
		a.categoriesMenu(ctx)
	case "3":
	default:
		a.Prompt.Printf("Invalid input: enter a number between 1 and 3.\n")
	}
}

func (a *App) productsMenu(ctx context.Context) {
	a.Prompt.Printf("\n1. List products\n2. Add product\n3. Edit product\n4. Delete product\n5. Back\n")
	switch a.Prompt.Line("> ") {
	case "1":
		a.listProducts(ctx)
	case "2":
		a.addProduct(ctx)
	case "3":
		a.editProduct(ctx)
	case "4":
		a.deleteProduct(ctx)
	case "5":
	default:
		a.Prompt.Printf("Invalid input: enter a number between 1 and 5.\n")
	}
}

func (a *App) listProducts(ctx context.Context) {
	list, err := a.Catalog.ListProducts(ctx)
	if err != nil {
		a.Prompt.Printf("Error: %v\n", err)
		return
	}
	a.Prompt.Printf("\n%-6s | %-30s | %-20s | %-10s | %-6s\n", "ID", "Name", "Category", "Price", "Stock")
	for _, p := range list {
		a.Prompt.Printf("%-6d | %-30s | %-20s | %-10s | %-6d\n",
			p.ID, p.Name, p.CategoryName, money(p.PriceCents), p.Stock)
	}
}

func (a *App) addProduct(ctx context.Context) {
	name := a.Prompt.Line("Name: ")
	priceCents, err := a.Prompt.Int64("Price (in cents): ")
	if err != nil {
		a.Prompt.Printf("Invalid price.\n")
		return
	}
	stock, err := a.Prompt.Int64("Initial stock: ")
	if err != nil {
		a.Prompt.Printf("Invalid stock.\n")
		return
	}

	var categoryID *int64
	a.listCategories(ctx)
	if s := a.Prompt.Line("Category ID (blank for none): "); s != "" {
		id, err := a.Prompt.parseID(s)
		if err != nil {
			a.Prompt.Printf("Invalid category ID.\n")
			return
		}
		categoryID = &id
	}

	p, err := a.Catalog.AddProduct(ctx, name, categoryID, priceCents, int(stock))
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		a.Prompt.Printf("Invalid input: %v\n", err)
	case errors.Is(err, domain.ErrDuplicateName):
		a.Prompt.Printf("A product with that name already exists.\n")
	case errors.Is(err, domain.ErrCategoryNotFound):
		a.Prompt.Printf("Category not found.\n")
	case err != nil:
		a.Prompt.Printf("Error: %v\n", err)
	default:
		a.Prompt.Printf("Product %s added with ID %d.\n", p.Name, p.ID)
	}
}

func (a *App) editProduct(ctx context.Context) {
	a.listProducts(ctx)
	id, err := a.Prompt.Int64("Product ID: ")
	if err != nil {
		a.Prompt.Printf("Invalid product ID.\n")
		return
	}
	a.Prompt.Printf("Leave a field blank to keep its current value.\n")
	name := a.Prompt.Line("Name: ")

	var priceCents *int64
	if s := a.Prompt.Line("Price (in cents): "); s != "" {
		v, err := a.Prompt.parseID(s)
		if err != nil {
			a.Prompt.Printf("Invalid price.\n")
			return
		}
		priceCents = &v
	}

	p, err := a.Catalog.EditProduct(ctx, id, name, priceCents)
	switch {
	case errors.Is(err, domain.ErrProductNotFound):
		a.Prompt.Printf("Product not found.\n")
	case errors.Is(err, domain.ErrInvalidInput):
		a.Prompt.Printf("Invalid input: %v\n", err)
	case errors.Is(err, domain.ErrDuplicateName):
		a.Prompt.Printf("A product with that name already exists.\n")
	case err != nil:
		a.Prompt.Printf("Error: %v\n", err)
	default:
		a.Prompt.Printf("Product %d updated.\n", p.ID)
	}
}

func (a *App) deleteProduct(ctx context.Context) {
	a.listProducts(ctx)
	id, err := a.Prompt.Int64("Product ID: ")
	if err != nil {
		a.Prompt.Printf("Invalid product ID.\n")
		return
	}
	if !a.Prompt.YesNo("Delete this product? (y/n): ") {
		return
	}

	err = a.Catalog.DeleteProduct(ctx, id)
	switch {
	case errors.Is(err, domain.ErrProductNotFound):
		a.Prompt.Printf("Product not found.\n")
	case errors.Is(err, domain.ErrProductReferenced):
		a.Prompt.Printf("Product appears on existing orders and cannot be deleted.\n")
	case err != nil:
		a.Prompt.Printf("Error: %v\n", err)
	default:
		a.Prompt.Printf("Product deleted!\n")
	}
}

func (a *App) categoriesMenu(ctx context.Context) {
	a.Prompt.Printf("\n1. List categories\n2. Add category\n3. Edit category\n4. Delete category\n5. Back\n")
	switch a.Prompt.Line("> ") {
	case "1":
		a.listCategories(ctx)
	case "2":
		a.addCategory(ctx)
	case "3":
		a.editCategory(ctx)
	case "4":
		a.deleteCategory(ctx)
	case "5":
	default:
		a.Prompt.Printf("Invalid input: enter a number between 1 and 5.\n")
	}
}

func (a *App) listCategories(ctx context.Context) {
	list, err := a.Catalog.ListCategories(ctx)
	if err != nil {
		a.Prompt.Printf("Error: %v\n", err)
		return
	}
	a.Prompt.Printf("\n%-6s | %-25s | %-40s\n", "ID", "Name", "Description")
	for _, c := range list {
		a.Prompt.Printf("%-6d | %-25s | %-40s\n", c.ID, c.Name, c.Description)
	}
}

func (a *App) addCategory(ctx context.Context) {
	name := a.Prompt.Line("Name: ")
	description := a.Prompt.Line("Description: ")

	c, err := a.Catalog.AddCategory(ctx, name, description)
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		a.Prompt.Printf("Invalid input: %v\n", err)
	case errors.Is(err, domain.ErrDuplicateName):
		a.Prompt.Printf("A category with that name already exists.\n")
	case err != nil:
		a.Prompt.Printf("Error: %v\n", err)
	default:
		a.Prompt.Printf("Category %s added with ID %d.\n", c.Name, c.ID)
	}
}

func (a *App) editCategory(ctx context.Context) {
	a.listCategories(ctx)
	id, err := a.Prompt.Int64("Category ID: ")
	if err != nil {
		a.Prompt.Printf("Invalid category ID.\n")
		return
	}
	a.Prompt.Printf("Leave a field blank to keep its current value.\n")
	name := a.Prompt.Line("Name: ")
	description := a.Prompt.Line("Description: ")

	c, err := a.Catalog.EditCategory(ctx, id, name, description)
	switch {
	case errors.Is(err, domain.ErrCategoryNotFound):
		a.Prompt.Printf("Category not found.\n")
	case errors.Is(err, domain.ErrInvalidInput):
		a.Prompt.Printf("Invalid input: %v\n", err)
	case errors.Is(err, domain.ErrDuplicateName):
		a.Prompt.Printf("A category with that name already exists.\n")
	case err != nil:
		a.Prompt.Printf("Error: %v\n", err)
	default:
		a.Prompt.Printf("Category %d updated.\n", c.ID)
	}
}

func (a *App) deleteCategory(ctx context.Context) {
	a.listCategories(ctx)
	id, err := a.Prompt.Int64("Category ID: ")
	if err != nil {
		a.Prompt.Printf("Invalid category ID.\n")
		return
	}
	if !a.Prompt.YesNo("Delete this category? (y/n): ") {
		return
	}

	err = a.Catalog.DeleteCategory(ctx, id)
	switch {
	case errors.Is(err, domain.ErrCategoryNotFound):
		a.Prompt.Printf("Category not found.\n")
	case errors.Is(err, domain.ErrCategoryNotEmpty):
		a.Prompt.Printf("Category still contains products and cannot be deleted.\n")
	case err != nil:
		a.Prompt.Printf("Error: %v\n", err)
	default:
		a.Prompt.Printf("Category deleted!\n")
	}
}
