package domain

// Product is one menu entry as published by the catalog sheet.
type Product struct {
	ID          string
	Name        string
	Category    string
	Price       int64
	Active      bool
	Image       string
	Description string
	Config      string
}
