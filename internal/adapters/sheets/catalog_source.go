package sheets

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"storefront-delivery-service/internal/catalog"
	"storefront-delivery-service/internal/domain"
	"storefront-delivery-service/internal/platform/obs"
)

// ProductsSheet is the tab holding the menu.
const ProductsSheet = "Productos"

// CatalogSource reads the menu tab of the catalog web app.
type CatalogSource struct {
	client *Client
	url    string
	sheet  string
}

func NewCatalogSource(client *Client, url string) (*CatalogSource, error) {
	if client == nil {
		return nil, errors.New("NewCatalogSource: client is nil")
	}
	if url == "" {
		return nil, errors.New("NewCatalogSource: url is empty")
	}
	return &CatalogSource{client: client, url: url, sheet: ProductsSheet}, nil
}

func (s *CatalogSource) ListProducts(ctx context.Context) (_ []domain.Product, err error) {
	defer obs.Time(ctx, "sheets.ListProducts")(&err)

	rows, err := s.client.Rows(ctx, s.url, url.Values{"sheet": {s.sheet}})
	if err != nil {
		return nil, fmt.Errorf("ListProducts: %w", err)
	}

	return catalog.NormalizeProducts(rows), nil
}
