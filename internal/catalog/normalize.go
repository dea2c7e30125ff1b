// Package catalog turns loosely typed spreadsheet rows into products.
package catalog

import (
	"encoding/json"
	"storefront-delivery-service/internal/domain"
	"storefront-delivery-service/internal/textnorm"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	idKeys          = []string{"id"}
	nameKeys        = []string{"nombre", "name", "producto"}
	categoryKeys    = []string{"categoria", "category"}
	priceKeys       = []string{"precio", "price"}
	activeKeys      = []string{"activo", "active"}
	imageKeys       = []string{"imagen", "image"}
	descriptionKeys = []string{"descripcion", "description"}
	configKeys      = []string{"config"}
)

// NormalizeProducts maps each row to a Product. Header names are matched
// ignoring case, accents and spaces. A row without an id gets its index.
func NormalizeProducts(rows []map[string]any) []domain.Product {
	out := make([]domain.Product, 0, len(rows))

	for i, row := range rows {
		folded := make(map[string]any, len(row))
		for k, v := range row {
			folded[textnorm.Fold(k)] = v
		}

		id := text(lookup(folded, idKeys))
		if id == "" {
			id = strconv.Itoa(i)
		}

		out = append(out, domain.Product{
			ID:          id,
			Name:        text(lookup(folded, nameKeys)),
			Category:    text(lookup(folded, categoryKeys)),
			Price:       ParsePrice(lookup(folded, priceKeys)),
			Active:      isTruthy(lookup(folded, activeKeys)),
			Image:       text(lookup(folded, imageKeys)),
			Description: text(lookup(folded, descriptionKeys)),
			Config:      strings.ToLower(text(lookup(folded, configKeys))),
		})
	}

	return out
}

// ParsePrice reads a whole-peso amount from a number or a numeric string
// ("12000", "$ 12000", "12000.4"). Unreadable or negative values are 0.
func ParsePrice(v any) int64 {
	var d decimal.Decimal

	switch t := v.(type) {
	case float64:
		d = decimal.NewFromFloat(t)
	case int:
		d = decimal.NewFromInt(int64(t))
	case int64:
		d = decimal.NewFromInt(t)
	case json.Number:
		parsed, err := decimal.NewFromString(t.String())
		if err != nil {
			return 0
		}
		d = parsed
	case string:
		s := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(t), "$"))
		parsed, err := decimal.NewFromString(s)
		if err != nil {
			return 0
		}
		d = parsed
	default:
		return 0
	}

	if d.IsNegative() {
		return 0
	}
	return d.Round(0).IntPart()
}

func isTruthy(v any) bool {
	switch t := v.(type) {
	case bool:
		return t
	case float64:
		return t == 1
	case int:
		return t == 1
	case json.Number:
		return t.String() == "1"
	case string:
		s := strings.ToUpper(strings.TrimSpace(t))
		return s == "TRUE" || s == "1"
	default:
		return false
	}
}

func lookup(row map[string]any, aliases []string) any {
	for _, a := range aliases {
		if v, ok := row[a]; ok {
			return v
		}
	}
	return nil
}

func text(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(t)
	case json.Number:
		return t.String()
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		b, err := json.Marshal(t)
		if err != nil {
			return ""
		}
		return string(b)
	}
}
