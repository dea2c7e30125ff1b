// Package places is the directory of predefined delivery neighborhoods.
package places

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"storefront-delivery-service/internal/domain"
	"storefront-delivery-service/internal/textnorm"
	"strings"
)

type Neighborhood struct {
	Name   string             `json:"name"`
	Coords domain.Coordinates `json:"-"`
}

type neighborhoodSeed struct {
	Name string  `json:"name"`
	Lat  float64 `json:"lat"`
	Lon  float64 `json:"lon"`
}

// Directory is read-only after construction.
type Directory struct {
	items []Neighborhood
	keys  []string
	byKey map[string]int
}

func NewDirectory(items []Neighborhood) *Directory {
	sorted := make([]Neighborhood, len(items))
	copy(sorted, items)
	sort.SliceStable(sorted, func(i, j int) bool {
		return textnorm.FoldSpaced(sorted[i].Name) < textnorm.FoldSpaced(sorted[j].Name)
	})

	d := &Directory{
		items: sorted,
		keys:  make([]string, len(sorted)),
		byKey: make(map[string]int, len(sorted)),
	}
	for i, n := range sorted {
		key := textnorm.FoldSpaced(n.Name)
		d.keys[i] = key
		if _, dup := d.byKey[key]; !dup {
			d.byKey[key] = i
		}
	}
	return d
}

// LoadFile reads a JSON array of {name, lat, lon}.
func LoadFile(path string) (*Directory, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("load neighborhoods: open %q: %w", path, err)
	}
	defer f.Close()

	return Load(f)
}

func Load(r io.Reader) (*Directory, error) {
	var seeds []neighborhoodSeed
	if err := json.NewDecoder(r).Decode(&seeds); err != nil {
		return nil, fmt.Errorf("load neighborhoods: decode: %w", err)
	}

	items := make([]Neighborhood, 0, len(seeds))
	for i, s := range seeds {
		name := strings.TrimSpace(s.Name)
		if name == "" {
			return nil, fmt.Errorf("load neighborhoods: entry #%d: %w", i+1, errors.New("empty name"))
		}
		c := domain.Coordinates{Lat: s.Lat, Lon: s.Lon}
		if !c.Valid() {
			return nil, fmt.Errorf("load neighborhoods: entry %q: invalid coordinates", name)
		}
		items = append(items, Neighborhood{Name: name, Coords: c})
	}

	return NewDirectory(items), nil
}

func (d *Directory) Len() int { return len(d.items) }

func (d *Directory) All() []Neighborhood {
	out := make([]Neighborhood, len(d.items))
	copy(out, d.items)
	return out
}

// Find returns the neighborhood named name, ignoring case and accents.
func (d *Directory) Find(name string) (Neighborhood, bool) {
	i, ok := d.byKey[textnorm.FoldSpaced(name)]
	if !ok {
		return Neighborhood{}, false
	}
	return d.items[i], true
}

// Search returns neighborhoods whose name contains q, ignoring case and
// accents. An empty query matches nothing. limit <= 0 means no limit.
func (d *Directory) Search(q string, limit int) []Neighborhood {
	needle := textnorm.FoldSpaced(q)
	if needle == "" {
		return nil
	}

	var out []Neighborhood
	for i, key := range d.keys {
		if !strings.Contains(key, needle) {
			continue
		}
		out = append(out, d.items[i])
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}
