// Package catalog holds the static property listings.
package catalog

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/nyumba-homes/storefront-api/internal/domain"
	"github.com/nyumba-homes/storefront-api/internal/pricing"
	"github.com/nyumba-homes/storefront-api/internal/schemas"
)

//go:embed listings.json
var embeddedListings []byte

// Catalog is the immutable, ordered set of listings
type Catalog struct {
	properties []domain.Property
	byID       map[string]int
}

// Filter narrows a search. Zero values match everything.
type Filter struct {
	Location string
	Type     string
	MaxPrice int64
}

// Default returns the embedded catalog
func Default() (*Catalog, error) {
	return Parse(embeddedListings)
}

// Load reads listings from path, or the embedded catalog when path is empty
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}
	return Parse(data)
}

// Parse validates data against the catalog schema and builds a Catalog
func Parse(data []byte) (*Catalog, error) {
	if err := schemas.Validate(schemas.Catalog, data); err != nil {
		return nil, fmt.Errorf("invalid catalog: %w", err)
	}

	var properties []domain.Property
	if err := json.Unmarshal(data, &properties); err != nil {
		return nil, fmt.Errorf("failed to decode catalog: %w", err)
	}

	return New(properties)
}

// New builds a Catalog from properties; ids must be unique
func New(properties []domain.Property) (*Catalog, error) {
	c := &Catalog{
		properties: make([]domain.Property, len(properties)),
		byID:       make(map[string]int, len(properties)),
	}
	for i, p := range properties {
		if _, exists := c.byID[p.ID]; exists {
			return nil, fmt.Errorf("duplicate property id %q", p.ID)
		}
		c.properties[i] = clone(p)
		c.byID[p.ID] = i
	}
	return c, nil
}

// All returns every listing in catalog order
func (c *Catalog) All() []domain.Property {
	out := make([]domain.Property, len(c.properties))
	for i, p := range c.properties {
		out[i] = clone(p)
	}
	return out
}

// Len returns the number of listings
func (c *Catalog) Len() int {
	return len(c.properties)
}

// Get looks up a listing by id
func (c *Catalog) Get(id string) (domain.Property, bool) {
	i, ok := c.byID[id]
	if !ok {
		return domain.Property{}, false
	}
	return clone(c.properties[i]), true
}

// Search returns listings matching every non-empty criterion of f
func (c *Catalog) Search(f Filter) []domain.Property {
	location := strings.ToLower(strings.TrimSpace(f.Location))
	typ := strings.ToLower(strings.TrimSpace(f.Type))

	out := make([]domain.Property, 0, len(c.properties))
	for _, p := range c.properties {
		if location != "" && !strings.Contains(strings.ToLower(p.Location), location) {
			continue
		}
		if typ != "" && !strings.Contains(strings.ToLower(p.Title), typ) {
			continue
		}
		if f.MaxPrice > 0 && pricing.Normalize(p.Price) > f.MaxPrice {
			continue
		}
		out = append(out, clone(p))
	}
	return out
}

// Tour collects the images of every listing sharing the property's type tag.
// start is the index of the property's own image.
func (c *Catalog) Tour(id string) (stops []domain.TourStopDTO, start int, err error) {
	p, ok := c.Get(id)
	if !ok {
		return nil, 0, domain.ErrPropertyNotFound
	}

	typ := TypeTag(p.Title)
	for _, candidate := range c.properties {
		if strings.Contains(candidate.Title, typ) {
			stops = append(stops, domain.TourStopDTO{Image: candidate.Image, Description: candidate.Title})
		}
	}
	if len(stops) == 0 {
		stops = append(stops, domain.TourStopDTO{Image: p.Image, Description: p.Title})
	}

	for i, s := range stops {
		if s.Image == p.Image {
			return stops, i, nil
		}
	}
	return stops, 0, nil
}

// LocationTag is the trimmed second comma-separated token of a location,
// e.g. "Nairobi" for "Muthaiga, Nairobi". Empty when there is none.
func LocationTag(location string) string {
	parts := strings.Split(location, ",")
	if len(parts) < 2 {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// TypeTag is the last word before " in " in a title, e.g. "Villa" for
// "Luxury Villa in Muthaiga". Titles without " in " use their last word.
func TypeTag(title string) string {
	head, _, _ := strings.Cut(title, " in ")
	words := strings.Split(head, " ")
	return words[len(words)-1]
}

func clone(p domain.Property) domain.Property {
	if p.Features != nil {
		p.Features = append([]string(nil), p.Features...)
	}
	return p
}
