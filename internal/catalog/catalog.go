package catalog

import (
	"encoding/json"
	"os"

	"github.com/pkg/errors"
)

// Catalog holds the product listing in its original order plus an index by
// id. It is immutable after construction.
type Catalog struct {
	products []Product
	byID     map[string]Product
}

// New builds a catalog from an ordered product slice.
func New(products []Product) *Catalog {
	byID := make(map[string]Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}
	return &Catalog{products: products, byID: byID}
}

// Load reads a catalog file. The file holds {"products": [...]}, the same
// shape the currency service uses for its data directory.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read catalog file")
	}
	var doc struct {
		Products []Product `json:"products"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrap(err, "failed to parse catalog JSON")
	}
	for _, p := range doc.Products {
		if p.ID == "" {
			return nil, errors.New("catalog entry without id")
		}
		if !p.Price.IsValid() {
			return nil, errors.Errorf("product %s has an invalid price", p.ID)
		}
	}
	return New(doc.Products), nil
}

// List returns the full catalog in its original order.
func (c *Catalog) List() []Product {
	out := make([]Product, len(c.products))
	copy(out, c.products)
	return out
}

// Get looks a product up by id.
func (c *Catalog) Get(id string) (Product, bool) {
	p, ok := c.byID[id]
	return p, ok
}

// Len returns the number of products.
func (c *Catalog) Len() int { return len(c.products) }

// Tags returns the distinct tags in first-seen order, for the header chips.
func (c *Catalog) Tags() []string {
	seen := make(map[string]struct{})
	var out []string
	for _, p := range c.products {
		for _, t := range p.Tags {
			if _, ok := seen[t]; ok {
				continue
			}
			seen[t] = struct{}{}
			out = append(out, t)
		}
	}
	return out
}

// Related picks up to n products related to id: products sharing a tag come
// first, then the remaining catalog order fills the list. The product itself
// is never included.
func (c *Catalog) Related(id string, n int) []Product {
	if n <= 0 {
		return nil
	}
	self, ok := c.byID[id]
	if !ok {
		return nil
	}
	tags := make(map[string]struct{}, len(self.Tags))
	for _, t := range self.Tags {
		tags[t] = struct{}{}
	}

	var related, rest []Product
	for _, p := range c.products {
		if p.ID == id {
			continue
		}
		if sharesTag(p, tags) {
			related = append(related, p)
		} else {
			rest = append(rest, p)
		}
	}
	related = append(related, rest...)
	if len(related) > n {
		related = related[:n]
	}
	return related
}

func sharesTag(p Product, tags map[string]struct{}) bool {
	for _, t := range p.Tags {
		if _, ok := tags[t]; ok {
			return true
		}
	}
	return false
}
