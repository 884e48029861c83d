// Package catalog holds the static block catalog: palette entries grouped
// into ordered categories, plus the ingredient feature tagging.
//
// The catalog is compiled once at startup from an embedded CUE document
// and is read-only thereafter.
package catalog

import (
	_ "embed"
	"sync"

	"github.com/firstsnow25/BlockChef-front-sub000/internal/blocks"
)

//go:embed catalog.cue
var catalogCUE []byte

// Field is one initial field value on a palette entry, in declared order.
type Field struct {
	Name  string
	Value string
}

// Entry is one palette entry: a labeled, pre-filled block archetype.
type Entry struct {
	Label      string
	Template   string // block archetype id
	Fields     []Field
	LockFields []string
	Features   []string // ingredient entries only
}

// Metadata builds the record attached to instances spawned from this
// entry, or nil when the entry carries none.
func (e Entry) Metadata() *blocks.Metadata {
	if len(e.Features) == 0 && len(e.LockFields) == 0 {
		return nil
	}
	return &blocks.Metadata{Features: e.Features, LockFields: e.LockFields}
}

// Category is a named palette group in display order.
type Category struct {
	Name    string
	Colour  string
	Entries []Entry
}

// Catalog is the compiled block catalog.
type Catalog struct {
	Categories []Category
	features   map[string][]string // NFC ingredient label -> tags
}

// CategoryOrder returns category names in declared display order.
func (c *Catalog) CategoryOrder() []string {
	names := make([]string, len(c.Categories))
	for i, cat := range c.Categories {
		names[i] = cat.Name
	}
	return names
}

// Category returns the named category, if declared.
func (c *Catalog) Category(name string) (Category, bool) {
	for _, cat := range c.Categories {
		if cat.Name == name {
			return cat, true
		}
	}
	return Category{}, false
}

// FeaturesFor returns the feature tags for an ingredient label, or nil
// for unknown ingredients. The label is NFC-normalized before lookup.
func (c *Catalog) FeaturesFor(label string) []string {
	return c.features[NormalizeLabel(label)]
}

var (
	defaultOnce    sync.Once
	defaultCatalog *Catalog
	defaultErr     error
)

// Default compiles and returns the embedded catalog. The compile runs
// once; subsequent calls return the cached result.
func Default() (*Catalog, error) {
	defaultOnce.Do(func() {
		defaultCatalog, defaultErr = Compile(catalogCUE, "catalog.cue")
	})
	return defaultCatalog, defaultErr
}
