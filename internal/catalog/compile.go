package catalog

import (
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"
	"golang.org/x/text/unicode/norm"

	"github.com/firstsnow25/BlockChef-front-sub000/internal/blocks"
	"github.com/firstsnow25/BlockChef-front-sub000/internal/semantics"
)

// NormalizeLabel NFC-normalizes a label. Korean ingredient names arrive
// in both composed and decomposed forms depending on the input platform;
// all catalog lookups and stored labels use the composed form.
func NormalizeLabel(label string) string {
	return norm.NFC.String(label)
}

// Compile parses a CUE catalog document into a Catalog.
// Uses the CUE SDK's Go API directly (not a CLI subprocess).
func Compile(src []byte, filename string) (*Catalog, error) {
	ctx := cuecontext.New()
	v := ctx.CompileBytes(src, cue.Filename(filename))
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	cat := &Catalog{features: make(map[string][]string)}

	if err := parseIngredients(v, cat); err != nil {
		return nil, err
	}
	if err := parseCategories(v, cat); err != nil {
		return nil, err
	}

	if len(cat.Categories) == 0 {
		return nil, &CompileError{
			Field:   "categories",
			Message: "at least one category is required",
			Pos:     v.Pos(),
		}
	}
	return cat, nil
}

func parseIngredients(v cue.Value, cat *Catalog) error {
	list := v.LookupPath(cue.ParsePath("ingredients"))
	if !list.Exists() {
		return &CompileError{Field: "ingredients", Message: "ingredients is required", Pos: v.Pos()}
	}

	iter, err := list.List()
	if err != nil {
		return formatCUEError(err)
	}
	for iter.Next() {
		item := iter.Value()

		label, err := stringField(item, "label")
		if err != nil {
			return err
		}
		label = NormalizeLabel(label)

		features, err := stringListField(item, "features")
		if err != nil {
			return err
		}
		for _, f := range features {
			if !knownFeature(f) {
				return &CompileError{
					Field:   "features",
					Message: fmt.Sprintf("ingredient %q: unknown feature %q", label, f),
					Pos:     item.Pos(),
				}
			}
		}

		if _, dup := cat.features[label]; dup {
			return &CompileError{
				Field:   "ingredients",
				Message: fmt.Sprintf("duplicate ingredient %q", label),
				Pos:     item.Pos(),
			}
		}
		cat.features[label] = features
	}
	return nil
}

func parseCategories(v cue.Value, cat *Catalog) error {
	list := v.LookupPath(cue.ParsePath("categories"))
	if !list.Exists() {
		return &CompileError{Field: "categories", Message: "categories is required", Pos: v.Pos()}
	}

	iter, err := list.List()
	if err != nil {
		return formatCUEError(err)
	}

	seen := make(map[string]bool)
	for iter.Next() {
		item := iter.Value()

		name, err := stringField(item, "name")
		if err != nil {
			return err
		}
		if seen[name] {
			return &CompileError{
				Field:   "categories",
				Message: fmt.Sprintf("duplicate category %q", name),
				Pos:     item.Pos(),
			}
		}
		seen[name] = true

		colour, err := stringField(item, "colour")
		if err != nil {
			return err
		}

		entries, err := parseEntries(item, name, cat)
		if err != nil {
			return err
		}

		cat.Categories = append(cat.Categories, Category{
			Name:    name,
			Colour:  colour,
			Entries: entries,
		})
	}
	return nil
}

func parseEntries(category cue.Value, categoryName string, cat *Catalog) ([]Entry, error) {
	list := category.LookupPath(cue.ParsePath("entries"))
	if !list.Exists() {
		return nil, nil
	}

	iter, err := list.List()
	if err != nil {
		return nil, formatCUEError(err)
	}

	var entries []Entry
	for iter.Next() {
		item := iter.Value()

		label, err := stringField(item, "label")
		if err != nil {
			return nil, err
		}
		label = NormalizeLabel(label)

		template, err := stringField(item, "template")
		if err != nil {
			return nil, err
		}
		arch, ok := blocks.ArchetypeFor(template)
		if !ok {
			return nil, &CompileError{
				Field:   "template",
				Message: fmt.Sprintf("category %q entry %q: unknown block type %q", categoryName, label, template),
				Pos:     item.Pos(),
			}
		}

		fields, err := parseFields(item, arch, label)
		if err != nil {
			return nil, err
		}

		lockFields, err := stringListField(item, "lockFields")
		if err != nil {
			return nil, err
		}

		entry := Entry{
			Label:      label,
			Template:   template,
			Fields:     fields,
			LockFields: lockFields,
		}

		// Ingredient-name entries carry the tagged features from the
		// ingredients table as creation metadata.
		if arch.Kind == blocks.KindIngredientName {
			entry.Features = cat.features[label]
		}

		entries = append(entries, entry)
	}
	return entries, nil
}

func parseFields(entry cue.Value, arch blocks.Archetype, label string) ([]Field, error) {
	list := entry.LookupPath(cue.ParsePath("fields"))
	if !list.Exists() {
		return nil, nil
	}

	iter, err := list.List()
	if err != nil {
		return nil, formatCUEError(err)
	}

	var fields []Field
	for iter.Next() {
		item := iter.Value()

		name, err := stringField(item, "name")
		if err != nil {
			return nil, err
		}
		value, err := stringField(item, "value")
		if err != nil {
			return nil, err
		}

		if !archetypeHasField(arch, name) {
			return nil, &CompileError{
				Field:   "fields",
				Message: fmt.Sprintf("entry %q: block type %q has no field %q", label, arch.Type, name),
				Pos:     item.Pos(),
			}
		}
		fields = append(fields, Field{Name: name, Value: NormalizeLabel(value)})
	}
	return fields, nil
}

func archetypeHasField(arch blocks.Archetype, name string) bool {
	for _, f := range arch.Fields {
		if f == name {
			return true
		}
	}
	return false
}

func knownFeature(tag string) bool {
	for _, f := range semantics.KnownFeatures {
		if f == tag {
			return true
		}
	}
	return false
}

// stringField reads a required string field, resolving CUE defaults.
func stringField(v cue.Value, name string) (string, error) {
	fv := v.LookupPath(cue.ParsePath(name))
	if !fv.Exists() {
		return "", &CompileError{
			Field:   name,
			Message: name + " is required",
			Pos:     v.Pos(),
		}
	}
	if d, ok := fv.Default(); ok {
		fv = d
	}
	s, err := fv.String()
	if err != nil {
		return "", formatCUEError(err)
	}
	return s, nil
}

// stringListField reads an optional list of strings.
func stringListField(v cue.Value, name string) ([]string, error) {
	fv := v.LookupPath(cue.ParsePath(name))
	if !fv.Exists() {
		return nil, nil
	}
	iter, err := fv.List()
	if err != nil {
		return nil, formatCUEError(err)
	}
	var out []string
	for iter.Next() {
		s, err := iter.Value().String()
		if err != nil {
			return nil, formatCUEError(err)
		}
		out = append(out, s)
	}
	return out, nil
}

// CompileError is a catalog compile failure with source position.
type CompileError struct {
	Field   string
	Message string
	Pos     token.Pos
}

func (e *CompileError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// formatCUEError extracts position info from CUE errors.
func formatCUEError(err error) error {
	if err == nil {
		return nil
	}

	errs := errors.Errors(err)
	if len(errs) == 0 {
		return err
	}

	firstErr := errs[0]
	positions := errors.Positions(firstErr)
	if len(positions) > 0 {
		return &CompileError{
			Field:   "cue",
			Message: firstErr.Error(),
			Pos:     positions[0],
		}
	}
	return firstErr
}
