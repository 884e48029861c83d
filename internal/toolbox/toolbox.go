// Package toolbox projects the block catalog into the canvas's palette
// description, a Blockly-style toolbox XML fragment.
package toolbox

import (
	"encoding/xml"
	"fmt"
	"strings"

	"github.com/firstsnow25/BlockChef-front-sub000/internal/blocks"
	"github.com/firstsnow25/BlockChef-front-sub000/internal/catalog"
)

// Build renders the palette for the given category order. Pure function
// of its inputs: categories appear in the order given, entries in catalog
// declaration order, fields in declared key order.
//
// A name in the order with no catalog category yields an empty category,
// not an error. All labels and values are escaped so palette content can
// never corrupt the description.
func Build(cat *catalog.Catalog, order []string) (string, error) {
	var b strings.Builder
	b.WriteString(`<xml id="toolbox" style="display: none">` + "\n")

	for _, name := range order {
		category, ok := cat.Category(name)
		if !ok {
			fmt.Fprintf(&b, "  <category name=\"%s\"></category>\n", escape(name))
			continue
		}

		fmt.Fprintf(&b, "  <category name=\"%s\" colour=\"%s\">\n",
			escape(category.Name), escape(category.Colour))
		for _, entry := range category.Entries {
			if err := writeEntry(&b, entry); err != nil {
				return "", err
			}
		}
		b.WriteString("  </category>\n")
	}

	b.WriteString("</xml>\n")
	return b.String(), nil
}

// BuildDefault renders the palette in the catalog's own declared order.
func BuildDefault(cat *catalog.Catalog) (string, error) {
	return Build(cat, cat.CategoryOrder())
}

func writeEntry(b *strings.Builder, entry catalog.Entry) error {
	if _, ok := blocks.ArchetypeFor(entry.Template); !ok {
		return fmt.Errorf("palette entry %q: unknown block type %q", entry.Label, entry.Template)
	}

	fmt.Fprintf(b, "    <block type=\"%s\">\n", escape(entry.Template))
	for _, f := range entry.Fields {
		fmt.Fprintf(b, "      <field name=\"%s\">%s</field>\n", escape(f.Name), escape(f.Value))
	}
	if meta := entry.Metadata(); meta != nil {
		fmt.Fprintf(b, "      <data>%s</data>\n", escape(meta.Encode()))
	}
	b.WriteString("    </block>\n")
	return nil
}

// escape renders a string safe for both element text and attribute
// values; xml.EscapeText also escapes quotes, so attribute positions
// are covered.
func escape(s string) string {
	var b strings.Builder
	if err := xml.EscapeText(&b, []byte(s)); err != nil {
		return ""
	}
	return b.String()
}
