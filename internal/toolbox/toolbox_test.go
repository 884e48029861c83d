package toolbox

import (
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/firstsnow25/BlockChef-front-sub000/internal/catalog"
)

func smallCatalog() *catalog.Catalog {
	return &catalog.Catalog{
		Categories: []catalog.Category{
			{
				Name:   "재료",
				Colour: "65",
				Entries: []catalog.Entry{
					{
						Label:      "감자",
						Template:   "ingredient_name",
						Fields:     []catalog.Field{{Name: "NAME", Value: "감자"}},
						LockFields: []string{"NAME"},
						Features:   []string{"solid"},
					},
				},
			},
			{
				Name:   "조리",
				Colour: "20",
				Entries: []catalog.Entry{
					{Label: "썰기", Template: "slice_item"},
					{
						Label:    "볶기",
						Template: "fry_item",
						Fields:   []catalog.Field{{Name: "TIME", Value: "1"}},
					},
				},
			},
		},
	}
}

func TestBuild_Golden(t *testing.T) {
	out, err := Build(smallCatalog(), []string{"조리", "재료", "없음"})
	require.NoError(t, err)

	g := goldie.New(t)
	g.Assert(t, "palette_small", []byte(out))
}

func TestBuild_OrderControlsOutput(t *testing.T) {
	cat := smallCatalog()

	forward, err := Build(cat, []string{"재료", "조리"})
	require.NoError(t, err)
	reverse, err := Build(cat, []string{"조리", "재료"})
	require.NoError(t, err)

	assert.NotEqual(t, forward, reverse)
	assert.Less(t,
		strings.Index(forward, `name="재료"`),
		strings.Index(forward, `name="조리"`))
}

func TestBuild_MissingCategoryIsEmpty(t *testing.T) {
	out, err := Build(smallCatalog(), []string{"없음"})
	require.NoError(t, err)
	assert.Contains(t, out, `<category name="없음"></category>`)
	assert.NotContains(t, out, "<block")
}

func TestBuild_EscapesContent(t *testing.T) {
	cat := &catalog.Catalog{
		Categories: []catalog.Category{{
			Name:   `A & "B" <C>`,
			Colour: "0",
			Entries: []catalog.Entry{{
				Label:    "x",
				Template: "ingredient_name",
				Fields:   []catalog.Field{{Name: "NAME", Value: `<script>&"`}},
			}},
		}},
	}

	out, err := Build(cat, []string{`A & "B" <C>`})
	require.NoError(t, err)

	assert.Contains(t, out, `name="A &amp; &#34;B&#34; &lt;C&gt;"`)
	assert.Contains(t, out, `<field name="NAME">&lt;script&gt;&amp;&#34;</field>`)
	assert.NotContains(t, out, "<script>")
}

func TestBuild_UnknownTemplate(t *testing.T) {
	cat := &catalog.Catalog{
		Categories: []catalog.Category{{
			Name:    "조리",
			Colour:  "20",
			Entries: []catalog.Entry{{Label: "굽기", Template: "bake_item"}},
		}},
	}

	_, err := Build(cat, []string{"조리"})
	assert.ErrorContains(t, err, "bake_item")
}

func TestBuildDefault_FullCatalog(t *testing.T) {
	cat, err := catalog.Default()
	require.NoError(t, err)

	out, err := BuildDefault(cat)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(out, `<xml id="toolbox" style="display: none">`))
	assert.True(t, strings.HasSuffix(out, "</xml>\n"))

	// Every declared category appears once, in declared order.
	last := -1
	for _, name := range cat.CategoryOrder() {
		idx := strings.Index(out, `<category name="`+name+`"`)
		require.GreaterOrEqual(t, idx, 0, name)
		assert.Greater(t, idx, last, name)
		last = idx
	}

	total := 0
	for _, c := range cat.Categories {
		total += len(c.Entries)
	}
	assert.Equal(t, total, strings.Count(out, "<block "))

	// Ingredient leaves carry their feature metadata.
	assert.Contains(t, out, "&#34;features&#34;:[&#34;solid&#34;]")
}
