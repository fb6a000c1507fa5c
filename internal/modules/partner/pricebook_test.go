package partner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avdonin/orderhub-backend/internal/domain"
)

const validDocument = `
shop: Svyaznoy
categories:
  - id: 224
    name: Smartphones
  - id: 15
    name: Accessories
goods:
  - id: 4216292
    name: Smartphone
    model: apple/iphone/xs-max
    category: 224
    price: 110000
    price_rrc: 116990
    quantity: 14
    parameters:
      "Screen Size (inches)": "6.5"
      "Color": "gold"
  - id: 4216313
    name: Cable
    model: apple/lightning
    category: 15
    price: 1500
    price_rrc: 1990
    quantity: 120
`

func TestParsePriceBook(t *testing.T) {
	book, err := ParsePriceBook([]byte(validDocument))
	require.NoError(t, err)

	assert.Equal(t, "Svyaznoy", book.Shop)
	require.Len(t, book.Categories, 2)
	assert.Equal(t, int64(224), book.Categories[0].ID)

	require.Len(t, book.Goods, 2)
	g := book.Goods[0]
	assert.Equal(t, int64(4216292), g.ID)
	assert.Equal(t, "apple/iphone/xs-max", g.Model)
	assert.Equal(t, int64(110000), g.Price)
	assert.Equal(t, "gold", g.Parameters["Color"])
	assert.Empty(t, book.Goods[1].Parameters)
}

func TestParsePriceBookRejectsMalformedYAML(t *testing.T) {
	_, err := ParsePriceBook([]byte("shop: [unclosed"))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestParsePriceBookRejectsUnknownFields(t *testing.T) {
	_, err := ParsePriceBook([]byte("shop: X\nwarehouse: Y\n"))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestPriceBookValidation(t *testing.T) {
	cases := []struct {
		name  string
		doc   string
		field string
	}{
		{
			name:  "missing shop",
			doc:   "categories: []\ngoods: []\n",
			field: "shop",
		},
		{
			name: "category without name",
			doc: `
shop: X
categories:
  - id: 1
`,
			field: "categories[0].name",
		},
		{
			name: "non-positive category id",
			doc: `
shop: X
categories:
  - id: 0
    name: Y
`,
			field: "categories[0].id",
		},
		{
			name: "undeclared category reference",
			doc: `
shop: X
categories:
  - id: 1
    name: Y
goods:
  - id: 10
    name: G
    model: m
    category: 2
    price: 1
    price_rrc: 1
    quantity: 1
`,
			field: "goods[0].category",
		},
		{
			name: "duplicate good id",
			doc: `
shop: X
categories:
  - id: 1
    name: Y
goods:
  - id: 10
    name: G
    model: m
    category: 1
    price: 1
    price_rrc: 1
    quantity: 1
  - id: 10
    name: H
    model: n
    category: 1
    price: 1
    price_rrc: 1
    quantity: 1
`,
			field: "goods[1].id",
		},
		{
			name: "negative quantity",
			doc: `
shop: X
categories:
  - id: 1
    name: Y
goods:
  - id: 10
    name: G
    model: m
    category: 1
    price: 1
    price_rrc: 1
    quantity: -1
`,
			field: "goods[0].quantity",
		},
		{
			name: "zero price",
			doc: `
shop: X
categories:
  - id: 1
    name: Y
goods:
  - id: 10
    name: G
    model: m
    category: 1
    price: 0
    price_rrc: 1
    quantity: 1
`,
			field: "goods[0].price",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParsePriceBook([]byte(tc.doc))
			var fields domain.FieldErrors
			require.ErrorAs(t, err, &fields)
			assert.Contains(t, fields, tc.field)
		})
	}
}
