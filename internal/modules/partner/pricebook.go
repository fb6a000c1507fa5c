package partner

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/avdonin/orderhub-backend/internal/domain"
)

// PriceBook is the document a partner publishes to replace the offerings of
// their shop.
type PriceBook struct {
	Shop       string              `yaml:"shop"`
	Categories []PriceBookCategory `yaml:"categories"`
	Goods      []PriceBookGood     `yaml:"goods"`
}

type PriceBookCategory struct {
	ID   int64  `yaml:"id"`
	Name string `yaml:"name"`
}

type PriceBookGood struct {
	ID         int64             `yaml:"id"`
	Name       string            `yaml:"name"`
	Model      string            `yaml:"model"`
	Category   int64             `yaml:"category"`
	Price      int64             `yaml:"price"`
	PriceRRC   int64             `yaml:"price_rrc"`
	Quantity   int               `yaml:"quantity"`
	Parameters map[string]string `yaml:"parameters"`
}

// ParsePriceBook decodes and validates a price-book document. Unknown YAML
// fields and structural mismatches fail with domain.ErrInvalidInput.
func ParsePriceBook(data []byte) (*PriceBook, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var book PriceBook
	if err := dec.Decode(&book); err != nil {
		return nil, fmt.Errorf("malformed price-book: %v: %w", err, domain.ErrInvalidInput)
	}
	if err := book.validate(); err != nil {
		return nil, err
	}
	return &book, nil
}

func (b *PriceBook) validate() error {
	if b.Shop == "" {
		return domain.FieldErrors{"shop": "required"}
	}

	declared := make(map[int64]bool, len(b.Categories))
	for i, c := range b.Categories {
		if c.ID <= 0 {
			return domain.FieldErrors{fmt.Sprintf("categories[%d].id", i): "must be a positive integer"}
		}
		if c.Name == "" {
			return domain.FieldErrors{fmt.Sprintf("categories[%d].name", i): "required"}
		}
		declared[c.ID] = true
	}

	seen := make(map[int64]bool, len(b.Goods))
	for i, g := range b.Goods {
		field := func(name string) string { return fmt.Sprintf("goods[%d].%s", i, name) }
		switch {
		case g.ID <= 0:
			return domain.FieldErrors{field("id"): "must be a positive integer"}
		case seen[g.ID]:
			return domain.FieldErrors{field("id"): "duplicate external id"}
		case g.Name == "":
			return domain.FieldErrors{field("name"): "required"}
		case g.Model == "":
			return domain.FieldErrors{field("model"): "required"}
		case !declared[g.Category]:
			return domain.FieldErrors{field("category"): "references an undeclared category"}
		case g.Price <= 0:
			return domain.FieldErrors{field("price"): "must be positive"}
		case g.PriceRRC <= 0:
			return domain.FieldErrors{field("price_rrc"): "must be positive"}
		case g.Quantity < 0:
			return domain.FieldErrors{field("quantity"): "must not be negative"}
		}
		seen[g.ID] = true
	}
	return nil
}
