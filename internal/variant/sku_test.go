package variant

import (
	"math/rand/v2"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var skuPattern = regexp.MustCompile(`^[A-Z0-9X ]{4}-\d{2,}-\d{2,}-[0-9A-F]{8}$`)

func TestGenerateFormat(t *testing.T) {
	g := NewSKUGeneratorWithSource(rand.NewPCG(1, 2))

	tests := []struct {
		name       string
		product    string
		cat, brand *int64
		wantPrefix string
	}{
		{"typical", "Camisa Lino", ptr(int64(3)), ptr(int64(7)), "CAMI-03-07-"},
		{"short name padded", "Té", nil, ptr(int64(12)), "TÉXX-00-12-"},
		{"empty name", "", nil, nil, "XXXX-00-00-"},
		{"wide ids", "shoe", ptr(int64(123)), ptr(int64(4)), "SHOE-123-04-"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sku := g.Generate(tt.product, tt.cat, tt.brand)
			assert.Contains(t, sku, tt.wantPrefix)
			assert.Len(t, []rune(sku), len([]rune(tt.wantPrefix))+8)
		})
	}

	assert.Regexp(t, skuPattern, g.Generate("Pantalon", ptr(int64(1)), ptr(int64(2))))
}

func TestGenerateIsDistinct(t *testing.T) {
	g := NewSKUGeneratorWithSource(rand.NewPCG(42, 7))
	seen := make(map[string]struct{}, 1000)
	for i := 0; i < 1000; i++ {
		sku := g.Generate("Remera", ptr(int64(1)), ptr(int64(1)))
		_, dup := seen[sku]
		require.False(t, dup, "duplicate sku %s", sku)
		seen[sku] = struct{}{}
	}
}

func TestGenerateDeterministicWithSource(t *testing.T) {
	a := NewSKUGeneratorWithSource(rand.NewPCG(9, 9))
	b := NewSKUGeneratorWithSource(rand.NewPCG(9, 9))
	assert.Equal(t, a.Generate("Gorra", nil, nil), b.Generate("Gorra", nil, nil))
}
