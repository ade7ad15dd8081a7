package variant

import (
	"fmt"
	"math/rand/v2"
	"strings"
	"sync"
)

const skuPrefixLen = 4

// SKUGenerator builds PPPP-CC-BB-XXXXXXXX codes. The random suffix is not
// cryptographic; the store's unique index is what guarantees uniqueness.
type SKUGenerator struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

// NewSKUGenerator returns a generator seeded from the runtime source.
func NewSKUGenerator() *SKUGenerator {
	return NewSKUGeneratorWithSource(rand.NewPCG(rand.Uint64(), rand.Uint64()))
}

// NewSKUGeneratorWithSource returns a generator drawing from src. Used by tests.
func NewSKUGeneratorWithSource(src rand.Source) *SKUGenerator {
	return &SKUGenerator{rnd: rand.New(src)}
}

// Generate returns a SKU for a product. Absent category or brand ids print as 00.
func (g *SKUGenerator) Generate(productName string, categoryID, brandID *int64) string {
	g.mu.Lock()
	suffix := g.rnd.Uint32()
	g.mu.Unlock()

	return fmt.Sprintf("%s-%02d-%02d-%08X", skuPrefix(productName), idOrZero(categoryID), idOrZero(brandID), suffix)
}

func skuPrefix(name string) string {
	runes := []rune(strings.ToUpper(strings.TrimSpace(name)))
	if len(runes) > skuPrefixLen {
		runes = runes[:skuPrefixLen]
	}
	return string(runes) + strings.Repeat("X", skuPrefixLen-len(runes))
}

func idOrZero(id *int64) int64 {
	if id == nil {
		return 0
	}
	return *id
}
