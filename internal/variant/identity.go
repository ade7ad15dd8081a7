package variant

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"strings"

	"github.com/fekuna/omnipos-catalog-service/internal/model"
)

// Identity is the tuple that distinguishes variants of one product. A nil
// field means the attribute is absent, and absent only equals absent.
type Identity struct {
	Color    *string
	Size     *string
	SizeUnit *model.SizeUnit
	Unit     *model.Unit
}

// IdentityOf extracts the identity tuple of a stored variant.
func IdentityOf(v *model.ProductVariant) Identity {
	return Identity{Color: v.Color, Size: v.Size, SizeUnit: v.SizeUnit, Unit: v.Unit}
}

// Matches compares field by field, treating two absent values as equal.
func (i Identity) Matches(other Identity) bool {
	return sameOptional(i.Color, other.Color) &&
		sameOptional(i.Size, other.Size) &&
		sameOptional(i.SizeUnit, other.SizeUnit) &&
		sameOptional(i.Unit, other.Unit)
}

// Key is a stable digest of the tuple, used to name per-identity locks.
func (i Identity) Key() string {
	var b strings.Builder
	writeOptional(&b, i.Color)
	writeOptional(&b, i.Size)
	writeOptional(&b, i.SizeUnit)
	writeOptional(&b, i.Unit)
	sum := sha256.Sum256([]byte(b.String()))
	return hex.EncodeToString(sum[:8])
}

func sameOptional[T comparable](a, b *T) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func writeOptional[T ~string](b *strings.Builder, v *T) {
	if v == nil {
		b.WriteString("-|")
		return
	}
	s := string(*v)
	b.WriteString(strconv.Itoa(len(s)))
	b.WriteByte(':')
	b.WriteString(s)
	b.WriteByte('|')
}
