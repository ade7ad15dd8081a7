package variant

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fekuna/omnipos-catalog-service/internal/model"
)

func ptr[T any](v T) *T { return &v }

func TestIdentityMatches(t *testing.T) {
	tests := []struct {
		name string
		a, b Identity
		want bool
	}{
		{"all absent", Identity{}, Identity{}, true},
		{"same color only", Identity{Color: ptr("ROJO")}, Identity{Color: ptr("ROJO")}, true},
		{"absent vs present", Identity{Color: ptr("ROJO")}, Identity{Color: ptr("ROJO"), Size: ptr("M")}, false},
		{"present vs absent", Identity{Size: ptr("M")}, Identity{}, false},
		{"different value", Identity{Color: ptr("ROJO")}, Identity{Color: ptr("AZUL")}, false},
		{"empty string is a value", Identity{Color: ptr("")}, Identity{}, false},
		{
			"full tuple",
			Identity{Color: ptr("NEGRO"), Size: ptr("42"), SizeUnit: ptr(model.SizeUnitClothing), Unit: ptr(model.UnitXL)},
			Identity{Color: ptr("NEGRO"), Size: ptr("42"), SizeUnit: ptr(model.SizeUnitClothing), Unit: ptr(model.UnitXL)},
			true,
		},
		{
			"unit differs",
			Identity{Color: ptr("NEGRO"), Unit: ptr(model.UnitXL)},
			Identity{Color: ptr("NEGRO"), Unit: ptr(model.UnitXXL)},
			false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.a.Matches(tt.b))
			assert.Equal(t, tt.want, tt.b.Matches(tt.a))
			assert.Equal(t, tt.want, tt.a.Key() == tt.b.Key())
		})
	}
}

func TestIdentityOf(t *testing.T) {
	v := &model.ProductVariant{Color: ptr("ROJO"), Unit: ptr(model.UnitKG)}
	assert.True(t, IdentityOf(v).Matches(Identity{Color: ptr("ROJO"), Unit: ptr(model.UnitKG)}))
}
