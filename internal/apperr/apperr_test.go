package apperr

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"not found", NotFound("product %d", 1), KindNotFound},
		{"conflict", Conflict("dup"), KindConflict},
		{"validation", Validation("bad"), KindValidation},
		{"forbidden", Forbidden("no"), KindForbidden},
		{"unauthorized", Unauthorized("who"), KindUnauthorized},
		{"wrapped", fmt.Errorf("outer: %w", NotFound("x")), KindNotFound},
		{"plain", errors.New("boom"), KindInternal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, KindOf(tt.err))
		})
	}
}

func TestPublicMessageHidesCause(t *testing.T) {
	err := Internal(errors.New(`pq: relation "x" does not exist`), "error creating variant")
	assert.Equal(t, "error creating variant", PublicMessage(err))
	assert.Equal(t, "internal server error", PublicMessage(errors.New("raw driver text")))
	assert.ErrorIs(t, err, err.(*Error).Err)
}

func TestAnnotateKeepsKindAndCause(t *testing.T) {
	cause := sql.ErrConnDone
	err := Annotate(Wrap(KindConflict, cause, "variant already exists"), "variants[1]")

	require.True(t, IsKind(err, KindConflict))
	assert.Equal(t, "variants[1]: variant already exists", PublicMessage(err))
	assert.ErrorIs(t, err, cause)
	assert.Nil(t, Annotate(nil, "x"))
}

func TestIsMatchesByKind(t *testing.T) {
	err := fmt.Errorf("wrap: %w", NotFound("variant with id %d does not exist", 7))
	assert.True(t, errors.Is(err, &Error{Kind: KindNotFound}))
	assert.False(t, errors.Is(err, &Error{Kind: KindConflict}))
}
