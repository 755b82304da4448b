package repository

import (
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestNewPage(t *testing.T) {
	tests := []struct {
		name           string
		number, size   int
		wantNumber     int
		wantSize       int
		wantOffset     int
	}{
		{"Defaults", 0, 0, 1, DefaultPageSize, 0},
		{"Second page", 2, 10, 2, 10, 10},
		{"Clamped size", 3, 1000, 3, MaxPageSize, 200},
		{"Negative number", -4, 5, 1, 5, 0},
		{"Huge number", math.MaxInt, MaxPageSize, MaxPageNumber, MaxPageSize, (MaxPageNumber - 1) * MaxPageSize},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPage(tt.number, tt.size)
			assert.Equal(t, tt.wantNumber, p.Number)
			assert.Equal(t, tt.wantSize, p.Limit())
			assert.Equal(t, tt.wantOffset, p.Offset())
			assert.GreaterOrEqual(t, p.Offset(), 0)
		})
	}
}

func TestTranslateError(t *testing.T) {
	assert.Nil(t, translateError(nil))
	assert.ErrorIs(t, translateError(gorm.ErrRecordNotFound), ErrNotFound)
	assert.ErrorIs(t, translateError(fmt.Errorf("wrap: %w", gorm.ErrDuplicatedKey)), ErrDuplicate)
	assert.ErrorIs(t, translateError(&pgconn.PgError{Code: "23505"}), ErrDuplicate)
	assert.ErrorIs(t, translateError(&pgconn.PgError{Code: "23514"}), ErrConstraint)

	other := errors.New("connection reset")
	assert.Equal(t, other, translateError(other))
}
