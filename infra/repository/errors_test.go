package repository

import (
	"errors"
	"fmt"
	"testing"

	"github.com/payollar/payollar/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestMapGormErrorToDomain(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    error
		expected error
	}{
		{
			name:     "duplicate key error maps to ErrAlreadyExists",
			input:    gorm.ErrDuplicatedKey,
			expected: domain.ErrAlreadyExists,
		},
		{
			name:     "record not found error maps to ErrNotFound",
			input:    gorm.ErrRecordNotFound,
			expected: domain.ErrNotFound,
		},
		{
			name:     "check constraint maps to ErrValidation",
			input:    gorm.ErrCheckConstraintViolated,
			expected: domain.ErrValidation,
		},
		{
			name:     "foreign key maps to ErrValidation",
			input:    fmt.Errorf("insert: %w", gorm.ErrForeignKeyViolated),
			expected: domain.ErrValidation,
		},
		{
			name:     "wrapped duplicate key error maps correctly",
			input:    errors.Join(errors.New("outer error"), gorm.ErrDuplicatedKey),
			expected: domain.ErrAlreadyExists,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			result := MapGormErrorToDomain(tt.input)
			require.Error(t, result)
			assert.ErrorIs(t, result, tt.expected)
		})
	}
}

func TestMapGormErrorToDomain_Passthrough(t *testing.T) {
	t.Parallel()
	assert.NoError(t, MapGormErrorToDomain(nil))

	original := errors.New("some other error")
	assert.Equal(t, original, MapGormErrorToDomain(original))
}

func TestWrapError(t *testing.T) {
	t.Parallel()
	assert.NoError(t, WrapError(func() error { return nil }))
	assert.ErrorIs(t, WrapError(func() error { return gorm.ErrDuplicatedKey }), domain.ErrAlreadyExists)
	assert.EqualError(t, WrapError(func() error { return errors.New("custom error") }), "custom error")
}

func TestWrapError_Panics(t *testing.T) {
	t.Parallel()
	defer func() {
		if r := recover(); r == nil {
			t.Error("expected panic to propagate")
		}
	}()
	_ = WrapError(func() error {
		panic("test panic")
	})
}

func TestNotFoundAsNil(t *testing.T) {
	t.Parallel()
	assert.NoError(t, NotFoundAsNil(gorm.ErrRecordNotFound))
	assert.NoError(t, NotFoundAsNil(nil))
	assert.ErrorIs(t, NotFoundAsNil(gorm.ErrDuplicatedKey), domain.ErrAlreadyExists)
}
