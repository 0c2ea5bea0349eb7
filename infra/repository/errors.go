// Package repository holds what the gorm repositories share: error
// translation and lock clauses.
package repository

import (
	"errors"

	"github.com/payollar/payollar/pkg/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ForUpdate locks the selected rows until the surrounding transaction ends.
var ForUpdate = clause.Locking{Strength: "UPDATE"}

// MapGormErrorToDomain converts GORM errors to domain errors.
// It walks the error chain; errors without a mapping are returned unchanged.
// Constraint violations are only recognised when the connection was opened
// with TranslateError.
func MapGormErrorToDomain(err error) error {
	if err == nil {
		return nil
	}

	currentErr := err
	for currentErr != nil {
		switch {
		case errors.Is(currentErr, gorm.ErrDuplicatedKey):
			return domain.ErrAlreadyExists
		case errors.Is(currentErr, gorm.ErrRecordNotFound):
			return domain.ErrNotFound
		case errors.Is(currentErr, gorm.ErrForeignKeyViolated),
			errors.Is(currentErr, gorm.ErrCheckConstraintViolated):
			return errors.Join(domain.ErrValidation, currentErr)
		}
		currentErr = errors.Unwrap(currentErr)
	}
	return err
}

// WrapError runs a GORM operation and maps its error.
//
//	err := WrapError(func() error {
//	    return r.db.WithContext(ctx).Create(model).Error
//	})
func WrapError(op func() error) error {
	return MapGormErrorToDomain(op())
}

// NotFoundAsNil turns gorm.ErrRecordNotFound into a nil error, for lookups
// whose contract is to return nil, nil when nothing matches.
func NotFoundAsNil(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	return MapGormErrorToDomain(err)
}
