package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/fekuna/omnipos-catalog-service/internal/apperr"
)

const (
	codeNotNullViolation    = "23502"
	codeForeignKeyViolation = "23503"
	codeUniqueViolation     = "23505"
	codeCheckViolation      = "23514"
)

const (
	ConstraintVariantIdentity = "product_variants_identity_key"
	ConstraintVariantSKU      = "product_variants_sku_key"
)

var uniqueMessages = map[string]string{
	ConstraintVariantIdentity:      "variant already exists for this product with the same color, size, size unit and unit",
	ConstraintVariantSKU:           "a variant with the same SKU already exists",
	"products_serial_number_key":   "a product with the same serial number already exists",
	"products_name_category_brand": "a product with the same name, category and brand already exists",
	"categories_name_key":          "a category with the same name already exists",
	"brands_name_key":              "a brand with the same name already exists",
	"admins_username_key":          "username already registered",
	"admins_email_key":             "email already registered",
}

// TranslateError maps driver errors to the apperr taxonomy. Errors that are
// already classified pass through untouched; everything unknown becomes an
// Internal error carrying internalMsg.
func TranslateError(err error, internalMsg string) error {
	if err == nil {
		return nil
	}

	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		return err
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case codeForeignKeyViolation:
			return apperr.Wrap(apperr.KindValidation, err,
				"reference error: verify that the product, branch and other ids exist and are not still in use")
		case codeUniqueViolation:
			msg, ok := uniqueMessages[pgErr.ConstraintName]
			if !ok {
				msg = "a record with the same unique attributes already exists"
			}
			return apperr.Wrap(apperr.KindConflict, err, msg)
		case codeCheckViolation:
			return apperr.Wrap(apperr.KindValidation, err, "value violates a catalog constraint")
		case codeNotNullViolation:
			return apperr.Wrap(apperr.KindValidation, err, "a required field is missing")
		}
	}

	return apperr.Internal(err, internalMsg)
}

// IsUniqueViolation reports whether err is a unique violation on constraint.
// An empty constraint matches any unique violation.
func IsUniqueViolation(err error, constraint string) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != codeUniqueViolation {
		return false
	}
	return constraint == "" || pgErr.ConstraintName == constraint
}
