package apperr

import "github.com/nesquaeke/smartshop/pkg/zerror"

const (
	ValidationErrorCode             = "VALIDATION_FAILED"
	ProductNotFoundErrorCode        = "PRODUCT_NOT_FOUND"
	StoreNotFoundErrorCode          = "STORE_NOT_FOUND"
	ComparisonNotAvailableErrorCode = "COMPARISON_NOT_AVAILABLE"
	RetrievalFailedErrorCode        = "RETRIEVAL_FAILED"
)

var (
	ValidationErr = zerror.NewValidationFailed(ValidationErrorCode, "validation error")

	// ProductNotFoundErr is a defined outcome, not a failure: the caller asked
	// about a product the catalog does not know.
	ProductNotFoundErr = zerror.NewNotFound(ProductNotFoundErrorCode, "product not found")

	StoreNotFoundErr = zerror.NewNotFound(StoreNotFoundErrorCode, "store not found")

	// ComparisonNotAvailableErr is returned when a product exists but has no
	// in-stock offers, so no aggregates can be computed.
	ComparisonNotAvailableErr = zerror.NewNotFound(ComparisonNotAvailableErrorCode, "no comparison available")

	// RetrievalFailedErr signals a storage failure while reading offers. The
	// caller may retry.
	RetrievalFailedErr = zerror.NewInternalServerError(RetrievalFailedErrorCode, "retrieval failed")
)
