package domain

import "errors"

var (
	ErrCustomerNotFound   = errors.New("customer not found")
	ErrProductNotFound    = errors.New("product not found")
	ErrCategoryNotFound   = errors.New("category not found")
	ErrOrderNotFound      = errors.New("order not found")
	ErrAdminNotFound      = errors.New("admin not found")
	ErrInvalidQuantity    = errors.New("invalid quantity")
	ErrInsufficientStock  = errors.New("insufficient stock")
	ErrPersistenceFailed  = errors.New("persistence failed")
	ErrEmptyDraft         = errors.New("draft has no lines")
	ErrDraftClosed        = errors.New("draft already committed or abandoned")
	ErrInvalidInput       = errors.New("invalid input")
	ErrDuplicateName      = errors.New("name already in use")
	ErrDuplicateEmail     = errors.New("email already in use")
	ErrCustomerHasOrders  = errors.New("customer still has orders")
	ErrProductReferenced  = errors.New("product referenced by order lines")
	ErrCategoryNotEmpty   = errors.New("category still has products")
	ErrInvalidCredentials = errors.New("invalid credentials")
)
