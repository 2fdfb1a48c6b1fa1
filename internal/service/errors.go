package service

import "errors"

var (
	ErrUserAlreadyExists  = errors.New("email already registered")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenInvalid       = errors.New("invalid token")
	ErrForbidden          = errors.New("forbidden: you do not have permission to access this resource")

	ErrProductNotFound = errors.New("product not found")
	ErrCartNotFound    = errors.New("cart not found")
	ErrItemNotInCart   = errors.New("product not found in cart")
)

// ValidationError reports malformed client input. Details, when set, is echoed back
// to the client outside production.
type ValidationError struct {
	Message string
	Details any
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NewValidationError builds a 400-class error
func NewValidationError(msg string, details any) error {
	return &ValidationError{Message: msg, Details: details}
}

func invalidProductID(id string) error {
	return NewValidationError("invalid product ID format", id)
}
