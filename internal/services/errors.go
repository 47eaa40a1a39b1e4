package services

import (
	"errors"
	"fmt"

	"github.com/RajaSunrise/toko/internal/repositories"
)

var (
	ErrEmptyCart          = errors.New("cart is empty")
	ErrAddressNotFound    = errors.New("address not found")
	ErrUnauthenticated    = errors.New("authentication required")
	ErrOrderNotFound      = errors.New("order not found")
	ErrProductNotFound    = errors.New("product not found")
	ErrCategoryNotFound   = errors.New("category not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailTaken         = errors.New("email already registered")
	ErrSlugTaken          = errors.New("slug already in use")
	ErrInvalidOrderStatus = errors.New("invalid order status")
)

// RemoteStoreError is any failure of the backing store. It is not retried within a request.
type RemoteStoreError struct {
	Op  string
	Err error
}

func (e *RemoteStoreError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *RemoteStoreError) Unwrap() error {
	return e.Err
}

// storeError maps a repository error onto the service error space. notFound is returned
// for repositories.ErrNotFound when it is non-nil.
func storeError(op string, err error, notFound error) error {
	if err == nil {
		return nil
	}
	if notFound != nil && errors.Is(err, repositories.ErrNotFound) {
		return notFound
	}
	return &RemoteStoreError{Op: op, Err: err}
}
