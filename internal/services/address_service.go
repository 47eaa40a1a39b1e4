package services

import (
	"context"
	"strings"

	"github.com/RajaSunrise/toko/internal/models"
	"github.com/RajaSunrise/toko/internal/repositories"
)

const defaultCountry = "GT"

// AddressService manages the shipping addresses of a user.
type AddressService struct {
	addresses repositories.AddressRepository
}

func NewAddressService(addresses repositories.AddressRepository) *AddressService {
	return &AddressService{addresses: addresses}
}

// List returns the user's addresses in creation order.
func (s *AddressService) List(ctx context.Context, userID string) ([]models.Address, error) {
	list, err := s.addresses.ListByUser(ctx, userID, false)
	if err != nil {
		return nil, &RemoteStoreError{Op: "list addresses", Err: err}
	}
	return list, nil
}

// ListForCheckout returns the user's addresses with the default one first.
func (s *AddressService) ListForCheckout(ctx context.Context, userID string) ([]models.Address, error) {
	list, err := s.addresses.ListByUser(ctx, userID, true)
	if err != nil {
		return nil, &RemoteStoreError{Op: "list addresses", Err: err}
	}
	return list, nil
}

// Add stores a new address for userID. A default address replaces the previous default.
func (s *AddressService) Add(ctx context.Context, userID string, address *models.Address) error {
	address.ID = 0
	address.UserID = userID
	address.Country = strings.ToUpper(strings.TrimSpace(address.Country))
	if address.Country == "" {
		address.Country = defaultCountry
	}
	if err := s.addresses.Create(ctx, address); err != nil {
		return &RemoteStoreError{Op: "add address", Err: err}
	}
	return nil
}

func (s *AddressService) Get(ctx context.Context, userID string, id uint) (*models.Address, error) {
	a, err := s.addresses.GetForUser(ctx, userID, id)
	if err != nil {
		return nil, storeError("get address", err, ErrAddressNotFound)
	}
	return a, nil
}

// Delete removes the address only when it belongs to userID.
func (s *AddressService) Delete(ctx context.Context, userID string, id uint) error {
	ok, err := s.addresses.DeleteForUser(ctx, userID, id)
	if err != nil {
		return &RemoteStoreError{Op: "delete address", Err: err}
	}
	if !ok {
		return ErrAddressNotFound
	}
	return nil
}
