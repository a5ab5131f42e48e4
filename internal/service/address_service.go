package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/01moynul/storefront-golang/internal/apperr"
	"github.com/01moynul/storefront-golang/internal/mapper"
	"github.com/01moynul/storefront-golang/internal/models"
	"github.com/01moynul/storefront-golang/internal/repository"
)

type AddressService struct {
	store *repository.Store
}

func NewAddressService(store *repository.Store) *AddressService {
	return &AddressService{store: store}
}

func (s *AddressService) CreateAddress(ctx context.Context, in models.AddressDTO) (*models.AddressDTO, error) {
	var dto models.AddressDTO
	err := s.store.WithTx(ctx, func(q *repository.Queries) error {
		addr := mapper.ToAddress(in)
		addr.ID = 0

		found, err := q.FindAddress(ctx, addr)
		if err == nil {
			return apperr.Conflict("Address already exists with addressId: %d", found.ID)
		}
		if !errors.Is(err, repository.ErrNotFound) {
			return err
		}

		if err := q.CreateAddress(ctx, &addr); err != nil {
			return err
		}
		dto = mapper.ToAddressDTO(addr)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &dto, nil
}

func (s *AddressService) GetAddresses(ctx context.Context) ([]models.AddressDTO, error) {
	var addrs []models.Address
	err := s.store.WithTx(ctx, func(q *repository.Queries) error {
		var err error
		addrs, err = q.ListAddresses(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return mapper.MapSlice(addrs, mapper.ToAddressDTO), nil
}

func (s *AddressService) GetAddress(ctx context.Context, addressID int64) (*models.AddressDTO, error) {
	var dto models.AddressDTO
	err := s.store.WithTx(ctx, func(q *repository.Queries) error {
		addr, err := q.GetAddress(ctx, addressID)
		if err != nil {
			return notFound(err, "Address", "addressId", addressID)
		}
		dto = mapper.ToAddressDTO(*addr)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &dto, nil
}

// UpdateAddress edits an address in place. When the new fields match another
// stored address, the users move over to that one and this one is deleted.
func (s *AddressService) UpdateAddress(ctx context.Context, addressID int64, in models.AddressDTO) (*models.AddressDTO, error) {
	var dto models.AddressDTO
	err := s.store.WithTx(ctx, func(q *repository.Queries) error {
		current, err := q.GetAddress(ctx, addressID)
		if err != nil {
			return notFound(err, "Address", "addressId", addressID)
		}

		next := mapper.ToAddress(in)
		next.ID = current.ID

		found, err := q.FindAddress(ctx, next)
		switch {
		case err == nil && found.ID != current.ID:
			userIDs, err := q.ListAddressUserIDs(ctx, current.ID)
			if err != nil {
				return err
			}
			for _, userID := range userIDs {
				if err := q.LinkUserAddress(ctx, userID, found.ID); err != nil {
					return err
				}
			}
			if err := q.UnlinkAddress(ctx, current.ID); err != nil {
				return err
			}
			if err := q.DeleteAddress(ctx, current.ID); err != nil {
				return err
			}
			dto = mapper.ToAddressDTO(*found)
			return nil
		case err != nil && !errors.Is(err, repository.ErrNotFound):
			return err
		}

		if err := q.UpdateAddress(ctx, &next); err != nil {
			return err
		}
		dto = mapper.ToAddressDTO(next)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &dto, nil
}

func (s *AddressService) DeleteAddress(ctx context.Context, addressID int64) (string, error) {
	err := s.store.WithTx(ctx, func(q *repository.Queries) error {
		if _, err := q.GetAddress(ctx, addressID); err != nil {
			return notFound(err, "Address", "addressId", addressID)
		}
		if err := q.UnlinkAddress(ctx, addressID); err != nil {
			return err
		}
		return q.DeleteAddress(ctx, addressID)
	})
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Address deleted succesfully with addressId: %d", addressID), nil
}
