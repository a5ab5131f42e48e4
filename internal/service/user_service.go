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

const defaultUserSort = "userId"

// UserService manages accounts, credentials and role checks.
type UserService struct {
	store *repository.Store
	carts *CartService
}

func NewUserService(store *repository.Store, carts *CartService) *UserService {
	return &UserService{store: store, carts: carts}
}

// Register creates a USER account. An address in the payload is reused when
// an identical one already exists.
func (s *UserService) Register(ctx context.Context, in models.UserDTO) (*models.UserDTO, error) {
	var password models.Password
	if err := password.Set(in.Password); err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	var dto models.UserDTO
	err := s.store.WithTx(ctx, func(q *repository.Queries) error {
		_, err := q.GetUserByEmail(ctx, in.Email)
		if err == nil {
			return apperr.Conflict("User already exists with emailId: %s", in.Email)
		}
		if !errors.Is(err, repository.ErrNotFound) {
			return err
		}

		user := mapper.ToUser(in)
		user.ID = 0
		user.PasswordHash = password.Hash
		if err := q.CreateUser(ctx, &user); err != nil {
			return err
		}
		if err := q.AddUserRole(ctx, user.ID, models.UserRoleID); err != nil {
			return err
		}
		if in.Address != nil {
			if err := linkAddress(ctx, q, user.ID, *in.Address); err != nil {
				return err
			}
		}

		saved, err := q.GetUserByID(ctx, user.ID)
		if err != nil {
			return err
		}
		dto = mapper.ToUserDTO(*saved)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &dto, nil
}

// Login checks credentials. Unknown emails and wrong passwords are reported
// the same way.
func (s *UserService) Login(ctx context.Context, creds models.LoginCredentials) (*models.UserDTO, error) {
	var user *models.User
	err := s.store.WithTx(ctx, func(q *repository.Queries) error {
		var err error
		user, err = q.GetUserByEmail(ctx, creds.Email)
		return err
	})
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperr.Unauthorized("Invalid email or password")
	}
	if err != nil {
		return nil, err
	}

	password := models.Password{Hash: user.PasswordHash}
	ok, err := password.Matches(creds.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to check password: %w", err)
	}
	if !ok {
		return nil, apperr.Unauthorized("Invalid email or password")
	}

	dto := mapper.ToUserDTO(*user)
	return &dto, nil
}

// IsAdmin reports whether the account behind email carries the ADMIN role.
func (s *UserService) IsAdmin(ctx context.Context, email string) (bool, error) {
	var user *models.User
	err := s.store.WithTx(ctx, func(q *repository.Queries) error {
		var err error
		user, err = q.GetUserByEmail(ctx, email)
		return err
	})
	if errors.Is(err, repository.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return user.HasRole(models.RoleAdmin), nil
}

func (s *UserService) GetAllUsers(ctx context.Context, page PageRequest) (*models.UserResponse, error) {
	pq, err := page.query(defaultUserSort)
	if err != nil {
		return nil, err
	}

	var (
		users []models.User
		total int64
	)
	err = s.store.WithTx(ctx, func(q *repository.Queries) error {
		var err error
		users, total, err = q.ListUsers(ctx, pq)
		return sortError(err)
	})
	if err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return nil, apperr.Rule(apperr.CodeEmpty, "No User exists!!!")
	}

	resp := newPage(mapper.MapSlice(users, mapper.ToUserDTO), page, total)
	return &resp, nil
}

func (s *UserService) GetUserByID(ctx context.Context, userID int64) (*models.UserDTO, error) {
	var dto models.UserDTO
	err := s.store.WithTx(ctx, func(q *repository.Queries) error {
		user, err := q.GetUserByID(ctx, userID)
		if err != nil {
			return notFound(err, "User", "userId", userID)
		}
		dto = mapper.ToUserDTO(*user)
		if cart, err := q.GetCartByUserID(ctx, userID); err == nil {
			c := mapper.ToCartDTO(*cart)
			dto.Cart = &c
		} else if !errors.Is(err, repository.ErrNotFound) {
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &dto, nil
}

// UpdateUser overwrites the profile and password. A supplied address replaces
// the user's addresses.
func (s *UserService) UpdateUser(ctx context.Context, userID int64, in models.UserDTO) (*models.UserDTO, error) {
	var password models.Password
	if err := password.Set(in.Password); err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	var dto models.UserDTO
	err := s.store.WithTx(ctx, func(q *repository.Queries) error {
		user, err := q.GetUserByID(ctx, userID)
		if err != nil {
			return notFound(err, "User", "userId", userID)
		}
		if in.Email != user.Email {
			other, err := q.GetUserByEmail(ctx, in.Email)
			if err == nil && other.ID != userID {
				return apperr.Conflict("User already exists with emailId: %s", in.Email)
			}
			if err != nil && !errors.Is(err, repository.ErrNotFound) {
				return err
			}
		}

		user.FirstName = in.FirstName
		user.LastName = in.LastName
		user.MobileNumber = in.MobileNumber
		user.Email = in.Email
		user.PasswordHash = password.Hash
		if err := q.UpdateUser(ctx, user); err != nil {
			return err
		}

		if in.Address != nil {
			if err := q.UnlinkUserAddresses(ctx, userID); err != nil {
				return err
			}
			if err := linkAddress(ctx, q, userID, *in.Address); err != nil {
				return err
			}
		}

		saved, err := q.GetUserByID(ctx, userID)
		if err != nil {
			return err
		}
		dto = mapper.ToUserDTO(*saved)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &dto, nil
}

// DeleteUser removes the account. Cart lines go back to stock first.
func (s *UserService) DeleteUser(ctx context.Context, userID int64) (string, error) {
	var cartID int64
	err := s.store.WithTx(ctx, func(q *repository.Queries) error {
		if _, err := q.GetUserByID(ctx, userID); err != nil {
			return notFound(err, "User", "userId", userID)
		}

		cart, err := q.GetCartByUserID(ctx, userID)
		switch {
		case err == nil:
			cartID = cart.ID
			for _, item := range cart.Items {
				if _, err := s.carts.deleteProductFromCart(ctx, q, cart.ID, item.ProductID); err != nil {
					return err
				}
			}
			if err := q.DeleteCart(ctx, cart.ID); err != nil {
				return err
			}
		case !errors.Is(err, repository.ErrNotFound):
			return err
		}

		return q.DeleteUser(ctx, userID)
	})
	if err != nil {
		return "", err
	}

	if cartID != 0 {
		s.carts.invalidate(cartID)
	}
	return fmt.Sprintf("User with userId %d deleted successfully!!!", userID), nil
}

// linkAddress finds or creates the address and links it to the user.
func linkAddress(ctx context.Context, q *repository.Queries, userID int64, in models.AddressDTO) error {
	addr := mapper.ToAddress(in)
	addr.ID = 0

	found, err := q.FindAddress(ctx, addr)
	switch {
	case err == nil:
		addr = *found
	case errors.Is(err, repository.ErrNotFound):
		if err := q.CreateAddress(ctx, &addr); err != nil {
			return err
		}
	default:
		return err
	}
	return q.LinkUserAddress(ctx, userID, addr.ID)
}
