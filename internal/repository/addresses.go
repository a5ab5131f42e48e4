package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/01moynul/storefront-golang/internal/models"
)

const addressColumns = "a.address_id, a.street, a.building_name, a.city, a.state, a.country, a.pincode"

func scanAddress(s scanner, a *models.Address) error {
	return s.Scan(&a.ID, &a.Street, &a.BuildingName, &a.City, &a.State, &a.Country, &a.Pincode)
}

func (q *Queries) CreateAddress(ctx context.Context, a *models.Address) error {
	query := `
		INSERT INTO addresses (street, building_name, city, state, country, pincode)
		VALUES (?, ?, ?, ?, ?, ?)`

	result, err := q.db.ExecContext(ctx, query, a.Street, a.BuildingName, a.City, a.State, a.Country, a.Pincode)
	if err != nil {
		return fmt.Errorf("failed to insert address: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get new address ID: %w", err)
	}
	a.ID = id
	return nil
}

func (q *Queries) GetAddress(ctx context.Context, id int64) (*models.Address, error) {
	var a models.Address
	row := q.db.QueryRowContext(ctx, "SELECT "+addressColumns+" FROM addresses a WHERE a.address_id = ?", id)
	if err := scanAddress(row, &a); err != nil {
		return nil, notFoundOr(err, "address")
	}
	return &a, nil
}

// FindAddress returns the address whose six fields all equal a's.
func (q *Queries) FindAddress(ctx context.Context, a models.Address) (*models.Address, error) {
	query := "SELECT " + addressColumns + ` FROM addresses a
		WHERE a.street = ? AND a.building_name = ? AND a.city = ?
		AND a.state = ? AND a.country = ? AND a.pincode = ?
		ORDER BY a.address_id LIMIT 1`

	var found models.Address
	row := q.db.QueryRowContext(ctx, query, a.Street, a.BuildingName, a.City, a.State, a.Country, a.Pincode)
	if err := scanAddress(row, &found); err != nil {
		return nil, notFoundOr(err, "address")
	}
	return &found, nil
}

func (q *Queries) ListAddresses(ctx context.Context) ([]models.Address, error) {
	return q.queryAddresses(ctx, "SELECT "+addressColumns+" FROM addresses a ORDER BY a.address_id")
}

func (q *Queries) ListUserAddresses(ctx context.Context, userID int64) ([]models.Address, error) {
	query := "SELECT " + addressColumns + ` FROM addresses a
		JOIN user_address ua ON ua.address_id = a.address_id
		WHERE ua.user_id = ?
		ORDER BY a.address_id`
	return q.queryAddresses(ctx, query, userID)
}

func (q *Queries) queryAddresses(ctx context.Context, query string, args ...any) ([]models.Address, error) {
	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query addresses: %w", err)
	}
	defer rows.Close()

	var addrs []models.Address
	for rows.Next() {
		var a models.Address
		if err := scanAddress(rows, &a); err != nil {
			return nil, fmt.Errorf("failed to scan address: %w", err)
		}
		addrs = append(addrs, a)
	}
	return addrs, rows.Err()
}

func (q *Queries) UpdateAddress(ctx context.Context, a *models.Address) error {
	query := `
		UPDATE addresses
		SET street = ?, building_name = ?, city = ?, state = ?, country = ?, pincode = ?
		WHERE address_id = ?`

	_, err := q.db.ExecContext(ctx, query, a.Street, a.BuildingName, a.City, a.State, a.Country, a.Pincode, a.ID)
	if err != nil {
		return fmt.Errorf("failed to update address: %w", err)
	}
	return nil
}

func (q *Queries) DeleteAddress(ctx context.Context, id int64) error {
	if _, err := q.db.ExecContext(ctx, "DELETE FROM addresses WHERE address_id = ?", id); err != nil {
		return fmt.Errorf("failed to delete address: %w", err)
	}
	return nil
}

// UnlinkAddress drops every user link to an address.
func (q *Queries) UnlinkAddress(ctx context.Context, addressID int64) error {
	if _, err := q.db.ExecContext(ctx, "DELETE FROM user_address WHERE address_id = ?", addressID); err != nil {
		return fmt.Errorf("failed to unlink address: %w", err)
	}
	return nil
}

// ListAddressUserIDs returns the users linked to an address.
func (q *Queries) ListAddressUserIDs(ctx context.Context, addressID int64) ([]int64, error) {
	return q.listIDs(ctx, "SELECT user_id FROM user_address WHERE address_id = ? ORDER BY user_id", addressID)
}

// LinkUserAddress links userID to addressID unless the link already exists.
func (q *Queries) LinkUserAddress(ctx context.Context, userID, addressID int64) error {
	var exists int
	err := q.db.QueryRowContext(ctx,
		"SELECT 1 FROM user_address WHERE user_id = ? AND address_id = ?", userID, addressID).Scan(&exists)
	if err == nil {
		return nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("failed to check address link: %w", err)
	}

	_, err = q.db.ExecContext(ctx, "INSERT INTO user_address (user_id, address_id) VALUES (?, ?)", userID, addressID)
	if err != nil {
		return fmt.Errorf("failed to link address: %w", err)
	}
	return nil
}

// UnlinkUserAddresses drops every address link held by a user.
func (q *Queries) UnlinkUserAddresses(ctx context.Context, userID int64) error {
	if _, err := q.db.ExecContext(ctx, "DELETE FROM user_address WHERE user_id = ?", userID); err != nil {
		return fmt.Errorf("failed to unlink user addresses: %w", err)
	}
	return nil
}
