package repository

import (
	"context"
	"fmt"

	"github.com/01moynul/storefront-golang/internal/models"
)

var userSortColumns = map[string]string{
	"userId":    "user_id",
	"email":     "email",
	"firstName": "first_name",
	"lastName":  "last_name",
}

const userColumns = "user_id, first_name, last_name, mobile_number, email, password"

func scanUser(s scanner, u *models.User) error {
	return s.Scan(&u.ID, &u.FirstName, &u.LastName, &u.MobileNumber, &u.Email, &u.PasswordHash)
}

// CreateUser inserts the user row only. Roles and addresses are linked separately.
func (q *Queries) CreateUser(ctx context.Context, u *models.User) error {
	query := `
		INSERT INTO users (first_name, last_name, mobile_number, email, password)
		VALUES (?, ?, ?, ?, ?)`

	result, err := q.db.ExecContext(ctx, query, u.FirstName, u.LastName, u.MobileNumber, u.Email, u.PasswordHash)
	if err != nil {
		return fmt.Errorf("failed to insert user: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get new user ID: %w", err)
	}
	u.ID = id
	return nil
}

func (q *Queries) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	row := q.db.QueryRowContext(ctx, "SELECT "+userColumns+" FROM users WHERE email = ?", email)
	if err := scanUser(row, &u); err != nil {
		return nil, notFoundOr(err, "user")
	}
	if err := q.loadUserJoins(ctx, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (q *Queries) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	var u models.User
	row := q.db.QueryRowContext(ctx, "SELECT "+userColumns+" FROM users WHERE user_id = ?", id)
	if err := scanUser(row, &u); err != nil {
		return nil, notFoundOr(err, "user")
	}
	if err := q.loadUserJoins(ctx, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (q *Queries) loadUserJoins(ctx context.Context, u *models.User) error {
	roles, err := q.ListUserRoles(ctx, u.ID)
	if err != nil {
		return err
	}
	addrs, err := q.ListUserAddresses(ctx, u.ID)
	if err != nil {
		return err
	}
	u.Roles = roles
	u.Addresses = addrs
	return nil
}

func (q *Queries) UpdateUser(ctx context.Context, u *models.User) error {
	query := `
		UPDATE users
		SET first_name = ?, last_name = ?, mobile_number = ?, email = ?, password = ?
		WHERE user_id = ?`

	_, err := q.db.ExecContext(ctx, query, u.FirstName, u.LastName, u.MobileNumber, u.Email, u.PasswordHash, u.ID)
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	return nil
}

// DeleteUser removes the user and its role and address links.
func (q *Queries) DeleteUser(ctx context.Context, id int64) error {
	for _, stmt := range []string{
		"DELETE FROM user_role WHERE user_id = ?",
		"DELETE FROM user_address WHERE user_id = ?",
		"DELETE FROM users WHERE user_id = ?",
	} {
		if _, err := q.db.ExecContext(ctx, stmt, id); err != nil {
			return fmt.Errorf("failed to delete user: %w", err)
		}
	}
	return nil
}

func (q *Queries) AddUserRole(ctx context.Context, userID, roleID int64) error {
	_, err := q.db.ExecContext(ctx, "INSERT INTO user_role (user_id, role_id) VALUES (?, ?)", userID, roleID)
	if err != nil {
		return fmt.Errorf("failed to assign role: %w", err)
	}
	return nil
}

func (q *Queries) GetRole(ctx context.Context, roleID int64) (*models.Role, error) {
	var r models.Role
	err := q.db.QueryRowContext(ctx, "SELECT role_id, role_name FROM roles WHERE role_id = ?", roleID).
		Scan(&r.ID, &r.Name)
	if err != nil {
		return nil, notFoundOr(err, "role")
	}
	return &r, nil
}

func (q *Queries) ListUserRoles(ctx context.Context, userID int64) ([]models.Role, error) {
	query := `
		SELECT r.role_id, r.role_name
		FROM roles r
		JOIN user_role ur ON ur.role_id = r.role_id
		WHERE ur.user_id = ?
		ORDER BY r.role_id`

	rows, err := q.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query roles: %w", err)
	}
	defer rows.Close()

	var roles []models.Role
	for rows.Next() {
		var r models.Role
		if err := rows.Scan(&r.ID, &r.Name); err != nil {
			return nil, fmt.Errorf("failed to scan role: %w", err)
		}
		roles = append(roles, r)
	}
	return roles, rows.Err()
}

func (q *Queries) ListUsers(ctx context.Context, page PageQuery) ([]models.User, int64, error) {
	order, err := orderClause(userSortColumns, page, "user_id")
	if err != nil {
		return nil, 0, err
	}

	var total int64
	if err := q.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM users").Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count users: %w", err)
	}

	rows, err := q.db.QueryContext(ctx,
		"SELECT "+userColumns+" FROM users"+order+" LIMIT ? OFFSET ?", page.Limit, page.Offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query users: %w", err)
	}

	var users []models.User
	for rows.Next() {
		var u models.User
		if err := scanUser(rows, &u); err != nil {
			rows.Close()
			return nil, 0, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, u)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("row iteration error: %w", err)
	}

	// Joins run after the cursor is closed; a single-connection pool would deadlock otherwise.
	for i := range users {
		if err := q.loadUserJoins(ctx, &users[i]); err != nil {
			return nil, 0, err
		}
	}
	return users, total, nil
}
