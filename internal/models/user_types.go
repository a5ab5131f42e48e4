package models

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// Role names seeded by the initial migration.
const (
	RoleAdmin = "ADMIN"
	RoleUser  = "USER"

	AdminRoleID int64 = 101
	UserRoleID  int64 = 102
)

// User defines the model for the 'users' table
type User struct {
	ID           int64  `db:"user_id"`
	FirstName    string `db:"first_name"`
	LastName     string `db:"last_name"`
	MobileNumber string `db:"mobile_number"`
	Email        string `db:"email"`
	PasswordHash string `db:"password"`

	// Joins (not columns, populated by the repository)
	Roles     []Role    `db:"-"`
	Addresses []Address `db:"-"`
}

// HasRole reports whether the user carries the named role.
func (u *User) HasRole(name string) bool {
	for _, r := range u.Roles {
		if r.Name == name {
			return true
		}
	}
	return false
}

// Role defines the model for the 'roles' table
type Role struct {
	ID   int64  `db:"role_id"`
	Name string `db:"role_name"`
}

// Address defines the model for the 'addresses' table
type Address struct {
	ID           int64  `db:"address_id"`
	Street       string `db:"street"`
	BuildingName string `db:"building_name"`
	City         string `db:"city"`
	State        string `db:"state"`
	Country      string `db:"country"`
	Pincode      string `db:"pincode"`
}

// Password Helper (Standard)
type Password struct {
	Plaintext *string
	Hash      string
}

func (p *Password) Set(plaintextPassword string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintextPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	p.Hash = string(hash)
	p.Plaintext = &plaintextPassword
	return nil
}

func (p *Password) Matches(plaintextPassword string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(p.Hash), []byte(plaintextPassword))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
