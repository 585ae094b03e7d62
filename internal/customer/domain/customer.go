package domain

import (
	"errors"
	"time"
)

var (
	ErrNotFound        = errors.New("customer not found")
	ErrInvalidCustomer = errors.New("first name, last name and email are required")
)

type Customer struct {
	ID        string
	FirstName string
	LastName  string
	Email     string
	Address   Address
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Address struct {
	Street  string
	City    string
	ZipCode string
}
