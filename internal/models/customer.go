package models

import "time"

// Payment states a customer record can carry
const (
	PaymentStatusPaid   = "paid"
	PaymentStatusUnpaid = "unpaid"
	PaymentStatusNone   = "none"
)

// Customer is a purchasing customer with its own login credentials
type Customer struct {
	ID            string
	Name          string
	Email         string
	PasswordHash  string
	PhoneNumber   string
	TotalPurchase float64
	City          string
	PaymentStatus string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
