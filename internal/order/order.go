package order

import (
	"time"

	"github.com/google/uuid"
)

// Status represents the lifecycle state of an order.
type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// Type classifies when during the day the order was placed.
type Type string

const (
	TypeMorning Type = "morning"
	TypeLunch   Type = "lunch"
	TypeEvening Type = "evening"
)

// Order represents a resident's service request.
//
// Price is kept as the raw decimal string the storage row holds; it is empty
// until the order is completed. Reverting a completed order back to pending
// does not clear Price or IsPaid: debt accounting requires
// Status == StatusCompleted, so a reverted order never counts as debt.
type Order struct {
	ID                uuid.UUID
	ApartmentNumber   string
	OrderText         string
	ContactInfo       string
	IsTrashCollection bool
	Type              Type
	TimeMessage       string
	Status            Status
	Price             string
	IsPaid            bool
	PaymentNote       string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}
