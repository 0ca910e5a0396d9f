package order

import "errors"

var (
	// ErrNotFound is returned when an order id does not exist in the store.
	ErrNotFound = errors.New("order not found")

	// ErrInvalidPrice is returned when a completion price is empty or not a
	// valid decimal number.
	ErrInvalidPrice = errors.New("invalid price")

	// ErrInvalidTransition is returned for status changes the lifecycle does
	// not allow, e.g. un-cancelling an order.
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrMissingFields is returned when a new order lacks an apartment
	// number or order text.
	ErrMissingFields = errors.New("apartment number and order text are required")
)
