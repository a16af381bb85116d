package order

import (
	"fmt"

	"orders/internal/pkg/errs"
)

// Status is the order lifecycle state. It only moves forward:
//
//	Ordered ──> Shipped ──> Delivered
//
// The order service creates orders in Ordered; shipping and delivery are
// recorded by another system and only read here.
type Status int

const (
	// Unknown catches uninitialized values.
	Unknown Status = iota

	// Ordered is the initial state of every new order.
	Ordered

	// Shipped means the order left the warehouse.
	Shipped

	// Delivered is final. Delivered orders cannot be deleted.
	Delivered
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:   "UNKNOWN",
		Ordered:   "ORDERED",
		Shipped:   "SHIPPED",
		Delivered: "DELIVERED",
	}
}

// Validate rejects Unknown and out-of-range values, e.g. a corrupted row.
func (s Status) Validate() error {
	if s < Ordered || s > Delivered {
		return errs.NewValueIsInvalidErrorWithCause("status is invalid", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// String returns the upper-case name used on the wire.
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "UNKNOWN"
}

// ParseStatus is the inverse of String for valid statuses.
func ParseStatus(s string) (Status, error) {
	for status, str := range getStatusStrings() {
		if str == s && status != Unknown {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status is invalid", fmt.Errorf("%q is not a valid status", s))
}

// Ship transitions Ordered -> Shipped.
func (s Status) Ship() (Status, error) {
	if s != Ordered {
		return 0, errs.NewValueIsInvalidErrorWithCause(
			"status is invalid",
			fmt.Errorf("%s is not a valid status to ship", s.String()),
		)
	}
	return Shipped, nil
}

// Deliver transitions Shipped -> Delivered.
func (s Status) Deliver() (Status, error) {
	if s != Shipped {
		return 0, errs.NewValueIsInvalidErrorWithCause(
			"status is invalid",
			fmt.Errorf("%s is not a valid status to deliver", s.String()),
		)
	}
	return Delivered, nil
}

// ValidateDeletion is the lifecycle gate for deletion: Delivered orders are kept.
func (s Status) ValidateDeletion() error {
	if s == Delivered {
		return errs.NewForbiddenError("cannot delete a delivered order")
	}
	return nil
}
