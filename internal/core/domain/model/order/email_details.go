package order

import (
	"time"

	"github.com/shopspring/decimal"
)

// EmailDetails is the order-confirmation projection handed to the
// notification service. It is write-only.
type EmailDetails struct {
	userID     string
	orderTime  string
	totalPrice decimal.Decimal
}

// NewEmailDetails projects a created order. orderTime is the creation date
// (YYYY-MM-DD).
func NewEmailDetails(o *Order) EmailDetails {
	return EmailDetails{
		userID:     o.UserID().String(),
		orderTime:  o.CreatedAt().Format(time.DateOnly),
		totalPrice: o.TotalPrice(),
	}
}

func (d EmailDetails) UserID() string {
	return d.userID
}

func (d EmailDetails) OrderTime() string {
	return d.orderTime
}

func (d EmailDetails) TotalPrice() decimal.Decimal {
	return d.totalPrice
}
