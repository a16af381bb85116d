package ports

import (
	"context"

	"orders/internal/core/domain/model/order"
)

// OrderNotifier emits the order-confirmation message. Emission is best
// effort: an error is reported to the caller for logging only.
type OrderNotifier interface {
	OrderConfirmed(ctx context.Context, details order.EmailDetails) error
}
