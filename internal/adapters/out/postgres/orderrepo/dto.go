// Package orderrepo maps the order aggregate to the orders and order_items
// tables. Items keep their request position so an order always reads back
// with its items in the order they were placed.
package orderrepo

import (
	"time"

	"orders/internal/core/domain/model/kernel"
	"orders/internal/core/domain/model/order"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderDTO is the orders row.
type OrderDTO struct {
	ID         uuid.UUID       `gorm:"type:uuid;primaryKey"`
	UserID     uuid.UUID       `gorm:"type:uuid;index;not null"`
	Status     string          `gorm:"type:varchar(16);not null"`
	TotalPrice decimal.Decimal `gorm:"type:numeric;not null"`
	CreatedAt  time.Time       `gorm:"index;not null"`
	Items      []OrderItemDTO  `gorm:"foreignKey:OrderID;references:ID;constraint:OnDelete:CASCADE"`
}

func (OrderDTO) TableName() string {
	return "orders"
}

// OrderItemDTO is one order_items row.
type OrderItemDTO struct {
	OrderID   uuid.UUID `gorm:"type:uuid;primaryKey"`
	Position  int       `gorm:"primaryKey;autoIncrement:false"`
	ProductID string    `gorm:"not null"`
	Quantity  int       `gorm:"not null"`
}

func (OrderItemDTO) TableName() string {
	return "order_items"
}

func fromDomain(o *order.Order) OrderDTO {
	items := o.Items()
	itemDTOs := make([]OrderItemDTO, 0, len(items))
	for i, item := range items {
		itemDTOs = append(itemDTOs, OrderItemDTO{
			OrderID:   o.ID().Bytes(),
			Position:  i,
			ProductID: item.ProductID(),
			Quantity:  item.Quantity(),
		})
	}

	return OrderDTO{
		ID:         o.ID().Bytes(),
		UserID:     o.UserID().Bytes(),
		Status:     o.Status().String(),
		TotalPrice: o.TotalPrice(),
		CreatedAt:  o.CreatedAt().UTC(),
		Items:      itemDTOs,
	}
}

// toDomain expects Items already sorted by position.
func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	userID, err := kernel.UUIDFromBytes(dto.UserID[:])
	if err != nil {
		return nil, err
	}

	status, err := order.ParseStatus(dto.Status)
	if err != nil {
		return nil, err
	}

	items := make([]order.Item, 0, len(dto.Items))
	for _, itemDTO := range dto.Items {
		item, itemErr := order.NewItem(itemDTO.ProductID, itemDTO.Quantity)
		if itemErr != nil {
			return nil, itemErr
		}
		items = append(items, item)
	}

	return order.RestoreOrder(id, userID, items, dto.TotalPrice, status, dto.CreatedAt.UTC())
}
