package http

import (
	"encoding/json"

	"orders/internal/core/application/usecases/queries"
	"orders/internal/core/domain/model/order"
)

type orderItemDTO struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"qty"`
}

type orderViewDTO struct {
	ID         string         `json:"id"`
	Items      []orderItemDTO `json:"items"`
	TotalPrice json.Number    `json:"totalPrice"`
	Status     string         `json:"status"`
}

type errorDTO struct {
	Error     string `json:"error"`
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}

func toItems(dtos []orderItemDTO) ([]order.Item, error) {
	items := make([]order.Item, 0, len(dtos))
	for _, dto := range dtos {
		item, err := order.NewItem(dto.ProductID, dto.Quantity)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

func fromView(view queries.OrderView) orderViewDTO {
	items := make([]orderItemDTO, 0, len(view.Items))
	for _, item := range view.Items {
		items = append(items, orderItemDTO{ProductID: item.ProductID(), Quantity: item.Quantity()})
	}

	return orderViewDTO{
		ID:         view.ID.String(),
		Items:      items,
		TotalPrice: json.Number(view.TotalPrice.String()),
		Status:     view.Status.String(),
	}
}

func fromViews(views []queries.OrderView) []orderViewDTO {
	result := make([]orderViewDTO, 0, len(views))
	for _, view := range views {
		result = append(result, fromView(view))
	}
	return result
}
