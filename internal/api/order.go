package api

import (
	"context"
	"fmt"

	"github.com/nqoctai/bookstore-gateway/internal/backend"
	"github.com/nqoctai/bookstore-gateway/internal/models"
)

const (
	pathOrder        = "api/v1/order"
	pathOrderHistory = "api/v1/order/history"
)

// OrderAPI — оформление и история заказов.
type OrderAPI struct {
	cl *backend.Client
}

func (o *OrderAPI) Create(ctx context.Context, body models.CreateOrderRequest, opts ...backend.Option) (*backend.Response, error) {
	return o.cl.Post(ctx, pathOrder, body, opts...)
}

func (o *OrderAPI) History(ctx context.Context, accountID int64, opts ...backend.Option) (*backend.Response, error) {
	return o.cl.Get(ctx, fmt.Sprintf("%s/%d", pathOrderHistory, accountID), opts...)
}

func (o *OrderAPI) UpdateStatus(ctx context.Context, body models.UpdateOrderRequest, opts ...backend.Option) (*backend.Response, error) {
	return o.cl.Put(ctx, pathOrder, body, opts...)
}
