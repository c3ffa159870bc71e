package api

import (
	"context"
	"fmt"

	"github.com/nqoctai/bookstore-gateway/internal/backend"
	"github.com/nqoctai/bookstore-gateway/internal/models"
)

const (
	pathCartAdd    = "api/v1/cart/add"
	pathCartUpdate = "api/v1/cart/update"
	pathCartDelete = "api/v1/cart/delete"
)

// CartAPI — операции над корзиной.
type CartAPI struct {
	cl *backend.Client
}

func (c *CartAPI) Add(ctx context.Context, body models.AddToCartRequest, opts ...backend.Option) (*backend.Response, error) {
	return c.cl.Post(ctx, pathCartAdd, body, opts...)
}

func (c *CartAPI) Update(ctx context.Context, body models.UpdateCartRequest, opts ...backend.Option) (*backend.Response, error) {
	return c.cl.Put(ctx, pathCartUpdate, body, opts...)
}

func (c *CartAPI) Delete(ctx context.Context, cartItemID int64, opts ...backend.Option) (*backend.Response, error) {
	return c.cl.Delete(ctx, fmt.Sprintf("%s/%d", pathCartDelete, cartItemID), opts...)
}
