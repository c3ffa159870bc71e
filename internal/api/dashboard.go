package api

import (
	"context"

	"github.com/nqoctai/bookstore-gateway/internal/backend"
)

const pathTopProductsSold = "api/v1/dashboard/get-top5-products-sold"

// DashboardAPI — витринная аналитика (топ продаж для главной страницы).
type DashboardAPI struct {
	cl *backend.Client
}

func (d *DashboardAPI) TopProductsSold(ctx context.Context, opts ...backend.Option) (*backend.Response, error) {
	return d.cl.Get(ctx, pathTopProductsSold, opts...)
}
