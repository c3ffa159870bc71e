package api

import (
	"context"

	"github.com/nqoctai/bookstore-gateway/internal/backend"
	"github.com/nqoctai/bookstore-gateway/internal/models"
)

const (
	pathAccountUpdate   = "api/v1/account"
	pathChangePassword  = "api/v1/account/change-password"
	pathCustomerUpdate  = "api/v1/customer"
)

// AccountAPI — операции над аккаунтом.
type AccountAPI struct {
	cl *backend.Client
}

func (a *AccountAPI) Update(ctx context.Context, body models.UpdateAccountRequest, opts ...backend.Option) (*backend.Response, error) {
	return a.cl.Put(ctx, pathAccountUpdate, body, opts...)
}

func (a *AccountAPI) ChangePassword(ctx context.Context, body models.ChangePasswordRequest, opts ...backend.Option) (*backend.Response, error) {
	return a.cl.Post(ctx, pathChangePassword, body, opts...)
}

// CustomerAPI — профиль покупателя.
type CustomerAPI struct {
	cl *backend.Client
}

func (c *CustomerAPI) Update(ctx context.Context, body models.UpdateCustomerRequest, opts ...backend.Option) (*backend.Response, error) {
	return c.cl.Put(ctx, pathCustomerUpdate, body, opts...)
}
