package api

import (
	"context"
	"fmt"

	"github.com/nqoctai/bookstore-gateway/internal/backend"
)

const (
	pathProducts     = "api/v1/products"
	pathCategories   = "api/v1/categories"
	pathProductTypes = "api/v1/product-types"
	pathPromotions   = "api/v1/promotions"
)

// ProductAPI — каталог книг.
type ProductAPI struct {
	cl *backend.Client
}

// List отдаёт страницу каталога; query — сырая строка фильтров/пагинации
// (прокидывается на бэкенд как есть).
func (p *ProductAPI) List(ctx context.Context, query string, opts ...backend.Option) (*backend.Response, error) {
	path := pathProducts
	if query != "" {
		path = pathProducts + "?" + query
	}
	return p.cl.Get(ctx, path, opts...)
}

func (p *ProductAPI) ByID(ctx context.Context, id int64, opts ...backend.Option) (*backend.Response, error) {
	return p.cl.Get(ctx, fmt.Sprintf("%s/%d", pathProducts, id), opts...)
}

// CatalogAPI — справочники каталога: категории, типы, промо-акции.
type CatalogAPI struct {
	cl *backend.Client
}

func (c *CatalogAPI) Categories(ctx context.Context, opts ...backend.Option) (*backend.Response, error) {
	return c.cl.Get(ctx, pathCategories, opts...)
}

func (c *CatalogAPI) ProductTypes(ctx context.Context, opts ...backend.Option) (*backend.Response, error) {
	return c.cl.Get(ctx, pathProductTypes, opts...)
}

func (c *CatalogAPI) Promotions(ctx context.Context, opts ...backend.Option) (*backend.Response, error) {
	return c.cl.Get(ctx, pathPromotions, opts...)
}
