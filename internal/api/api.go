// api — типизированные модули ресурсов бэкенда поверх backend.Client.
// Каждый модуль — тонкое отображение доменной операции в вызов движка
// с каноническим путём; никакой логики, кроме сериализации и side-хуков.
package api

import (
	"github.com/nqoctai/bookstore-gateway/internal/backend"
)

// API агрегирует модули всех ресурсов.
type API struct {
	Auth      *AuthAPI
	Account   *AccountAPI
	Customer  *CustomerAPI
	Cart      *CartAPI
	Order     *OrderAPI
	Product   *ProductAPI
	Catalog   *CatalogAPI
	File      *FileAPI
	Chat      *ChatAPI
	Recommend *RecommendAPI
	Dashboard *DashboardAPI
}

func New(cl *backend.Client) *API {
	return &API{
		Auth:      &AuthAPI{cl: cl},
		Account:   &AccountAPI{cl: cl},
		Customer:  &CustomerAPI{cl: cl},
		Cart:      &CartAPI{cl: cl},
		Order:     &OrderAPI{cl: cl},
		Product:   &ProductAPI{cl: cl},
		Catalog:   &CatalogAPI{cl: cl},
		File:      &FileAPI{cl: cl},
		Chat:      &ChatAPI{cl: cl},
		Recommend: &RecommendAPI{cl: cl},
		Dashboard: &DashboardAPI{cl: cl},
	}
}
