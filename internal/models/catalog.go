package models

// Product — карточка книги из каталога.
type Product struct {
	ID        int64          `json:"id"`
	Barcode   string         `json:"barcode"`
	Name      string         `json:"name"`
	Author    string         `json:"author"`
	Thumbnail string         `json:"thumbnail"`
	Price     int64          `json:"price"`
	Sold      int64          `json:"sold"`
	Quantity  int64          `json:"quantity"`
	Category  *Category      `json:"category,omitempty"`
	Genre     *Genre         `json:"genre,omitempty"`
	Images    []ProductImage `json:"productImages,omitempty"`
}

type ProductImage struct {
	ID  int64  `json:"id"`
	URL string `json:"url"`
}

type Category struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type Genre struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// ProductPage — страница каталога с мета-информацией пагинации.
type ProductPage struct {
	Meta   PageMeta  `json:"meta"`
	Result []Product `json:"result"`
}

type PageMeta struct {
	Current  int `json:"current"`
	PageSize int `json:"pageSize"`
	Pages    int `json:"pages"`
	Total    int `json:"total"`
}

// Promotion — промо-код с ограничениями применения.
type Promotion struct {
	ID              int64  `json:"id"`
	Code            string `json:"code"`
	Name            string `json:"name"`
	Status          string `json:"status"`
	PromotionType   string `json:"promotionType"`
	PromotionValue  int64  `json:"promotionValue"`
	MaxValue        int64  `json:"maxPromotionValue,omitempty"`
	OrderMinValue   int64  `json:"orderMinValue"`
	StartDate       string `json:"startDate"`
	EndDate         string `json:"endDate"`
	QtyLimit        int64  `json:"qtyLimit"`
	OncePerCustomer bool   `json:"isOncePerCustomer"`
}
