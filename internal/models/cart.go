package models

// Cart — корзина покупателя с агрегатами.
type Cart struct {
	ID       int64      `json:"id"`
	Count    int64      `json:"count"`
	SumPrice int64      `json:"sumPrice"`
	Items    []CartItem `json:"cartItems"`
}

type CartItem struct {
	ID       int64    `json:"id"`
	Quantity int64    `json:"quantity"`
	Price    int64    `json:"price"`
	Product  *Product `json:"product,omitempty"`
}

type AddToCartRequest struct {
	Email     string `json:"email"`
	ProductID int64  `json:"productId"`
	Quantity  int64  `json:"quantity"`
}

type UpdateCartRequest struct {
	CartID     int64 `json:"cartId"`
	CartItemID int64 `json:"cartItemId"`
	Quantity   int64 `json:"quantity"`
}
