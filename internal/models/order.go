package models

// Order — заказ с историей статусов доставки.
type Order struct {
	ID            int64       `json:"id"`
	TotalPrice    int64       `json:"totalPrice"`
	ReceiverName  string      `json:"receiverName"`
	ReceiverPhone string      `json:"receiverPhone"`
	Address       string      `json:"address"`
	PaymentMethod string      `json:"paymentMethod"`
	CreatedAt     string      `json:"createdAt"`
	Items         []OrderItem `json:"orderItems,omitempty"`
	Shipping      []ShippingEvent `json:"shippingEvents,omitempty"`
}

type OrderItem struct {
	ID       int64    `json:"id"`
	Quantity int64    `json:"quantity"`
	Price    int64    `json:"price"`
	Product  *Product `json:"product,omitempty"`
}

type ShippingEvent struct {
	ID        int64           `json:"id"`
	CreatedBy string          `json:"createdBy"`
	CreatedAt string          `json:"createdAt"`
	Note      string          `json:"note"`
	Status    *ShippingStatus `json:"shippingStatus,omitempty"`
}

type ShippingStatus struct {
	ID     int64  `json:"id"`
	Label  string `json:"label"`
	Status string `json:"status"`
}

type CreateOrderRequest struct {
	AccountID     int64  `json:"accountId"`
	CartID        int64  `json:"cartId"`
	ReceiverName  string `json:"receiverName"`
	ReceiverPhone string `json:"receiverPhone"`
	Address       string `json:"address"`
	PaymentMethod string `json:"paymentMethod"`
	PromotionCode string `json:"promotionCode,omitempty"`
}

type UpdateOrderRequest struct {
	OrderID int64  `json:"orderId"`
	Status  string `json:"status"`
	Note    string `json:"note,omitempty"`
}
