package types

// OrderLine freezes one cart item at checkout time. The product is copied by
// value via Product.Snapshot, never referenced.
type OrderLine struct {
	Product  Product `json:"product"`
	Quantity int     `json:"quantity"`
}

// Order is the immutable record of a completed checkout. Orders are
// append-only; once created nothing in this module mutates them. Total is
// the tax-exclusive cart total captured at checkout time.
type Order struct {
	ID          string      `json:"_id"`
	OrderDate   string      `json:"orderDate"`
	Total       float64     `json:"total"`
	OrderStatus string      `json:"orderStatus"`
	OrderNumber int         `json:"orderNumber"`
	UserName    string      `json:"userName"`
	OrderLine   []OrderLine `json:"orderLine"`
}
