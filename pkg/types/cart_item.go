package types

// CartItem is a product selection with a quantity. The cart holds at most
// one item per product id; quantities are always positive.
type CartItem struct {
	Product
	Quantity int `json:"quantity"`
}
