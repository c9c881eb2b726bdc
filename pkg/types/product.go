package types

// Product mirrors the remote API's catalog record. The JSON tags follow the
// wire field names exactly (_id, imageURL, _createdBy and friends) so both
// API payloads and previously persisted carts decode without translation.
type Product struct {
	ID          string  `json:"_id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	ImageURL    string  `json:"imageURL"`
	Price       float64 `json:"price"`
	Stock       int     `json:"stock"`
	Discount    bool    `json:"discount"`
	DiscountPct float64 `json:"discountPct"`
	IsHidden    bool    `json:"isHidden"`
	CreatedBy   string  `json:"_createdBy"`
}

// Snapshot returns the frozen identity/price view of a product as captured
// on order lines. Catalog changes after checkout never reach these copies.
func (p Product) Snapshot() Product {
	return Product{
		ID:       p.ID,
		Name:     p.Name,
		Price:    p.Price,
		ImageURL: p.ImageURL,
	}
}
