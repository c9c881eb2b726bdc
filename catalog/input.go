package catalog

import "github.com/angelmondragon/storefront-client/pkg/types"

// Defaults applied to omitted optional fields on creation. Each field is
// defaulted on its own; none is ever derived from another.
const (
	defaultDescription = "Product description"
	defaultImageURL    = "https://picsum.photos/500/500"
	defaultPrice       = 100
	defaultStock       = 45
)

// ProductInput is the creation payload. Pointer fields distinguish an
// omitted value from an explicit zero.
type ProductInput struct {
	Name        string   `json:"name" validate:"required"`
	Description *string  `json:"description,omitempty"`
	ImageURL    *string  `json:"imageURL,omitempty" validate:"omitempty,url"`
	Price       *float64 `json:"price,omitempty" validate:"omitempty,gte=0"`
	Stock       *int     `json:"stock,omitempty" validate:"omitempty,gte=0"`
	Discount    *bool    `json:"discount,omitempty"`
	DiscountPct *float64 `json:"discountPct,omitempty" validate:"omitempty,gte=0"`
	IsHidden    *bool    `json:"isHidden,omitempty"`
}

// withDefaults completes the record sent to the API. The server assigns the
// id; the creator id comes from the current session.
func (in ProductInput) withDefaults(createdBy string) types.Product {
	product := types.Product{
		Name:        in.Name,
		Description: defaultDescription,
		ImageURL:    defaultImageURL,
		Price:       defaultPrice,
		Stock:       defaultStock,
		CreatedBy:   createdBy,
	}
	if in.Description != nil {
		product.Description = *in.Description
	}
	if in.ImageURL != nil {
		product.ImageURL = *in.ImageURL
	}
	if in.Price != nil {
		product.Price = *in.Price
	}
	if in.Stock != nil {
		product.Stock = *in.Stock
	}
	if in.Discount != nil {
		product.Discount = *in.Discount
	}
	if in.DiscountPct != nil {
		product.DiscountPct = *in.DiscountPct
	}
	if in.IsHidden != nil {
		product.IsHidden = *in.IsHidden
	}
	return product
}
