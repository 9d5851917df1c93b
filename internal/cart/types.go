package cart

import (
	"math"
	"strconv"
)

// Money is a decimal amount serialized as a string by the commerce backend.
type Money struct {
	Amount string `json:"amount"`
}

// Int64 parses the amount into whole currency units, truncating any
// fractional part. A malformed amount parses as zero.
func (m Money) Int64() int64 {
	f, err := strconv.ParseFloat(m.Amount, 64)
	if err != nil {
		return 0
	}
	return int64(math.Trunc(f))
}

// ProductImage is a product photo reference.
type ProductImage struct {
	URL string `json:"url"`
}

// SelectedOption is a variant option chosen for a line, such as size.
type SelectedOption struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// MerchandiseProduct is the product summary embedded in a cart line.
type MerchandiseProduct struct {
	Title string       `json:"title"`
	Image ProductImage `json:"featuredImage"`
}

// Merchandise is the purchasable variant on a cart line.
type Merchandise struct {
	ID              string             `json:"id"`
	Title           string             `json:"title"`
	Product         MerchandiseProduct `json:"product"`
	Price           Money              `json:"price"`
	SelectedOptions []SelectedOption   `json:"selectedOptions"`
}

// Attribute is a free-form key/value pair attached to a cart line, used for
// cake and greeting wordings.
type Attribute struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Line is a single cart entry.
type Line struct {
	ID          string      `json:"id"`
	Quantity    int         `json:"quantity"`
	Merchandise Merchandise `json:"merchandise"`
	Attributes  []Attribute `json:"attributes"`
}

// Attribute returns the value for key, or "" when absent.
func (l Line) Attribute(key string) string {
	for _, a := range l.Attributes {
		if a.Key == key {
			return a.Value
		}
	}
	return ""
}

// Cost is the cart price summary.
type Cost struct {
	SubtotalAmount Money `json:"subtotalAmount"`
}

// Lines wraps the node list the backend returns for cart entries.
type Lines struct {
	Nodes []Line `json:"nodes"`
}

// Snapshot is a full cart as returned by the backend.
type Snapshot struct {
	ID    string `json:"id"`
	Lines Lines  `json:"lines"`
	Cost  Cost   `json:"cost"`
}

// Subtotal returns the cart subtotal in whole currency units.
func (s *Snapshot) Subtotal() int64 {
	return s.Cost.SubtotalAmount.Int64()
}

// IsEmpty reports whether the cart has no lines.
func (s *Snapshot) IsEmpty() bool {
	return len(s.Lines.Nodes) == 0
}

// AddLinePayload describes a line to add to the cart.
type AddLinePayload struct {
	VariantID       string `json:"variantId" validate:"required"`
	Quantity        int    `json:"quantity" validate:"gte=1"`
	CakeWording     string `json:"cakeWording,omitempty"`
	GreetingWording string `json:"greetingWording,omitempty"`
	ProductTitle    string `json:"productTitle,omitempty"`
	VariantTitle    string `json:"variantTitle,omitempty"`
}

// UpdateLinePayload describes an edit to an existing cart line.
type UpdateLinePayload struct {
	LineID          string `json:"lineId" validate:"required"`
	Quantity        int    `json:"quantity" validate:"gte=1"`
	CakeWording     string `json:"cakeWording,omitempty"`
	GreetingWording string `json:"greetingWording,omitempty"`
}

// BuyerIdentity is the delivery contact attached to a cart.
type BuyerIdentity struct {
	Phone        string `json:"phone"`
	DeliveryDate string `json:"deliveryDate"`
	DeliveryTime string `json:"deliveryTime"`
}
