// Package catalog reads the product listing from the commerce backend.
package catalog

import (
	"context"
	"fmt"
	"net/url"

	"github.com/redirusmana/bakery-shop-web/internal/cart"
	apperrors "github.com/redirusmana/bakery-shop-web/pkg/errors"
)

// PriceRange is the min/max variant price span for a product.
type PriceRange struct {
	MinVariantPrice cart.Money `json:"minVariantPrice"`
	MaxVariantPrice cart.Money `json:"maxVariantPrice"`
}

// Variant is a purchasable form of a product.
type Variant struct {
	ID               string                `json:"id"`
	Title            string                `json:"title"`
	Price            cart.Money            `json:"price"`
	AvailableForSale bool                  `json:"availableForSale"`
	SelectedOptions  []cart.SelectedOption `json:"selectedOptions"`
}

// Product is a catalog item.
type Product struct {
	ID          string     `json:"id"`
	Handle      string     `json:"handle"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	PriceRange  PriceRange `json:"priceRange"`
	Images      struct {
		Nodes []cart.ProductImage `json:"nodes"`
	} `json:"images"`
	Variants struct {
		Nodes []Variant `json:"nodes"`
	} `json:"variants"`
}

// Gateway is the slice of the remote gateway the catalog needs.
type Gateway interface {
	Get(ctx context.Context, path string, out any) error
}

// Service reads products. It holds no state; every call hits the backend.
type Service struct {
	gw Gateway
}

// NewService creates a catalog service.
func NewService(gw Gateway) *Service {
	return &Service{gw: gw}
}

type listResponse struct {
	Products []Product `json:"products"`
}

// ListProducts returns the full product listing.
func (s *Service) ListProducts(ctx context.Context) ([]Product, error) {
	var resp listResponse
	if err := s.gw.Get(ctx, "/all-products", &resp); err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return resp.Products, nil
}

type productResponse struct {
	Product *Product `json:"product"`
}

// GetProduct returns a single product by its handle.
func (s *Service) GetProduct(ctx context.Context, handle string) (*Product, error) {
	if handle == "" {
		return nil, apperrors.Validation("product handle is required")
	}

	var resp productResponse
	if err := s.gw.Get(ctx, "/product/"+url.PathEscape(handle), &resp); err != nil {
		return nil, fmt.Errorf("get product %q: %w", handle, err)
	}
	if resp.Product == nil {
		return nil, apperrors.Remote("product not found")
	}
	return resp.Product, nil
}
