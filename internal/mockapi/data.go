package mockapi

import (
	"fmt"
	"strconv"
	"sync"

	"github.com/google/uuid"
)

type money struct {
	Amount string `json:"amount"`
}

type productImage struct {
	URL string `json:"url"`
}

type selectedOption struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type variant struct {
	ID               string           `json:"id"`
	Title            string           `json:"title"`
	Price            money            `json:"price"`
	AvailableForSale bool             `json:"availableForSale"`
	SelectedOptions  []selectedOption `json:"selectedOptions"`
}

type product struct {
	ID          string `json:"id"`
	Handle      string `json:"handle"`
	Title       string `json:"title"`
	Description string `json:"description"`
	PriceRange  struct {
		MinVariantPrice money `json:"minVariantPrice"`
		MaxVariantPrice money `json:"maxVariantPrice"`
	} `json:"priceRange"`
	Images struct {
		Nodes []productImage `json:"nodes"`
	} `json:"images"`
	Variants struct {
		Nodes []variant `json:"nodes"`
	} `json:"variants"`
}

type attribute struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

type merchandise struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Product struct {
		Title string       `json:"title"`
		Image productImage `json:"featuredImage"`
	} `json:"product"`
	Price           money            `json:"price"`
	SelectedOptions []selectedOption `json:"selectedOptions"`
}

type cartLine struct {
	ID          string      `json:"id"`
	Quantity    int         `json:"quantity"`
	Merchandise merchandise `json:"merchandise"`
	Attributes  []attribute `json:"attributes"`
}

type buyerIdentity struct {
	Phone        string `json:"phone"`
	DeliveryDate string `json:"deliveryDate"`
	DeliveryTime string `json:"deliveryTime"`
}

type cartState struct {
	ID    string
	Lines []cartLine
	Buyer buyerIdentity
}

type cartView struct {
	ID    string `json:"id"`
	Lines struct {
		Nodes []cartLine `json:"nodes"`
	} `json:"lines"`
	Cost struct {
		SubtotalAmount money `json:"subtotalAmount"`
	} `json:"cost"`
}

func (c *cartState) view() cartView {
	var v cartView
	v.ID = c.ID
	v.Lines.Nodes = c.Lines
	var subtotal float64
	for _, l := range c.Lines {
		price, _ := strconv.ParseFloat(l.Merchandise.Price.Amount, 64)
		subtotal += price * float64(l.Quantity)
	}
	v.Cost.SubtotalAmount = money{Amount: strconv.FormatFloat(subtotal, 'f', -1, 64)}
	return v
}

// store is the in-memory backing data: a fixed catalog plus mutable carts
// and accounts.
type store struct {
	mu       sync.Mutex
	products []product
	carts    map[string]*cartState
	accounts map[string]*account
}

func newStore() *store {
	return &store{
		products: seedProducts(),
		carts:    make(map[string]*cartState),
		accounts: make(map[string]*account),
	}
}

func (s *store) findVariant(variantID string) (*product, *variant) {
	for i := range s.products {
		p := &s.products[i]
		for j := range p.Variants.Nodes {
			if p.Variants.Nodes[j].ID == variantID {
				return p, &p.Variants.Nodes[j]
			}
		}
	}
	return nil, nil
}

func (s *store) newLine(p *product, v *variant, quantity int, cake, greeting string) cartLine {
	line := cartLine{
		ID:       "line-" + uuid.New().String(),
		Quantity: quantity,
		Merchandise: merchandise{
			ID:              v.ID,
			Title:           v.Title,
			Price:           v.Price,
			SelectedOptions: v.SelectedOptions,
		},
	}
	line.Merchandise.Product.Title = p.Title
	if len(p.Images.Nodes) > 0 {
		line.Merchandise.Product.Image = p.Images.Nodes[0]
	}
	if cake != "" {
		line.Attributes = append(line.Attributes, attribute{Key: "cakeWording", Value: cake})
	}
	if greeting != "" {
		line.Attributes = append(line.Attributes, attribute{Key: "greetingWording", Value: greeting})
	}
	return line
}

func seedProducts() []product {
	type seed struct {
		handle, title, desc string
		variants            []variant
	}
	seeds := []seed{
		{
			handle: "classic-chocolate-cake",
			title:  "Classic Chocolate Cake",
			desc:   "Rich dark chocolate sponge with ganache.",
			variants: []variant{
				{Title: "16 cm", Price: money{Amount: "185000"}, AvailableForSale: true,
					SelectedOptions: []selectedOption{{Name: "Size", Value: "16 cm"}}},
				{Title: "20 cm", Price: money{Amount: "265000"}, AvailableForSale: true,
					SelectedOptions: []selectedOption{{Name: "Size", Value: "20 cm"}}},
			},
		},
		{
			handle: "red-velvet-cake",
			title:  "Red Velvet Cake",
			desc:   "Cream cheese frosting over velvet sponge.",
			variants: []variant{
				{Title: "16 cm", Price: money{Amount: "195000"}, AvailableForSale: true,
					SelectedOptions: []selectedOption{{Name: "Size", Value: "16 cm"}}},
			},
		},
		{
			handle: "butter-croissant",
			title:  "Butter Croissant",
			desc:   "Laminated with French butter, baked daily.",
			variants: []variant{
				{Title: "Single", Price: money{Amount: "28000"}, AvailableForSale: true,
					SelectedOptions: []selectedOption{{Name: "Pack", Value: "Single"}}},
				{Title: "Box of 4", Price: money{Amount: "99000"}, AvailableForSale: true,
					SelectedOptions: []selectedOption{{Name: "Pack", Value: "Box of 4"}}},
			},
		},
		{
			handle: "banana-bread-loaf",
			title:  "Banana Bread Loaf",
			desc:   "Moist loaf with caramelized banana.",
			variants: []variant{
				{Title: "Whole loaf", Price: money{Amount: "85000"}, AvailableForSale: true,
					SelectedOptions: []selectedOption{{Name: "Pack", Value: "Whole loaf"}}},
			},
		},
	}

	products := make([]product, 0, len(seeds))
	for i, sd := range seeds {
		var p product
		p.ID = fmt.Sprintf("product-%d", i+1)
		p.Handle = sd.handle
		p.Title = sd.title
		p.Description = sd.desc
		p.Images.Nodes = []productImage{{URL: "https://cdn.example.com/" + sd.handle + ".jpg"}}
		for j, v := range sd.variants {
			v.ID = fmt.Sprintf("variant-%d-%d", i+1, j+1)
			p.Variants.Nodes = append(p.Variants.Nodes, v)
		}
		p.PriceRange.MinVariantPrice = p.Variants.Nodes[0].Price
		p.PriceRange.MaxVariantPrice = p.Variants.Nodes[len(p.Variants.Nodes)-1].Price
		products = append(products, p)
	}
	return products
}
