package mockapi

import (
	"net/http"

	"github.com/google/uuid"
)

func (s *Server) handleCreateCart(w http.ResponseWriter, r *http.Request) {
	var req struct {
		VariantID       string `json:"variantId"`
		Quantity        int    `json:"quantity"`
		CakeWording     string `json:"cakeWording"`
		GreetingWording string `json:"greetingWording"`
	}
	if err := decode(r, &req); err != nil {
		respondFailure(w, "invalid request body")
		return
	}
	if req.Quantity < 1 {
		req.Quantity = 1
	}

	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	p, v := s.store.findVariant(req.VariantID)
	if v == nil {
		respondFailure(w, "Variant not found",
			errorDetail{Message: "Variant not found", Field: "variantId"})
		return
	}

	c := &cartState{ID: "cart-" + uuid.New().String()}
	c.Lines = append(c.Lines, s.store.newLine(p, v, req.Quantity, req.CakeWording, req.GreetingWording))
	s.store.carts[c.ID] = c

	respondOK(w, "cart created", map[string]any{"cart": c.view()})
}

func (s *Server) handleCartLineAdd(w http.ResponseWriter, r *http.Request) {
	var req struct {
		CartID          string `json:"cartId"`
		VariantID       string `json:"variantId"`
		Quantity        int    `json:"quantity"`
		CakeWording     string `json:"cakeWording"`
		GreetingWording string `json:"greetingWording"`
	}
	if err := decode(r, &req); err != nil {
		respondFailure(w, "invalid request body")
		return
	}
	if req.Quantity < 1 {
		req.Quantity = 1
	}

	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	c := s.store.carts[req.CartID]
	if c == nil {
		respondFailure(w, "Cart not found")
		return
	}
	p, v := s.store.findVariant(req.VariantID)
	if v == nil {
		respondFailure(w, "Variant not found",
			errorDetail{Message: "Variant not found", Field: "variantId"})
		return
	}

	// Same variant with no wordings merges into the existing line.
	for i := range c.Lines {
		if c.Lines[i].Merchandise.ID == req.VariantID &&
			len(c.Lines[i].Attributes) == 0 && req.CakeWording == "" && req.GreetingWording == "" {
			c.Lines[i].Quantity += req.Quantity
			respondOK(w, "line added", map[string]any{"cart": c.view()})
			return
		}
	}

	c.Lines = append(c.Lines, s.store.newLine(p, v, req.Quantity, req.CakeWording, req.GreetingWording))
	respondOK(w, "line added", map[string]any{"cart": c.view()})
}

func (s *Server) handleUpdateCartLine(w http.ResponseWriter, r *http.Request) {
	var req struct {
		CartID          string `json:"cartId"`
		LineID          string `json:"lineId"`
		Quantity        int    `json:"quantity"`
		CakeWording     string `json:"cakeWording"`
		GreetingWording string `json:"greetingWording"`
	}
	if err := decode(r, &req); err != nil {
		respondFailure(w, "invalid request body")
		return
	}

	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	c := s.store.carts[req.CartID]
	if c == nil {
		respondFailure(w, "Cart not found")
		return
	}
	for i := range c.Lines {
		if c.Lines[i].ID != req.LineID {
			continue
		}
		if req.Quantity >= 1 {
			c.Lines[i].Quantity = req.Quantity
		}
		c.Lines[i].Attributes = nil
		if req.CakeWording != "" {
			c.Lines[i].Attributes = append(c.Lines[i].Attributes, attribute{Key: "cakeWording", Value: req.CakeWording})
		}
		if req.GreetingWording != "" {
			c.Lines[i].Attributes = append(c.Lines[i].Attributes, attribute{Key: "greetingWording", Value: req.GreetingWording})
		}
		respondOK(w, "line updated", map[string]any{"cart": c.view()})
		return
	}
	respondFailure(w, "Line not found", errorDetail{Message: "Line not found", Field: "lineId"})
}

func (s *Server) handleRemoveCartItem(w http.ResponseWriter, r *http.Request) {
	var req struct {
		CartID  string   `json:"cartId"`
		LineIDs []string `json:"lineIds"`
	}
	if err := decode(r, &req); err != nil {
		respondFailure(w, "invalid request body")
		return
	}

	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	c := s.store.carts[req.CartID]
	if c == nil {
		respondFailure(w, "Cart not found")
		return
	}

	remove := make(map[string]bool, len(req.LineIDs))
	for _, id := range req.LineIDs {
		remove[id] = true
	}
	kept := c.Lines[:0]
	for _, l := range c.Lines {
		if !remove[l.ID] {
			kept = append(kept, l)
		}
	}
	c.Lines = kept

	if len(c.Lines) == 0 {
		delete(s.store.carts, c.ID)
	}
	respondOK(w, "items removed", map[string]any{"cart": c.view()})
}

func (s *Server) handleGetCart(w http.ResponseWriter, r *http.Request) {
	var req struct {
		CartID string `json:"cartId"`
	}
	if err := decode(r, &req); err != nil {
		respondFailure(w, "invalid request body")
		return
	}

	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	c := s.store.carts[req.CartID]
	if c == nil {
		respondFailure(w, "Cart not found")
		return
	}
	respondOK(w, "ok", map[string]any{"cart": c.view()})
}

func (s *Server) handleUpdateBuyerIdentity(w http.ResponseWriter, r *http.Request) {
	var req struct {
		CartID       string `json:"cartId"`
		Phone        string `json:"phone"`
		DeliveryDate string `json:"deliveryDate"`
		DeliveryTime string `json:"deliveryTime"`
	}
	if err := decode(r, &req); err != nil {
		respondFailure(w, "invalid request body")
		return
	}

	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	c := s.store.carts[req.CartID]
	if c == nil {
		respondFailure(w, "Cart not found")
		return
	}
	c.Buyer = buyerIdentity{
		Phone:        req.Phone,
		DeliveryDate: req.DeliveryDate,
		DeliveryTime: req.DeliveryTime,
	}
	respondOK(w, "buyer identity updated", map[string]any{"cart": c.view()})
}

func (s *Server) handleCheckout(w http.ResponseWriter, r *http.Request) {
	var req struct {
		CartID       string `json:"cartId"`
		Phone        string `json:"phone"`
		DeliveryDate string `json:"deliveryDate"`
		DeliveryTime string `json:"deliveryTime"`
	}
	if err := decode(r, &req); err != nil {
		respondFailure(w, "invalid request body")
		return
	}

	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	c := s.store.carts[req.CartID]
	if c == nil {
		respondFailure(w, "Cart not found")
		return
	}
	if len(c.Lines) == 0 {
		respondFailure(w, "Cart is empty")
		return
	}

	orderID := "order-" + uuid.New().String()
	delete(s.store.carts, c.ID)

	respondOK(w, "order placed", map[string]any{"orderId": orderID})
}
