package client

import (
	"sync"

	"ecofinds/internal/catalog"
)

// CartItem es un producto en el carrito con su cantidad.
type CartItem struct {
	Product  catalog.Product
	Quantity int
}

// Cart lleva la contabilidad de cantidades del carrito en memoria.
// Sin persistencia: vive lo que vive el proceso cliente.
type Cart struct {
	mu    sync.Mutex
	items []CartItem
}

func NewCart() *Cart {
	return &Cart{}
}

// Add agrega un producto; si ya esta en el carrito incrementa la cantidad.
func (c *Cart) Add(p catalog.Product) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.items {
		if c.items[i].Product.ID == p.ID {
			c.items[i].Quantity++
			return
		}
	}
	c.items = append(c.items, CartItem{Product: p, Quantity: 1})
}

// Remove quita un producto del carrito.
func (c *Cart) Remove(productID int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.removeLocked(productID)
}

// UpdateQuantity fija la cantidad; cero o negativa elimina el item.
func (c *Cart) UpdateQuantity(productID, quantity int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if quantity <= 0 {
		c.removeLocked(productID)
		return
	}
	for i := range c.items {
		if c.items[i].Product.ID == productID {
			c.items[i].Quantity = quantity
			return
		}
	}
}

// Items devuelve una copia de los items actuales.
func (c *Cart) Items() []CartItem {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]CartItem, len(c.items))
	copy(out, c.items)
	return out
}

// Count devuelve la cantidad total de unidades en el carrito.
func (c *Cart) Count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	total := 0
	for _, item := range c.items {
		total += item.Quantity
	}
	return total
}

// Subtotal devuelve la suma de precio por cantidad.
func (c *Cart) Subtotal() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	total := 0.0
	for _, item := range c.items {
		total += item.Product.Price * float64(item.Quantity)
	}
	return total
}

func (c *Cart) removeLocked(productID int) {
	kept := c.items[:0]
	for _, item := range c.items {
		if item.Product.ID != productID {
			kept = append(kept, item)
		}
	}
	c.items = kept
}
