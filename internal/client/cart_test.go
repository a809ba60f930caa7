package client

import (
	"math"
	"testing"

	"ecofinds/internal/catalog"
)

func product(id int, price float64) catalog.Product {
	return catalog.Product{ID: id, Title: "p", Price: price}
}

func TestCart_AddIncrementsExisting(t *testing.T) {
	cart := NewCart()

	cart.Add(product(1, 10))
	cart.Add(product(1, 10))
	cart.Add(product(2, 5))

	items := cart.Items()
	if len(items) != 2 {
		t.Fatalf("expected 2 distinct items, got %d", len(items))
	}
	if items[0].Quantity != 2 || items[1].Quantity != 1 {
		t.Fatalf("unexpected quantities: %+v", items)
	}
	if cart.Count() != 3 {
		t.Fatalf("expected count 3, got %d", cart.Count())
	}
}

func TestCart_Remove(t *testing.T) {
	cart := NewCart()
	cart.Add(product(1, 10))
	cart.Add(product(2, 5))

	cart.Remove(1)

	items := cart.Items()
	if len(items) != 1 || items[0].Product.ID != 2 {
		t.Fatalf("expected only product 2, got %+v", items)
	}

	// Quitar un producto que no esta es un no-op.
	cart.Remove(99)
	if len(cart.Items()) != 1 {
		t.Fatalf("expected remove of unknown product to be a no-op")
	}
}

func TestCart_UpdateQuantity(t *testing.T) {
	cart := NewCart()
	cart.Add(product(1, 10))

	cart.UpdateQuantity(1, 5)
	if cart.Count() != 5 {
		t.Fatalf("expected count 5, got %d", cart.Count())
	}

	cart.UpdateQuantity(1, 0)
	if len(cart.Items()) != 0 {
		t.Fatalf("expected zero quantity to remove item, got %+v", cart.Items())
	}

	cart.Add(product(1, 10))
	cart.UpdateQuantity(1, -3)
	if len(cart.Items()) != 0 {
		t.Fatalf("expected negative quantity to remove item")
	}
}

func TestCart_Subtotal(t *testing.T) {
	cart := NewCart()
	cart.Add(product(1, 89.99))
	cart.Add(product(1, 89.99))
	cart.Add(product(2, 10.50))

	expected := 89.99*2 + 10.50
	if math.Abs(cart.Subtotal()-expected) > 1e-9 {
		t.Fatalf("expected subtotal %.2f, got %.2f", expected, cart.Subtotal())
	}
}

func TestCart_ItemsReturnsCopy(t *testing.T) {
	cart := NewCart()
	cart.Add(product(1, 10))

	items := cart.Items()
	items[0].Quantity = 99

	if cart.Items()[0].Quantity != 1 {
		t.Fatalf("expected internal items unchanged")
	}
}
