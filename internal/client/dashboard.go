package client

import (
	"sync"
	"time"
)

// Listing es una publicacion del usuario en el dashboard.
type Listing struct {
	ID     int     `json:"id"`
	Title  string  `json:"title"`
	Price  float64 `json:"price"`
	Status string  `json:"status"`
	Views  int     `json:"views"`
	Image  string  `json:"image"`
}

// Purchase es una compra pasada mostrada en el dashboard.
type Purchase struct {
	ID     string    `json:"id"`
	Date   time.Time `json:"date"`
	Items  []string  `json:"items"`
	Total  float64   `json:"total"`
	Status string    `json:"status"`
}

// DashboardStats resume la actividad del usuario.
type DashboardStats struct {
	ActiveListings int     `json:"active_listings"`
	TotalOrders    int     `json:"total_orders"`
	SavedItems     int     `json:"saved_items"`
	TotalEarnings  float64 `json:"total_earnings"`
}

// Dashboard sirve registros fabricados en memoria: no hay almacenamiento
// real de publicaciones ni compras.
type Dashboard struct {
	mu        sync.Mutex
	listings  []Listing
	purchases []Purchase
	stats     DashboardStats
}

func NewDashboard() *Dashboard {
	return &Dashboard{
		listings: []Listing{
			{ID: 1, Title: "Vintage Leather Jacket", Price: 89.99, Status: "active", Views: 45, Image: "https://images.unsplash.com/photo-1551028719-00167b16eac5?w=400&h=300&fit=crop"},
			{ID: 2, Title: "Designer Sunglasses", Price: 125.00, Status: "inactive", Views: 12, Image: "https://images.unsplash.com/photo-1572635196237-14b3f281503f?w=400&h=300&fit=crop"},
			{ID: 3, Title: "Wool Winter Coat", Price: 65.00, Status: "active", Views: 78, Image: "https://images.unsplash.com/photo-1539533018447-63fcce2678e3?w=400&h=300&fit=crop"},
		},
		purchases: []Purchase{
			{ID: "ORD-001", Date: time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), Items: []string{"Organic Cotton T-Shirt", "Hemp Tote Bag"}, Total: 45.98, Status: "delivered"},
			{ID: "ORD-002", Date: time.Date(2024, 1, 12, 0, 0, 0, 0, time.UTC), Items: []string{"Bamboo Utensil Set"}, Total: 24.99, Status: "shipped"},
			{ID: "ORD-003", Date: time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC), Items: []string{"Recycled Notebook", "Eco Pen Set"}, Total: 18.50, Status: "delivered"},
		},
		stats: DashboardStats{
			ActiveListings: 12,
			TotalOrders:    8,
			SavedItems:     24,
			TotalEarnings:  450.50,
		},
	}
}

// Listings devuelve una copia de las publicaciones.
func (d *Dashboard) Listings() []Listing {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]Listing, len(d.listings))
	copy(out, d.listings)
	return out
}

// Purchases devuelve una copia de las compras.
func (d *Dashboard) Purchases() []Purchase {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]Purchase, len(d.purchases))
	copy(out, d.purchases)
	return out
}

// Stats devuelve el resumen de actividad.
func (d *Dashboard) Stats() DashboardStats {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.stats
}

// ToggleListingStatus alterna una publicacion entre activa e inactiva.
func (d *Dashboard) ToggleListingStatus(id int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for i := range d.listings {
		if d.listings[i].ID == id {
			if d.listings[i].Status == "active" {
				d.listings[i].Status = "inactive"
			} else {
				d.listings[i].Status = "active"
			}
			return
		}
	}
}

// DeleteListing elimina una publicacion.
func (d *Dashboard) DeleteListing(id int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	kept := d.listings[:0]
	for _, l := range d.listings {
		if l.ID != id {
			kept = append(kept, l)
		}
	}
	d.listings = kept
}
