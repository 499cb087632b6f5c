package domain

import "time"

// Restaurant represents a restaurant in the catalog.
type Restaurant struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	CuisineType string    `json:"cuisine_type"`
	Rating      float64   `json:"rating"`
	DeliveryETA string    `json:"delivery_eta,omitempty"`
	ImageURL    string    `json:"image_url,omitempty"`
	IsOpen      bool      `json:"is_open"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// MenuItem represents a dish on a restaurant's menu as served by the catalog.
// Price carries the display-formatted currency string (e.g. "₹280"); the
// cart works with the parsed numeric value internally.
type MenuItem struct {
	ID           string `json:"id"`
	RestaurantID string `json:"restaurant_id"`
	Name         string `json:"name"`
	Description  string `json:"description,omitempty"`
	Price        string `json:"price"`
	Category     string `json:"category"`
	ImageURL     string `json:"image_url,omitempty"`
	IsVeg        bool   `json:"is_veg"`
	IsAvailable  bool   `json:"is_available"`
}
