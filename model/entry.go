package model

import (
	"time"

	"github.com/google/uuid"
)

// Category is the closed set of knowledge base categories.
type Category string

const (
	CategoryBookings      Category = "bookings"
	CategoryDestinations  Category = "destinations"
	CategoryPayments      Category = "payments"
	CategoryAccount       Category = "account"
	CategoryGeneral       Category = "general"
	CategoryActivities    Category = "activities"
	CategoryCustomTours   Category = "custom-tours"
	CategorySpecialOffers Category = "special-offers"
)

// AllCategories lists every valid category.
var AllCategories = []Category{
	CategoryBookings,
	CategoryDestinations,
	CategoryPayments,
	CategoryAccount,
	CategoryGeneral,
	CategoryActivities,
	CategoryCustomTours,
	CategorySpecialOffers,
}

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	for _, known := range AllCategories {
		if c == known {
			return true
		}
	}
	return false
}

// ParseCategory maps a raw string onto the closed category set.
// Unknown values default to CategoryGeneral.
func ParseCategory(raw string) Category {
	c := Category(raw)
	if c.Valid() {
		return c
	}
	return CategoryGeneral
}

// KnowledgeEntry is a single question/answer record of the knowledge base.
// Entries are read-only input for scoring, the core never mutates them.
type KnowledgeEntry struct {
	ID        int64     `json:"id"`
	RID       uuid.UUID `json:"rid"`
	Question  string    `json:"question"`
	Answer    string    `json:"answer"`
	Category  Category  `json:"category"`
	Tags      []string  `json:"tags,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
