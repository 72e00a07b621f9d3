package entity

import (
	"time"
)

// Recipe belongs to exactly one user. Tags and Ingredients are unordered
// association sets; the referenced rows always share the recipe's owner.
type Recipe struct {
	ID          string
	UserID      string
	Title       string
	TimeMinutes int
	Price       string // decimal carried as string, NUMERIC(10,2) in storage
	Description string
	Link        string
	ImageURL    string
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Tags        []Tag
	Ingredients []Ingredient
}

// Tag is a per-user label. (user_id, name) is unique.
type Tag struct {
	ID        string
	UserID    string
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Ingredient mirrors Tag in its own namespace.
type Ingredient struct {
	ID        string
	UserID    string
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}
