// Package models defines the domain types for the portfolio catalog.
package models

// Category is the closed set of card groupings.
type Category string

const (
	CategoryHome     Category = "Home"
	CategorySoftware Category = "Software"
	CategoryGames    Category = "Games"
)

// Categories lists every valid category in display order.
var Categories = []Category{CategoryHome, CategorySoftware, CategoryGames}

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// Card is one portfolio entry.
type Card struct {
	ID               string   `json:"id"`
	Title            string   `json:"title"`
	Description      string   `json:"description"`
	ShortDescription string   `json:"shortDescription,omitempty"`
	Category         Category `json:"category"`
	ImagePath        string   `json:"imagePath,omitempty"`
	ProductLink      string   `json:"productLink,omitempty"`
	VideoLink        string   `json:"videoLink,omitempty"`
	CreatedAt        int64    `json:"createdAt"` // unix milliseconds
}

// Settings holds the site-wide presentation knobs.
type Settings struct {
	NumberOfHighlights int `json:"numberOfHighlights"`
}

// DefaultSettings is used whenever the settings file is missing or unreadable.
func DefaultSettings() Settings {
	return Settings{NumberOfHighlights: 1}
}
