// Package catalog implements the card catalog: creation, full-replace
// updates, deletion and the highlight/category views.
package catalog

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"github.com/starford/folio/internal/apperr"
	"github.com/starford/folio/internal/checksum"
	"github.com/starford/folio/internal/models"
)

// Store is the persistence the catalog needs.
type Store interface {
	LoadCards(ctx context.Context) []models.Card
	SaveCards(ctx context.Context, cards []models.Card) error
}

// CardInput carries the caller-supplied fields of a new card.
type CardInput struct {
	Title            string          `json:"title"`
	Description      string          `json:"description"`
	ShortDescription string          `json:"shortDescription,omitempty"`
	Category         models.Category `json:"category"`
	ImagePath        string          `json:"imagePath,omitempty"`
	ProductLink      string          `json:"productLink,omitempty"`
	VideoLink        string          `json:"videoLink,omitempty"`
}

// Validate checks the required fields and the category enumeration.
func (in CardInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Title, validation.Required),
		validation.Field(&in.Description, validation.Required),
		validation.Field(&in.Category, validation.Required, validation.By(validCategory)),
	)
}

func validCategory(v any) error {
	c, _ := v.(models.Category)
	if !c.Valid() {
		return fmt.Errorf("must be one of Home, Software, Games")
	}
	return nil
}

// Service owns the card collection.
type Service struct {
	store Store

	// mu serializes read-modify-write cycles on the card document.
	mu          sync.Mutex
	now         func() time.Time
	newID       func() string
	lastCreated int64
}

// NewService creates a catalog service over store.
func NewService(store Store) *Service {
	return &Service{
		store: store,
		now:   time.Now,
		newID: uuid.NewString,
	}
}

// List returns every card in stored order.
func (s *Service) List(ctx context.Context) []models.Card {
	return s.store.LoadCards(ctx)
}

// Get returns the card with the given id.
func (s *Service) Get(ctx context.Context, id string) (models.Card, error) {
	for _, c := range s.store.LoadCards(ctx) {
		if c.ID == id {
			return c, nil
		}
	}
	return models.Card{}, apperr.ErrNotFound
}

// Create assigns identity and creation time to in, derives the short
// description when missing, appends it and persists the collection.
func (s *Service) Create(ctx context.Context, in CardInput) (models.Card, error) {
	in = in.normalized()
	if err := in.Validate(); err != nil {
		return models.Card{}, fmt.Errorf("%w: %w", apperr.ErrInvalid, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	card := in.apply(models.Card{
		ID:        s.newID(),
		CreatedAt: s.nextCreatedAt(),
	})

	cards := s.store.LoadCards(ctx)
	cards = append(cards, card)
	if err := s.store.SaveCards(ctx, cards); err != nil {
		return models.Card{}, fmt.Errorf("create card: %w", err)
	}
	return card, nil
}

// Update replaces the stored card with the same id. An unknown id yields
// apperr.ErrNotFound and leaves the collection untouched. When ifMatch is
// non-empty it must equal the stored card's ETag, otherwise
// apperr.ErrConflict is returned.
func (s *Service) Update(ctx context.Context, card models.Card, ifMatch string) (models.Card, error) {
	if card.ID == "" {
		return models.Card{}, fmt.Errorf("%w: id is required", apperr.ErrInvalid)
	}
	in := CardInput{
		Title: card.Title, Description: card.Description, ShortDescription: card.ShortDescription,
		Category: card.Category, ImagePath: card.ImagePath, ProductLink: card.ProductLink, VideoLink: card.VideoLink,
	}.normalized()
	if err := in.Validate(); err != nil {
		return models.Card{}, fmt.Errorf("%w: %w", apperr.ErrInvalid, err)
	}
	card = in.apply(card)

	s.mu.Lock()
	defer s.mu.Unlock()

	cards := s.store.LoadCards(ctx)
	idx := slices.IndexFunc(cards, func(c models.Card) bool { return c.ID == card.ID })
	if idx < 0 {
		return models.Card{}, apperr.ErrNotFound
	}
	current := cards[idx]
	if ifMatch != "" && ifMatch != ETag(current) {
		return models.Card{}, apperr.ErrConflict
	}
	if card.CreatedAt == 0 {
		card.CreatedAt = current.CreatedAt
	}

	for i := range cards {
		if cards[i].ID == card.ID {
			cards[i] = card
		}
	}
	if err := s.store.SaveCards(ctx, cards); err != nil {
		return models.Card{}, fmt.Errorf("update card %s: %w", card.ID, err)
	}
	return card, nil
}

// Delete removes every card with the given id. Deleting an unknown id is
// not an error and leaves the stored document untouched. It reports
// whether anything was removed.
func (s *Service) Delete(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cards := s.store.LoadCards(ctx)
	kept := slices.DeleteFunc(slices.Clone(cards), func(c models.Card) bool { return c.ID == id })
	if len(kept) == len(cards) {
		return false, nil
	}
	if err := s.store.SaveCards(ctx, kept); err != nil {
		return false, fmt.Errorf("delete card %s: %w", id, err)
	}
	return true, nil
}

// Highlights returns the n most recently created cards, newest first.
func (s *Service) Highlights(ctx context.Context, n int) []models.Card {
	return TopRecent(s.store.LoadCards(ctx), n)
}

// ByCategory returns the cards in category, preserving stored order.
func (s *Service) ByCategory(ctx context.Context, category models.Category) []models.Card {
	return FilterCategory(s.store.LoadCards(ctx), category)
}

// TopRecent sorts a copy of cards by CreatedAt descending and keeps the
// first n. Ties keep their stored order.
func TopRecent(cards []models.Card, n int) []models.Card {
	if n <= 0 {
		return []models.Card{}
	}
	sorted := slices.Clone(cards)
	slices.SortStableFunc(sorted, func(a, b models.Card) int {
		switch {
		case a.CreatedAt > b.CreatedAt:
			return -1
		case a.CreatedAt < b.CreatedAt:
			return 1
		}
		return 0
	})
	if n < len(sorted) {
		sorted = sorted[:n]
	}
	return sorted
}

// FilterCategory returns the cards whose category equals category.
func FilterCategory(cards []models.Card, category models.Category) []models.Card {
	out := []models.Card{}
	for _, c := range cards {
		if c.Category == category {
			out = append(out, c)
		}
	}
	return out
}

// ETag is the optimistic-concurrency token of a card: the SHA-256 of its
// JSON encoding.
func ETag(card models.Card) string {
	sum, err := checksum.SumJSON(card)
	if err != nil {
		return ""
	}
	return sum
}

// nextCreatedAt returns the current time in milliseconds, never smaller
// than a value already handed out by this service.
func (s *Service) nextCreatedAt() int64 {
	ts := s.now().UnixMilli()
	if ts < s.lastCreated {
		ts = s.lastCreated
	}
	s.lastCreated = ts
	return ts
}

func (in CardInput) normalized() CardInput {
	in.Title = strings.TrimSpace(in.Title)
	in.ShortDescription = strings.TrimSpace(in.ShortDescription)
	in.ImagePath = strings.TrimSpace(in.ImagePath)
	in.ProductLink = strings.TrimSpace(in.ProductLink)
	in.VideoLink = strings.TrimSpace(in.VideoLink)
	if strings.TrimSpace(in.Description) == "" {
		in.Description = ""
	}
	return in
}

// apply copies the input fields onto card, deriving the short description
// when none was given.
func (in CardInput) apply(card models.Card) models.Card {
	card.Title = in.Title
	card.Description = in.Description
	card.ShortDescription = in.ShortDescription
	card.Category = in.Category
	card.ImagePath = in.ImagePath
	card.ProductLink = in.ProductLink
	card.VideoLink = in.VideoLink
	if card.ShortDescription == "" {
		card.ShortDescription = ShortDescription(card.Description)
	}
	return card
}
