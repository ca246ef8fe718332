package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/starford/folio/internal/catalog"
	"github.com/starford/folio/internal/models"
	"github.com/starford/folio/internal/settings"
	"github.com/starford/folio/internal/sse"
)

// Publisher receives change notifications after successful mutations.
type Publisher interface {
	PublishCardEvent(kind, id string)
	PublishSettingsEvent(numberOfHighlights int)
}

type nopPublisher struct{}

func (nopPublisher) PublishCardEvent(string, string) {}
func (nopPublisher) PublishSettingsEvent(int)        {}

// Handler holds the card and settings route handlers.
type Handler struct {
	cards    *catalog.Service
	settings *settings.Service
	events   Publisher
}

// NewHandler creates a new Handler. A nil publisher drops events.
func NewHandler(cards *catalog.Service, st *settings.Service, events Publisher) *Handler {
	if events == nil {
		events = nopPublisher{}
	}
	return &Handler{cards: cards, settings: st, events: events}
}

// ListCards handles GET /api/cards.
//
//	@Summary		List all cards in stored order
//	@Tags			cards
//	@Produce		json
//	@Success		200	{array}	Card
//	@Router			/cards [get]
func (h *Handler) ListCards(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.cards.List(r.Context()))
}

// GetCard handles GET /api/cards/{id}.
//
//	@Summary		Get a single card
//	@Tags			cards
//	@Produce		json
//	@Param			id	path		string	true	"Card id"
//	@Success		200	{object}	Card
//	@Failure		404	{object}	errResponse
//	@Router			/cards/{id} [get]
func (h *Handler) GetCard(w http.ResponseWriter, r *http.Request) {
	card, err := h.cards.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, "get card", err)
		return
	}
	w.Header().Set("ETag", strconv.Quote(catalog.ETag(card)))
	writeJSON(w, http.StatusOK, card)
}

// CreateCard handles POST /api/cards.
//
//	@Summary		Create a card
//	@Tags			cards
//	@Accept			json
//	@Produce		json
//	@Param			body	body		catalog.CardInput	true	"Card fields"
//	@Success		201		{object}	Card
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/cards [post]
func (h *Handler) CreateCard(w http.ResponseWriter, r *http.Request) {
	var in catalog.CardInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	card, err := h.cards.Create(r.Context(), in)
	if err != nil {
		writeServiceError(w, "create card", err)
		return
	}
	h.events.PublishCardEvent(sse.KindCreated, card.ID)
	w.Header().Set("ETag", strconv.Quote(catalog.ETag(card)))
	writeJSON(w, http.StatusCreated, card)
}

// UpdateCard handles PUT /api/cards.
//
//	@Summary		Replace a card by id
//	@Tags			cards
//	@Accept			json
//	@Produce		json
//	@Param			If-Match	header		string	false	"ETag of the card being replaced"
//	@Param			body		body		Card	true	"Full card"
//	@Success		200			{object}	Card
//	@Failure		400			{object}	errResponse
//	@Failure		404			{object}	errResponse
//	@Failure		409			{object}	errResponse
//	@Security		BearerAuth
//	@Router			/cards [put]
func (h *Handler) UpdateCard(w http.ResponseWriter, r *http.Request) {
	var card models.Card
	if err := decodeJSON(w, r, &card); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	// Strip surrounding quotes if present (standard ETag format).
	ifMatch := strings.Trim(r.Header.Get("If-Match"), `"`)

	updated, err := h.cards.Update(r.Context(), card, ifMatch)
	if err != nil {
		writeServiceError(w, "update card", err)
		return
	}
	h.events.PublishCardEvent(sse.KindUpdated, updated.ID)
	w.Header().Set("ETag", strconv.Quote(catalog.ETag(updated)))
	writeJSON(w, http.StatusOK, updated)
}

// DeleteCard handles DELETE /api/cards.
//
//	@Summary		Delete a card by id
//	@Tags			cards
//	@Accept			json
//	@Produce		json
//	@Param			body	body		DeleteCardRequest	true	"Card id"
//	@Success		200		{object}	MessageResponse
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/cards [delete]
func (h *Handler) DeleteCard(w http.ResponseWriter, r *http.Request) {
	var req DeleteCardRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if strings.TrimSpace(req.ID) == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("id is required"))
		return
	}
	removed, err := h.cards.Delete(r.Context(), req.ID)
	if err != nil {
		writeServiceError(w, "delete card", err)
		return
	}
	if removed {
		h.events.PublishCardEvent(sse.KindDeleted, req.ID)
	}
	writeJSON(w, http.StatusOK, MessageResponse{Message: "Card deleted"})
}

// Highlights handles GET /api/cards/highlights.
//
//	@Summary		Most recently created cards
//	@Tags			cards
//	@Produce		json
//	@Param			n	query	int	false	"How many (defaults to the numberOfHighlights setting)"
//	@Success		200	{array}	Card
//	@Failure		400	{object}	errResponse
//	@Router			/cards/highlights [get]
func (h *Handler) Highlights(w http.ResponseWriter, r *http.Request) {
	n := h.settings.Get(r.Context()).NumberOfHighlights
	if raw := r.URL.Query().Get("n"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			writeJSON(w, http.StatusBadRequest, errorBody("n must be a non-negative integer"))
			return
		}
		n = parsed
	}
	writeJSON(w, http.StatusOK, h.cards.Highlights(r.Context(), n))
}

// ByCategory handles GET /api/cards/category/{category}.
//
//	@Summary		Cards of one category in stored order
//	@Tags			cards
//	@Produce		json
//	@Param			category	path	string	true	"Category"	Enums(Home, Software, Games)
//	@Success		200			{array}	Card
//	@Failure		400			{object}	errResponse
//	@Router			/cards/category/{category} [get]
func (h *Handler) ByCategory(w http.ResponseWriter, r *http.Request) {
	category, ok := parseCategory(chi.URLParam(r, "category"))
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorBody("unknown category"))
		return
	}
	writeJSON(w, http.StatusOK, h.cards.ByCategory(r.Context(), category))
}

// GetSettings handles GET /api/settings.
//
//	@Summary		Get site settings
//	@Tags			settings
//	@Produce		json
//	@Success		200	{object}	Settings
//	@Router			/settings [get]
func (h *Handler) GetSettings(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.settings.Get(r.Context()))
}

// UpdateSettings handles PUT /api/settings.
//
//	@Summary		Replace site settings
//	@Tags			settings
//	@Accept			json
//	@Produce		json
//	@Param			body	body		Settings	true	"Settings"
//	@Success		200		{object}	Settings
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/settings [put]
func (h *Handler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var st models.Settings
	if err := decodeJSON(w, r, &st); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	stored, err := h.settings.Set(r.Context(), st)
	if err != nil {
		writeServiceError(w, "update settings", err)
		return
	}
	h.events.PublishSettingsEvent(stored.NumberOfHighlights)
	writeJSON(w, http.StatusOK, stored)
}

// parseCategory matches raw against the category enumeration, ignoring case.
func parseCategory(raw string) (models.Category, bool) {
	for _, c := range models.Categories {
		if strings.EqualFold(string(c), raw) {
			return c, true
		}
	}
	return "", false
}
