// Package web renders the public portfolio pages and the admin shell.
package web

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/starford/folio/internal/catalog"
	"github.com/starford/folio/internal/models"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

var pages = []string{"home.html", "category.html", "highlight.html", "card.html", "admin.html", "notfound.html"}

// CardSource is the read side of the catalog.
type CardSource interface {
	List(ctx context.Context) []models.Card
	Get(ctx context.Context, id string) (models.Card, error)
}

// SettingsSource provides the highlight count.
type SettingsSource interface {
	Get(ctx context.Context) models.Settings
}

// Handler serves the HTML pages.
type Handler struct {
	cards    CardSource
	settings SettingsSource
	site     Site
	pages    map[string]*template.Template
}

// NewHandler parses the embedded templates.
func NewHandler(cards CardSource, st SettingsSource, site Site) (*Handler, error) {
	if site.Title == "" {
		site.Title = "Portfolio"
	}
	funcs := template.FuncMap{
		"embedURL": EmbedURL,
		"empty":    EmptyMessage,
	}
	h := &Handler{cards: cards, settings: st, site: site, pages: make(map[string]*template.Template, len(pages))}
	for _, page := range pages {
		t, err := template.New(page).Funcs(funcs).ParseFS(templateFS, "templates/layout.html", "templates/partials.html", "templates/"+page)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", page, err)
		}
		h.pages[page] = t
	}
	return h, nil
}

// Routes mounts the page handlers and the embedded static assets.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.Home)
	r.Get("/software", h.Category(models.CategorySoftware))
	r.Get("/games", h.Category(models.CategoryGames))
	r.Get("/highlight", h.Highlight)
	r.Get("/card/{id}", h.Card)
	r.Get("/admin", h.Admin)

	static, _ := fs.Sub(staticFS, "static")
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServerFS(static)))
}

// EmptyMessage is the placeholder shown for a category with no cards.
func EmptyMessage(category models.Category) string {
	return `There's no "` + string(category) + `" right now.`
}

// CardView is a card prepared for display.
type CardView struct {
	models.Card
	Summary     string
	VideoID     string
	LinkLabel   string
	FaviconURL  string
	HasVideoURL bool
}

func newCardView(c models.Card) CardView {
	v := CardView{Card: c, Summary: c.ShortDescription}
	if strings.TrimSpace(v.Summary) == "" {
		v.Summary = catalog.ShortDescription(c.Description)
	}
	if c.VideoLink != "" {
		if id, ok := VideoID(c.VideoLink); ok {
			v.VideoID = id
		} else {
			v.HasVideoURL = true
		}
	}
	if c.ProductLink != "" {
		v.LinkLabel = LinkLabel(c.ProductLink)
		v.FaviconURL = FaviconURL(c.ProductLink)
	}
	return v
}

func cardViews(cards []models.Card) []CardView {
	out := make([]CardView, 0, len(cards))
	for _, c := range cards {
		out = append(out, newCardView(c))
	}
	return out
}

type section struct {
	ID       string
	Heading  string
	Category models.Category
	Cards    []CardView
}

type pageData struct {
	Site      Site
	Title     string
	Active    string
	Live      bool
	Sections  []section
	Card      CardView
	Category  models.Category
	Cards     []CardView
	Highlight int
}

// Home handles GET /: intro, highlights, software, games and the Home
// cards not already highlighted.
func (h *Handler) Home(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	all := h.cards.List(ctx)
	n := h.settings.Get(ctx).NumberOfHighlights
	highlights := catalog.TopRecent(all, n)

	shown := make(map[string]bool, len(highlights))
	for _, c := range highlights {
		shown[c.ID] = true
	}
	var rest []models.Card
	for _, c := range catalog.FilterCategory(all, models.CategoryHome) {
		if !shown[c.ID] {
			rest = append(rest, c)
		}
	}

	h.render(w, r, http.StatusOK, "home.html", pageData{
		Title:     h.site.Title,
		Active:    "home",
		Live:      true,
		Highlight: n,
		Sections: []section{
			{ID: "highlight", Heading: "Highlight", Cards: cardViews(highlights)},
			{ID: "software", Heading: "Our Software", Category: models.CategorySoftware, Cards: cardViews(catalog.FilterCategory(all, models.CategorySoftware))},
			{ID: "games", Heading: "Our Games", Category: models.CategoryGames, Cards: cardViews(catalog.FilterCategory(all, models.CategoryGames))},
			{ID: "more", Heading: "More", Cards: cardViews(rest)},
		},
	})
}

// Category returns the handler for a single-category page.
func (h *Handler) Category(category models.Category) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cards := catalog.FilterCategory(h.cards.List(r.Context()), category)
		h.render(w, r, http.StatusOK, "category.html", pageData{
			Title:    "Our " + string(category),
			Active:   strings.ToLower(string(category)),
			Live:     true,
			Category: category,
			Cards:    cardViews(cards),
		})
	}
}

// Highlight handles GET /highlight.
func (h *Handler) Highlight(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	n := h.settings.Get(ctx).NumberOfHighlights
	h.render(w, r, http.StatusOK, "highlight.html", pageData{
		Title:     "Highlight",
		Active:    "highlight",
		Live:      true,
		Highlight: n,
		Cards:     cardViews(catalog.TopRecent(h.cards.List(ctx), n)),
	})
}

// Card handles GET /card/{id}.
func (h *Handler) Card(w http.ResponseWriter, r *http.Request) {
	card, err := h.cards.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.render(w, r, http.StatusNotFound, "notfound.html", pageData{Title: "Not found"})
		return
	}
	h.render(w, r, http.StatusOK, "card.html", pageData{
		Title: card.Title,
		Card:  newCardView(card),
	})
}

// Admin handles GET /admin. The page talks to the JSON API itself.
func (h *Handler) Admin(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, "admin.html", pageData{
		Title:  "Admin",
		Active: "admin",
	})
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, status int, page string, data pageData) {
	data.Site = h.site
	var buf bytes.Buffer
	if err := h.pages[page].ExecuteTemplate(&buf, "layout", data); err != nil {
		slog.Error("render failed", slog.String("page", page), slog.String("path", r.URL.Path), slog.String("error", err.Error()))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}
