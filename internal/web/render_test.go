package web

import (
	"context"
	"html"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/starford/folio/internal/models"
	"github.com/starford/folio/internal/testutil"
)

func seed(t *testing.T, env *testutil.Env, cards ...models.Card) {
	t.Helper()
	if err := env.Store.SaveCards(context.Background(), cards); err != nil {
		t.Fatal(err)
	}
}

func testRouter(t *testing.T) (*testutil.Env, http.Handler) {
	t.Helper()
	env := testutil.TestEnv(t)
	h, err := NewHandler(env.Catalog, env.Settings, Site{
		Title:      "Dream Crown",
		Owner:      "Allen",
		Intro:      "Robotics, games and music.",
		Contacts:   []Contact{{Type: "email", Handle: "allen@example.com"}, {Type: "instagram", Handle: "allen"}},
		Activities: []Activity{{Name: "VEX Robotics", Description: "Captain and coder"}},
	})
	if err != nil {
		t.Fatalf("NewHandler: %v", err)
	}
	r := chi.NewRouter()
	h.Routes(r)
	return env, r
}

func get(t *testing.T, router http.Handler, path string) (int, string) {
	t.Helper()
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w.Code, html.UnescapeString(w.Body.String())
}

func TestEmptyMessage(t *testing.T) {
	if got := EmptyMessage(models.CategoryGames); got != `There's no "Games" right now.` {
		t.Errorf("EmptyMessage = %q", got)
	}
}

func TestHome_EmptyCatalog(t *testing.T) {
	_, router := testRouter(t)
	code, body := get(t, router, "/")
	if code != http.StatusOK {
		t.Fatalf("status = %d", code)
	}
	for _, want := range []string{
		"Welcome, I'm Allen",
		`There's no "Software" right now.`,
		`There's no "Games" right now.`,
		"mailto:allen@example.com",
		"https://instagram.com/allen",
		"VEX Robotics",
		"/static/live.js",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("home page missing %q", want)
		}
	}
	if strings.Contains(body, `id="highlight"`) {
		t.Error("empty highlight section should be hidden")
	}
}

func TestHome_Sections(t *testing.T) {
	env, router := testRouter(t)
	seed(t, env,
		models.Card{ID: "h-old", Title: "Old Home", Description: "old", ShortDescription: "old home summary", Category: models.CategoryHome, CreatedAt: 10},
		models.Card{ID: "sw", Title: "Engage", Description: "AI tutor app for learners", Category: models.CategorySoftware, CreatedAt: 20},
		models.Card{ID: "h-new", Title: "New Home", Description: "new", ShortDescription: "newest home summary", Category: models.CategoryHome, CreatedAt: 30},
	)

	_, body := get(t, router, "/")

	highlight := sectionMarkup(t, body, `id="highlight"`)
	if !strings.Contains(highlight, "/card/h-new") || strings.Contains(highlight, "/card/sw") {
		t.Errorf("highlight section = %s", highlight)
	}
	more := sectionMarkup(t, body, `id="more"`)
	if !strings.Contains(more, "/card/h-old") || strings.Contains(more, "/card/h-new") {
		t.Errorf("more section should hold non-highlighted Home cards: %s", more)
	}
	software := sectionMarkup(t, body, `id="software"`)
	if !strings.Contains(software, "Engage") {
		t.Errorf("software section = %s", software)
	}
	// Legacy records without a short description get one derived.
	if !strings.Contains(software, "AI tutor app for learners...") {
		t.Errorf("derived summary missing: %s", software)
	}
	if !strings.Contains(sectionMarkup(t, body, `id="games"`), `There's no "Games" right now.`) {
		t.Error("games placeholder missing")
	}
}

// sectionMarkup returns the markup from marker up to the closing </section>.
func sectionMarkup(t *testing.T, body, marker string) string {
	t.Helper()
	i := strings.Index(body, marker)
	if i < 0 {
		t.Fatalf("marker %q not found", marker)
	}
	rest := body[i:]
	if j := strings.Index(rest, "</section>"); j >= 0 {
		return rest[:j]
	}
	return rest
}

func TestCategoryPages(t *testing.T) {
	env, router := testRouter(t)
	seed(t, env,
		models.Card{ID: "g1", Title: "Photon Fury", Description: "2D shooter", Category: models.CategoryGames, CreatedAt: 1},
		models.Card{ID: "g2", Title: "Tic-Tac-Duel", Description: "card game", Category: models.CategoryGames, CreatedAt: 2},
	)

	code, body := get(t, router, "/games")
	if code != http.StatusOK {
		t.Fatalf("status = %d", code)
	}
	first, second := strings.Index(body, "Photon Fury"), strings.Index(body, "Tic-Tac-Duel")
	if first < 0 || second < 0 || first > second {
		t.Errorf("games page should list cards in stored order")
	}

	_, body = get(t, router, "/software")
	if !strings.Contains(body, `There's no "Software" right now.`) {
		t.Error("software placeholder missing")
	}
}

func TestHighlightPage(t *testing.T) {
	env, router := testRouter(t)
	seed(t, env,
		models.Card{ID: "a", Title: "Alpha", Description: "a", Category: models.CategoryHome, CreatedAt: 1},
		models.Card{ID: "b", Title: "Bravo", Description: "b", Category: models.CategoryGames, CreatedAt: 2},
	)
	if _, err := env.Settings.Set(context.Background(), models.Settings{NumberOfHighlights: 2}); err != nil {
		t.Fatal(err)
	}

	_, body := get(t, router, "/highlight")
	a, b := strings.Index(body, "Alpha"), strings.Index(body, "Bravo")
	if a < 0 || b < 0 || b > a {
		t.Error("highlight page should show newest first")
	}

	if _, err := env.Settings.Set(context.Background(), models.Settings{NumberOfHighlights: 0}); err != nil {
		t.Fatal(err)
	}
	_, body = get(t, router, "/highlight")
	if strings.Contains(body, "Alpha") || !strings.Contains(body, "Nothing to highlight") {
		t.Error("zero highlights should render the empty state")
	}
}

func TestCardDetail(t *testing.T) {
	env, router := testRouter(t)
	seed(t, env,
		models.Card{
			ID: "yt", Title: "Trailer", Description: "full description text", Category: models.CategoryGames,
			ProductLink: "https://photonfury.itch.io/game", VideoLink: "https://youtu.be/dQw4w9WgXcQ", CreatedAt: 1,
		},
		models.Card{
			ID: "raw", Title: "Other", Description: "d", Category: models.CategoryHome,
			ProductLink: "not a url", VideoLink: "https://vimeo.com/76979871", CreatedAt: 2,
		},
	)

	code, body := get(t, router, "/card/yt")
	if code != http.StatusOK {
		t.Fatalf("status = %d", code)
	}
	for _, want := range []string{
		"full description text",
		"https://www.youtube.com/embed/dQw4w9WgXcQ",
		"photonfury.itch.io",
		"https://www.google.com/s2/favicons?domain=photonfury.itch.io",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("detail page missing %q", want)
		}
	}

	_, body = get(t, router, "/card/raw")
	if !strings.Contains(body, "Link 🔗") {
		t.Error("unparseable product link should fall back to the generic label")
	}
	if !strings.Contains(body, "Video Link:") || !strings.Contains(body, "https://vimeo.com/76979871") {
		t.Error("non-YouTube video should be shown as a raw link")
	}
	if strings.Contains(body, "youtube.com/embed") {
		t.Error("non-YouTube video must not be embedded")
	}
}

func TestCardDetail_NotFound(t *testing.T) {
	_, router := testRouter(t)
	if code, _ := get(t, router, "/card/missing"); code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", code)
	}
}

func TestAdminAndStatic(t *testing.T) {
	_, router := testRouter(t)
	code, body := get(t, router, "/admin")
	if code != http.StatusOK || !strings.Contains(body, `id="login-form"`) || !strings.Contains(body, "/static/admin.js") {
		t.Errorf("admin page = %d", code)
	}
	if strings.Contains(body, "/static/live.js") {
		t.Error("admin page should not auto-reload")
	}

	for _, path := range []string{"/static/admin.js", "/static/live.js", "/static/style.css"} {
		if code, _ := get(t, router, path); code != http.StatusOK {
			t.Errorf("GET %s = %d", path, code)
		}
	}
}

func TestContactHref(t *testing.T) {
	cases := []struct {
		c    Contact
		href string
	}{
		{Contact{Type: "email", Handle: "a@b.c"}, "mailto:a@b.c"},
		{Contact{Type: "Instagram", Handle: "this_is_allen"}, "https://instagram.com/this_is_allen"},
		{Contact{Type: "github", Handle: "octo"}, "https://github.com/octo"},
		{Contact{Type: "link", Handle: "https://example.com"}, "https://example.com"},
	}
	for _, c := range cases {
		if got := c.c.Href(); got != c.href {
			t.Errorf("Href(%+v) = %q, want %q", c.c, got, c.href)
		}
	}
}
