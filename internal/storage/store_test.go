package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/starford/folio/internal/apperr"
	"github.com/starford/folio/internal/models"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func tempStore(t *testing.T) (*Store, *FS, *FS) {
	t.Helper()
	data := tempFS(t)
	uploads := tempFS(t)
	return NewStore(data, uploads, Files{}, quietLogger()), data, uploads
}

func TestLoadCards_MissingFileIsEmpty(t *testing.T) {
	s, _, _ := tempStore(t)
	cards := s.LoadCards(context.Background())
	if cards == nil || len(cards) != 0 {
		t.Errorf("cards = %#v, want empty non-nil slice", cards)
	}
}

func TestLoadCards_MalformedIsEmpty(t *testing.T) {
	s, data, _ := tempStore(t)
	_ = data.Write(DefaultCardsFile, []byte("{not json"))
	if got := s.LoadCards(context.Background()); len(got) != 0 {
		t.Errorf("len = %d, want 0", len(got))
	}
}

func TestLoadCards_NullIsEmpty(t *testing.T) {
	s, data, _ := tempStore(t)
	_ = data.Write(DefaultCardsFile, []byte("null"))
	if got := s.LoadCards(context.Background()); got == nil {
		t.Error("null document should load as empty non-nil slice")
	}
}

func TestSaveLoadCardsRoundTrip(t *testing.T) {
	s, _, _ := tempStore(t)
	ctx := context.Background()
	in := []models.Card{
		{
			ID: "a", Title: "Photon Fury", Description: "A 2D shooter",
			ShortDescription: "A 2D shooter...", Category: models.CategoryGames,
			ImagePath: "/uploads/1-a.png", ProductLink: "https://itch.io/x",
			VideoLink: "https://youtu.be/dQw4w9WgXcQ", CreatedAt: 1700000000000,
		},
		{ID: "b", Title: "Engage", Description: "Learning app", Category: models.CategorySoftware, CreatedAt: 1700000000001},
	}
	if err := s.SaveCards(ctx, in); err != nil {
		t.Fatalf("SaveCards: %v", err)
	}
	out := s.LoadCards(ctx)
	if !reflect.DeepEqual(in, out) {
		t.Errorf("round trip mismatch:\n got  %#v\n want %#v", out, in)
	}
}

func TestSaveCards_OmitsEmptyOptionalFields(t *testing.T) {
	s, data, _ := tempStore(t)
	_ = s.SaveCards(context.Background(), []models.Card{{ID: "x", Title: "t", Description: "d", Category: models.CategoryHome, CreatedAt: 1}})
	raw, _ := data.Read(DefaultCardsFile)
	for _, field := range []string{"imagePath", "productLink", "videoLink", "shortDescription"} {
		if strings.Contains(string(raw), field) {
			t.Errorf("document should omit empty %s: %s", field, raw)
		}
	}
}

func TestSaveCards_WriteFailureIsStorageError(t *testing.T) {
	data := tempFS(t)
	s := NewStore(data, tempFS(t), Files{Cards: "sub/cards.json"}, quietLogger())
	// A regular file where the parent directory should be makes the write fail.
	if err := os.WriteFile(filepath.Join(data.Root(), "sub"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	err := s.SaveCards(context.Background(), nil)
	if !errors.Is(err, apperr.ErrStorage) {
		t.Errorf("err = %v, want ErrStorage", err)
	}
}

func TestLoadSettings_Defaults(t *testing.T) {
	s, data, _ := tempStore(t)
	ctx := context.Background()
	if got := s.LoadSettings(ctx); got.NumberOfHighlights != 1 {
		t.Errorf("missing file: numberOfHighlights = %d, want 1", got.NumberOfHighlights)
	}
	_ = data.Write(DefaultSettingsFile, []byte("garbage"))
	if got := s.LoadSettings(ctx); got.NumberOfHighlights != 1 {
		t.Errorf("malformed file: numberOfHighlights = %d, want 1", got.NumberOfHighlights)
	}
	_ = data.Write(DefaultSettingsFile, []byte("{}"))
	if got := s.LoadSettings(ctx); got.NumberOfHighlights != 1 {
		t.Errorf("unset field: numberOfHighlights = %d, want 1", got.NumberOfHighlights)
	}
}

func TestSaveLoadSettings(t *testing.T) {
	s, _, _ := tempStore(t)
	ctx := context.Background()
	if err := s.SaveSettings(ctx, models.Settings{NumberOfHighlights: 4}); err != nil {
		t.Fatalf("SaveSettings: %v", err)
	}
	if got := s.LoadSettings(ctx); got.NumberOfHighlights != 4 {
		t.Errorf("numberOfHighlights = %d, want 4", got.NumberOfHighlights)
	}
	if err := s.SaveSettings(ctx, models.Settings{NumberOfHighlights: 0}); err != nil {
		t.Fatal(err)
	}
	if got := s.LoadSettings(ctx); got.NumberOfHighlights != 0 {
		t.Errorf("explicit zero must survive, got %d", got.NumberOfHighlights)
	}
}

func TestStoreUpload(t *testing.T) {
	s, _, uploads := tempStore(t)
	s.now = func() time.Time { return time.UnixMilli(1712345678901) }

	ref, err := s.StoreUpload(context.Background(), "cover.png", bytes.NewReader([]byte("img")))
	if err != nil {
		t.Fatalf("StoreUpload: %v", err)
	}
	if ref != "/uploads/1712345678901-cover.png" {
		t.Errorf("ref = %q", ref)
	}
	got, err := uploads.Read("1712345678901-cover.png")
	if err != nil || string(got) != "img" {
		t.Errorf("stored = %q, %v", got, err)
	}
}

func TestStoreUpload_SameMillisecondSameName(t *testing.T) {
	s, _, _ := tempStore(t)
	s.now = func() time.Time { return time.UnixMilli(42) }
	ctx := context.Background()

	a, err := s.StoreUpload(ctx, "x.png", bytes.NewReader([]byte("a")))
	if err != nil {
		t.Fatal(err)
	}
	b, err := s.StoreUpload(ctx, "x.png", bytes.NewReader([]byte("b")))
	if err != nil {
		t.Fatal(err)
	}
	if a == b {
		t.Errorf("collision: both uploads got %q", a)
	}
}

func TestStoreUpload_Concurrent(t *testing.T) {
	s, _, uploads := tempStore(t)
	ctx := context.Background()

	const n = 16
	var wg sync.WaitGroup
	refs := make([]string, n)
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			refs[i], errs[i] = s.StoreUpload(ctx, fmt.Sprintf("f%d.png", i), bytes.NewReader([]byte{byte(i)}))
		}(i)
	}
	wg.Wait()

	seen := map[string]bool{}
	for i := 0; i < n; i++ {
		if errs[i] != nil {
			t.Fatalf("upload %d: %v", i, errs[i])
		}
		if seen[refs[i]] {
			t.Errorf("duplicate ref %q", refs[i])
		}
		seen[refs[i]] = true
		data, err := uploads.Read(strings.TrimPrefix(refs[i], UploadURLPrefix))
		if err != nil || len(data) != 1 || data[0] != byte(i) {
			t.Errorf("upload %d content = %v, %v", i, data, err)
		}
	}
}

func TestOpenUpload(t *testing.T) {
	s, _, _ := tempStore(t)
	ref, _ := s.StoreUpload(context.Background(), "a.txt", strings.NewReader("hello"))

	f, err := s.OpenUpload(strings.TrimPrefix(ref, UploadURLPrefix))
	if err != nil {
		t.Fatalf("OpenUpload: %v", err)
	}
	f.Close()

	if _, err := s.OpenUpload("missing.png"); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("missing err = %v, want ErrNotFound", err)
	}
	for _, bad := range []string{"", "../cards.json", "a/b.png", `..\x`} {
		if _, err := s.OpenUpload(bad); !errors.Is(err, apperr.ErrInvalid) {
			t.Errorf("OpenUpload(%q) err = %v, want ErrInvalid", bad, err)
		}
	}
}

func TestSanitizeFilename(t *testing.T) {
	cases := map[string]string{
		"photo.png":           "photo.png",
		"my photo (1).jpg":    "my_photo__1_.jpg",
		"../../etc/passwd":    "passwd",
		`C:\Users\me\pic.gif`: "pic.gif",
		"":                    "upload",
		"..":                  "upload",
	}
	for in, want := range cases {
		if got := SanitizeFilename(in); got != want {
			t.Errorf("SanitizeFilename(%q) = %q, want %q", in, got, want)
		}
	}
}
