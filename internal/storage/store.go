package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/starford/folio/internal/apperr"
	"github.com/starford/folio/internal/models"
)

// UploadURLPrefix is the public path under which stored uploads are served.
const UploadURLPrefix = "/uploads/"

// Default document names inside the data directory.
const (
	DefaultCardsFile    = "cards.json"
	DefaultSettingsFile = "settings.json"
)

var unsafeFilenameRe = regexp.MustCompile(`[^a-zA-Z0-9._-]`)

// Files names the two JSON documents inside the data provider.
type Files struct {
	Cards    string
	Settings string
}

// Store persists the card collection, the settings object and uploaded files.
//
// Reads fail soft: a missing or malformed document yields the empty
// collection or default settings. Writes replace the whole document and
// report failures wrapped in apperr.ErrStorage. There is no locking here;
// callers that read-modify-write serialize themselves.
type Store struct {
	data    Provider
	uploads Provider
	files   Files
	logger  *slog.Logger
	now     func() time.Time
}

// NewStore creates a Store. Empty file names fall back to the defaults.
func NewStore(data, uploads Provider, files Files, logger *slog.Logger) *Store {
	if files.Cards == "" {
		files.Cards = DefaultCardsFile
	}
	if files.Settings == "" {
		files.Settings = DefaultSettingsFile
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		data:    data,
		uploads: uploads,
		files:   files,
		logger:  logger,
		now:     time.Now,
	}
}

// Files returns the document names the store reads and writes.
func (s *Store) Files() Files {
	return s.files
}

// DataDir returns the absolute directory holding the JSON documents.
func (s *Store) DataDir() string {
	return s.data.Root()
}

// LoadCards returns the stored card collection, or an empty one if the
// document is missing or cannot be decoded.
func (s *Store) LoadCards(_ context.Context) []models.Card {
	var cards []models.Card
	if !s.readDocument(s.files.Cards, &cards) || cards == nil {
		return []models.Card{}
	}
	return cards
}

// SaveCards overwrites the card document with the full collection.
func (s *Store) SaveCards(_ context.Context, cards []models.Card) error {
	if cards == nil {
		cards = []models.Card{}
	}
	return s.writeDocument(s.files.Cards, cards)
}

// LoadSettings returns the stored settings, or the defaults if the
// document is missing or cannot be decoded.
func (s *Store) LoadSettings(_ context.Context) models.Settings {
	settings := models.DefaultSettings()
	if !s.readDocument(s.files.Settings, &settings) {
		return models.DefaultSettings()
	}
	return settings
}

// SaveSettings overwrites the settings document.
func (s *Store) SaveSettings(_ context.Context, settings models.Settings) error {
	return s.writeDocument(s.files.Settings, settings)
}

// StoreUpload writes r to a fresh file named "<unix-ms>-<filename>" and
// returns the public reference path for it.
func (s *Store) StoreUpload(_ context.Context, filename string, r io.Reader) (string, error) {
	name := SanitizeFilename(filename)
	stamp := s.now().UnixMilli()

	target := fmt.Sprintf("%d-%s", stamp, name)
	_, err := s.uploads.CreateExclusive(target, r)
	if errors.Is(err, fs.ErrExist) {
		// Same name within the same millisecond; the exclusive create
		// failed before r was read, so retrying with a suffix is safe.
		target = fmt.Sprintf("%d-%s-%s", stamp, uuid.NewString()[:8], name)
		_, err = s.uploads.CreateExclusive(target, r)
	}
	if err != nil {
		return "", fmt.Errorf("store upload: %w: %w", apperr.ErrStorage, err)
	}

	s.logger.Debug("upload stored", slog.String("file", target))
	return UploadURLPrefix + target, nil
}

// OpenUpload opens a previously stored upload by its file name.
func (s *Store) OpenUpload(name string) (*os.File, error) {
	if name == "" || name != filepath.Base(name) || strings.Contains(name, "..") || strings.ContainsAny(name, `/\`) {
		return nil, fmt.Errorf("invalid upload name %q: %w", name, apperr.ErrInvalid)
	}
	f, err := s.uploads.Open(name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, apperr.ErrNotFound
		}
		return nil, err
	}
	return f, nil
}

// SanitizeFilename strips directories and replaces characters outside
// [A-Za-z0-9._-] with underscores.
func SanitizeFilename(name string) string {
	name = strings.ReplaceAll(name, `\`, "/")
	name = filepath.Base(name)
	name = unsafeFilenameRe.ReplaceAllString(name, "_")
	if name == "" || name == "." || name == ".." || name == "/" {
		return "upload"
	}
	return name
}

func (s *Store) readDocument(name string, target any) bool {
	data, err := s.data.Read(name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			s.logger.Debug("document missing, using defaults", slog.String("file", name))
		} else {
			s.logger.Warn("document read failed, using defaults",
				slog.String("file", name), slog.String("error", err.Error()))
		}
		return false
	}
	if err := json.Unmarshal(data, target); err != nil {
		s.logger.Warn("document malformed, using defaults",
			slog.String("file", name), slog.String("error", err.Error()))
		return false
	}
	return true
}

func (s *Store) writeDocument(name string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", name, err)
	}
	data = append(data, '\n')
	if err := s.data.Write(name, data); err != nil {
		return fmt.Errorf("save %s: %w: %w", name, apperr.ErrStorage, err)
	}
	return nil
}
