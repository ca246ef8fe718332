// Package testutil provides shared test helpers for setting up stores and services.
package testutil

import (
	"io"
	"log/slog"
	"testing"

	"github.com/starford/folio/internal/catalog"
	"github.com/starford/folio/internal/settings"
	"github.com/starford/folio/internal/storage"
)

// Env is a throwaway store with services on top of it.
type Env struct {
	DataDir    string
	UploadsDir string
	Store      *storage.Store
	Catalog    *catalog.Service
	Settings   *settings.Service
}

// QuietLogger discards all output.
func QuietLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

// TestStore creates temporary data and uploads directories with a Store.
func TestStore(t *testing.T) (*storage.Store, string, string) {
	t.Helper()
	dataDir, uploadsDir := t.TempDir(), t.TempDir()
	data, err := storage.NewFS(dataDir)
	if err != nil {
		t.Fatal(err)
	}
	uploads, err := storage.NewFS(uploadsDir)
	if err != nil {
		t.Fatal(err)
	}
	return storage.NewStore(data, uploads, storage.Files{}, QuietLogger()), dataDir, uploadsDir
}

// TestEnv creates a Store plus catalog and settings services over it.
func TestEnv(t *testing.T) *Env {
	t.Helper()
	store, dataDir, uploadsDir := TestStore(t)
	return &Env{
		DataDir:    dataDir,
		UploadsDir: uploadsDir,
		Store:      store,
		Catalog:    catalog.NewService(store),
		Settings:   settings.NewService(store),
	}
}
