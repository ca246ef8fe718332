// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes the Folio catalog for LLM integration via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/folio/internal/apperr"
	"github.com/starford/folio/internal/catalog"
	"github.com/starford/folio/internal/models"
	"github.com/starford/folio/internal/settings"
)

const cardFormatURI = "folio://card-format"

// UploadStore stores uploaded bytes and returns their public path.
type UploadStore interface {
	StoreUpload(ctx context.Context, filename string, r io.Reader) (string, error)
}

// Server wraps the MCP server with Folio tools.
type Server struct {
	mcp      *server.MCPServer
	cards    *catalog.Service
	settings *settings.Service
	uploads  UploadStore
	fetch    fetchFunc
}

// New creates a new MCP server with all Folio tools registered.
func New(cards *catalog.Service, st *settings.Service, uploads UploadStore, version string) *Server {
	s := &Server{cards: cards, settings: st, uploads: uploads, fetch: fetchHTTP}

	s.mcp = server.NewMCPServer(
		"Folio",
		version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("list_cards",
		mcp.WithDescription("List every portfolio card in stored order as a JSON array."),
	), s.listCards)

	s.mcp.AddTool(mcp.NewTool("get_card",
		mcp.WithDescription("Read a single card by id."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Card id")),
	), s.getCard)

	s.mcp.AddTool(mcp.NewTool("get_highlights",
		mcp.WithDescription("Return the most recently created cards, newest first."),
		mcp.WithNumber("n", mcp.Description("How many cards; defaults to the numberOfHighlights setting")),
	), s.getHighlights)

	s.mcp.AddTool(mcp.NewTool("list_category",
		mcp.WithDescription("List the cards of one category in stored order."),
		mcp.WithString("category", mcp.Required(), mcp.Enum("Home", "Software", "Games")),
	), s.listCategory)

	s.mcp.AddTool(mcp.NewTool("create_card",
		mcp.WithDescription("Create a portfolio card. Fields MUST follow the card format "+
			"contract; read it first via get_card_contract or the "+cardFormatURI+" resource. "+
			"Upload images with upload_image and pass the returned imagePath."),
		mcp.WithString("title", mcp.Required()),
		mcp.WithString("description", mcp.Required()),
		mcp.WithString("category", mcp.Required(), mcp.Enum("Home", "Software", "Games")),
		mcp.WithString("shortDescription", mcp.Description("Optional; derived from description when empty")),
		mcp.WithString("imagePath", mcp.Description("Path returned by upload_image")),
		mcp.WithString("productLink", mcp.Description("Absolute URL of the product")),
		mcp.WithString("videoLink", mcp.Description("Video URL, YouTube links are embedded")),
	), s.createCard)

	s.mcp.AddTool(mcp.NewTool("update_card",
		mcp.WithDescription("Change fields of an existing card. Omitted fields keep their value."),
		mcp.WithString("id", mcp.Required()),
		mcp.WithString("title"),
		mcp.WithString("description"),
		mcp.WithString("category", mcp.Enum("Home", "Software", "Games")),
		mcp.WithString("shortDescription", mcp.Description("Set to an empty string to re-derive it")),
		mcp.WithString("imagePath"),
		mcp.WithString("productLink"),
		mcp.WithString("videoLink"),
	), s.updateCard)

	s.mcp.AddTool(mcp.NewTool("delete_card",
		mcp.WithDescription("Delete a card by id. Deleting an unknown id is a no-op."),
		mcp.WithString("id", mcp.Required()),
	), s.deleteCard)

	s.mcp.AddTool(mcp.NewTool("get_settings",
		mcp.WithDescription("Return the site settings."),
	), s.getSettings)

	s.mcp.AddTool(mcp.NewTool("set_highlights",
		mcp.WithDescription("Set how many recent cards the home page highlights."),
		mcp.WithNumber("n", mcp.Required(), mcp.Min(0)),
	), s.setHighlights)

	s.mcp.AddTool(mcp.NewTool("upload_image",
		mcp.WithDescription("Store an image for use as a card imagePath. Accepts an http(s) URL "+
			"or a base64 data URI. Returns JSON with the imagePath."),
		mcp.WithString("url", mcp.Required(), mcp.Description("http(s) URL or data:image/...;base64,... URI")),
		mcp.WithString("filename", mcp.Description("Optional file name; derived from the URL when empty")),
	), s.uploadImage)

	s.mcp.AddTool(mcp.NewTool("get_card_contract",
		mcp.WithDescription("Returns the card format contract. "+
			"Call this before creating or updating cards to ensure correct structure."),
	), s.getCardContract)

	// Resource: card format contract.
	s.mcp.AddResource(
		mcp.NewResource(cardFormatURI, "Card Format Contract",
			mcp.WithResourceDescription("JSON shape and rules for portfolio cards."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readCardFormatResource,
	)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func (s *Server) listCards(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(s.cards.List(ctx))
}

func (s *Server) getCard(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	card, err := s.cards.Get(ctx, id)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("card not found: %s", id)), nil
	}
	return jsonResult(card)
}

func (s *Server) getHighlights(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	n, ok, err := intArg(req, "n")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if !ok {
		n = s.settings.Get(ctx).NumberOfHighlights
	}
	return jsonResult(s.cards.Highlights(ctx, n))
}

func (s *Server) listCategory(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	raw, err := req.RequireString("category")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	category := models.Category(raw)
	if !category.Valid() {
		return mcp.NewToolResultError(fmt.Sprintf("unknown category: %s", raw)), nil
	}
	return jsonResult(s.cards.ByCategory(ctx, category))
}

func (s *Server) createCard(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var in catalog.CardInput
	var err error
	if in.Title, err = req.RequireString("title"); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if in.Description, err = req.RequireString("description"); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	category, err := req.RequireString("category")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	in.Category = models.Category(category)
	in.ShortDescription = optionalString(req, "shortDescription")
	in.ImagePath = optionalString(req, "imagePath")
	in.ProductLink = optionalString(req, "productLink")
	in.VideoLink = optionalString(req, "videoLink")

	card, err := s.cards.Create(ctx, in)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(card)
}

func (s *Server) updateCard(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	card, err := s.cards.Get(ctx, id)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("card not found: %s", id)), nil
	}
	etag := catalog.ETag(card)

	for key, field := range map[string]*string{
		"title":            &card.Title,
		"description":      &card.Description,
		"shortDescription": &card.ShortDescription,
		"imagePath":        &card.ImagePath,
		"productLink":      &card.ProductLink,
		"videoLink":        &card.VideoLink,
	} {
		if v, err := req.RequireString(key); err == nil {
			*field = v
		}
	}
	if v, err := req.RequireString("category"); err == nil {
		card.Category = models.Category(v)
	}

	updated, err := s.cards.Update(ctx, card, etag)
	if err != nil {
		if errors.Is(err, apperr.ErrConflict) {
			return mcp.NewToolResultError("card changed concurrently, read it again and retry"), nil
		}
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(updated)
}

func (s *Server) deleteCard(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	removed, err := s.cards.Delete(ctx, id)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if !removed {
		return mcp.NewToolResultText(fmt.Sprintf("no card with id %s", id)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("deleted: %s", id)), nil
}

func (s *Server) getSettings(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(s.settings.Get(ctx))
}

func (s *Server) setHighlights(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	n, ok, err := intArg(req, "n")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if !ok {
		return mcp.NewToolResultError(`required argument "n" not found`), nil
	}
	stored, err := s.settings.Set(ctx, models.Settings{NumberOfHighlights: n})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(stored)
}

func (s *Server) getCardContract(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(CardFormatContract), nil
}

func (s *Server) readCardFormatResource(_ context.Context, _ mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      cardFormatURI,
			MIMEType: "text/markdown",
			Text:     CardFormatContract,
		},
	}, nil
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(out)), nil
}

func optionalString(req mcp.CallToolRequest, key string) string {
	v, err := req.RequireString(key)
	if err != nil {
		return ""
	}
	return v
}

// intArg reads an integer argument. JSON numbers arrive as float64.
func intArg(req mcp.CallToolRequest, key string) (int, bool, error) {
	raw, ok := req.GetArguments()[key]
	if !ok || raw == nil {
		return 0, false, nil
	}
	switch v := raw.(type) {
	case float64:
		if v != math.Trunc(v) {
			return 0, false, fmt.Errorf("argument %q must be a whole number", key)
		}
		return int(v), true, nil
	case int:
		return v, true, nil
	case string:
		n, err := strconv.Atoi(v)
		if err != nil {
			return 0, false, fmt.Errorf("argument %q must be a number", key)
		}
		return n, true, nil
	default:
		return 0, false, fmt.Errorf("argument %q must be a number", key)
	}
}
