package handlers

import (
	"context"
	"encoding/json"
	"html/template"
	"io"
	"net/http"

	chatbot "github.com/MegaGrindStone/lms-chatbot"
	"github.com/MegaGrindStone/lms-chatbot/internal/models"
	"github.com/yuin/goldmark"
	"go.uber.org/zap"
)

// Assistant answers chat queries. Answer never fails; failures are reported as apology answers.
type Assistant interface {
	Answer(ctx context.Context, query string, role models.Role, userContext map[string]string) string
}

// Summarizer summarizes an uploaded PDF document of the given size.
type Summarizer interface {
	Summarize(ctx context.Context, r io.ReaderAt, size int64) (string, error)
}

// Store defines the interface for chat log and preference persistence.
type Store interface {
	AddChatLog(ctx context.Context, log models.ChatLog) (string, error)
	ChatLogs(ctx context.Context, limit int) ([]models.ChatLog, error)

	Preference(ctx context.Context) (models.Preference, error)
}

// Main handles the chatbot page, the chat and summarize API endpoints and the chat log history. It
// renders the embedded HTML templates and delegates answering and summarizing to its collaborators.
type Main struct {
	templates *template.Template
	markdown  goldmark.Markdown

	assistant  Assistant
	summarizer Summarizer
	store      Store

	maxUploadSize int64
	historyLimit  int

	logger *zap.Logger
}

// Option configures Main.
type Option func(*Main)

const (
	defaultMaxUploadSize = 32 << 20
	defaultHistoryLimit  = 50

	maxChatBodySize = 1 << 20
)

// WithMaxUploadSize limits the size of uploaded documents in bytes.
func WithMaxUploadSize(n int64) Option {
	return func(m *Main) {
		if n > 0 {
			m.maxUploadSize = n
		}
	}
}

// WithHistoryLimit limits the number of chat logs listed on the history page.
func WithHistoryLimit(n int) Option {
	return func(m *Main) {
		if n > 0 {
			m.historyLimit = n
		}
	}
}

// NewMain creates a new Main instance with the provided collaborators. It parses the required HTML
// templates from the embedded filesystem.
func NewMain(assistant Assistant, summarizer Summarizer, store Store, logger *zap.Logger, opts ...Option) (Main, error) {
	// We parse templates from three distinct directories to separate layout, pages, and partial views
	tmpl, err := template.ParseFS(
		chatbot.TemplateFS,
		"templates/layout/*.html",
		"templates/pages/*.html",
		"templates/partials/*.html",
	)
	if err != nil {
		return Main{}, err
	}

	m := Main{
		templates:     tmpl,
		markdown:      newMarkdown(),
		assistant:     assistant,
		summarizer:    summarizer,
		store:         store,
		maxUploadSize: defaultMaxUploadSize,
		historyLimit:  defaultHistoryLimit,
		logger:        logger.With(zap.String("module", "handlers")),
	}
	for _, opt := range opts {
		opt(&m)
	}
	return m, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, models.ErrorResponse{Error: msg})
}
