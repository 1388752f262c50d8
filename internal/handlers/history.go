package handlers

import (
	"bytes"
	"html/template"
	"net/http"
	"time"

	"github.com/MegaGrindStone/lms-chatbot/internal/models"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting"
	"github.com/yuin/goldmark/extension"
	"go.uber.org/zap"
)

type chatLogView struct {
	Role      string
	Query     string
	Response  template.HTML
	Timestamp time.Time
	Course    string
	Topic     string
}

type historyPageData struct {
	Logs  []chatLogView
	Theme string
}

func newMarkdown() goldmark.Markdown {
	// Raw HTML in answers stays escaped: the renderer is not configured with html.WithUnsafe.
	return goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			highlighting.NewHighlighting(
				highlighting.WithStyle("github"),
			),
		),
	)
}

// HandleHistory renders the most recent chat logs, newest first, with answers rendered as Markdown.
func (m Main) HandleHistory(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/chatbot/history/" {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	logs, err := m.store.ChatLogs(r.Context(), m.historyLimit)
	if err != nil {
		m.logger.Error("Failed to get chat logs", zap.Error(err))
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	pref, err := m.store.Preference(r.Context())
	if err != nil {
		m.logger.Warn("Failed to get preference", zap.Error(err))
		pref = models.DefaultPreference
	}

	views := make([]chatLogView, len(logs))
	for i, log := range logs {
		response, err := m.renderMarkdown(log.Response)
		if err != nil {
			m.logger.Error("Failed to render chat log",
				zap.String("id", log.ID),
				zap.Error(err))
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		views[i] = chatLogView{
			Role:      log.Role.Label(),
			Query:     log.Query,
			Response:  response,
			Timestamp: log.Timestamp,
			Course:    log.Context["course"],
			Topic:     log.Context["topic"],
		}
	}

	if err := m.templates.ExecuteTemplate(w, "history.html", historyPageData{Logs: views, Theme: pref.Theme}); err != nil {
		m.logger.Error("Failed to render history page", zap.Error(err))
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (m Main) renderMarkdown(source string) (template.HTML, error) {
	var buf bytes.Buffer
	if err := m.markdown.Convert([]byte(source), &buf); err != nil {
		return "", err
	}
	return template.HTML(buf.String()), nil
}
