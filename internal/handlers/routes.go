package handlers

import (
	"io/fs"
	"net/http"

	chatbot "github.com/MegaGrindStone/lms-chatbot"
	"golang.org/x/time/rate"
)

// RouteConfig tunes the protection of the API routes.
type RouteConfig struct {
	// CSRF enables CSRF verification of the API routes.
	CSRF bool
	// RequestsPerSecond and Burst configure the API rate limiter. Zero RequestsPerSecond disables it.
	RequestsPerSecond float64
	Burst             int
}

// Routes returns the chatbot's HTTP handler: the page at /chatbot/, the API under /chatbot/api/, the
// history at /chatbot/history/ and the static assets under /static/.
func (m Main) Routes(cfg RouteConfig) (http.Handler, error) {
	staticFS, err := fs.Sub(chatbot.StaticFS, "static")
	if err != nil {
		return nil, err
	}
	fileServer := http.FileServer(http.FS(staticFS))

	// The API routes share a single limiter.
	var limiter *rate.Limiter
	if cfg.RequestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), max(cfg.Burst, 1))
	}

	api := func(h http.HandlerFunc) http.Handler {
		var handler http.Handler = h
		if cfg.CSRF {
			handler = m.CSRF(handler)
		}
		if limiter != nil {
			handler = m.RateLimit(limiter)(handler)
		}
		return handler
	}

	mux := http.NewServeMux()
	mux.Handle("/static/", http.StripPrefix("/static/", fileServer))
	mux.HandleFunc("/chatbot/", m.HandleChatbot)
	mux.HandleFunc("/chatbot/history/", m.HandleHistory)
	mux.Handle("/chatbot/api/chat/", api(m.HandleChat))
	mux.Handle("/chatbot/api/summarize/", api(m.HandleSummarize))
	mux.Handle("/", http.RedirectHandler("/chatbot/", http.StatusFound))

	return mux, nil
}
