package handlers

import (
	"net/http"

	"github.com/MegaGrindStone/lms-chatbot/internal/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type roleOption struct {
	Value    string
	Label    string
	Selected bool
}

type chatbotPageData struct {
	CSRFToken string
	Roles     []roleOption
	Theme     string
}

// HandleChatbot renders the chatbot page. The page carries the widget's elements, the hidden CSRF token
// field and a role selector preselecting the stored default role. The token is also set as a cookie if
// the visitor has none yet.
func (m Main) HandleChatbot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/chatbot/" {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	pref, err := m.store.Preference(r.Context())
	if err != nil {
		m.logger.Error("Failed to get preference", zap.Error(err))
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	token := csrfCookieValue(r)
	if token == "" {
		token = uuid.NewString()
		http.SetCookie(w, &http.Cookie{
			Name:     CSRFCookieName,
			Value:    token,
			Path:     "/",
			SameSite: http.SameSiteLaxMode,
		})
	}

	roles := make([]roleOption, len(models.Roles))
	for i, role := range models.Roles {
		roles[i] = roleOption{
			Value:    string(role),
			Label:    role.Label(),
			Selected: role == pref.DefaultRole,
		}
	}

	data := chatbotPageData{
		CSRFToken: token,
		Roles:     roles,
		Theme:     pref.Theme,
	}
	if err := m.templates.ExecuteTemplate(w, "chatbot.html", data); err != nil {
		m.logger.Error("Failed to render chatbot page", zap.Error(err))
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
