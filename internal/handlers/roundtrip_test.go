package handlers_test

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/MegaGrindStone/lms-chatbot/internal/client"
	"github.com/MegaGrindStone/lms-chatbot/internal/handlers"
	"github.com/MegaGrindStone/lms-chatbot/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientRoundTrip(t *testing.T) {
	store := &mockStore{}
	m := newMain(t, &mockAssistant{answer: "Hello student"}, &mockSummarizer{summary: "Short."}, store)
	h, err := m.Routes(handlers.RouteConfig{CSRF: true})
	require.NoError(t, err)

	srv := httptest.NewServer(h)
	defer srv.Close()

	cli := client.New(srv.URL)

	token, err := cli.CSRFToken(t.Context())
	require.NoError(t, err)
	require.NotEmpty(t, token)

	answer, err := cli.Chat(t.Context(), "hi", "student", token)
	require.NoError(t, err)
	assert.Equal(t, "Hello student", answer)
	logs, err := store.ChatLogs(t.Context(), 0)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, models.RoleStudent, logs[0].Role)

	summary, err := cli.Summarize(t.Context(), "notes.pdf", strings.NewReader(pdfContent), token)
	require.NoError(t, err)
	assert.Equal(t, "Short.", summary)

	_, err = cli.Chat(t.Context(), "hi", "student", "forged")
	var statusErr *client.StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, 403, statusErr.StatusCode)
}
