package client_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/MegaGrindStone/lms-chatbot/internal/client"
	"github.com/MegaGrindStone/lms-chatbot/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChat(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		want    string
		wantErr error
		wantMsg string
	}{
		{
			name:   "Success",
			status: http.StatusOK,
			body:   `{"response":"Hello"}`,
			want:   "Hello",
		},
		{
			name:    "Server error",
			status:  http.StatusInternalServerError,
			body:    `{"error":"boom"}`,
			wantMsg: "unexpected status 500: boom",
		},
		{
			name:    "Missing response",
			status:  http.StatusOK,
			body:    `{}`,
			wantErr: client.ErrNoResponse,
		},
		{
			name:    "Null response",
			status:  http.StatusOK,
			body:    `{"response":null}`,
			wantErr: client.ErrNoResponse,
		},
		{
			name:   "Empty response",
			status: http.StatusOK,
			body:   `{"response":""}`,
			want:   "",
		},
		{
			name:    "Invalid body",
			status:  http.StatusOK,
			body:    `<html>`,
			wantMsg: "error decoding response",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodPost, r.Method)
				assert.Equal(t, "/chatbot/api/chat/", r.URL.Path)
				assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
				assert.Equal(t, "token", r.Header.Get(client.CSRFHeader))

				var req models.ChatRequest
				assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
				assert.Equal(t, models.ChatRequest{Query: "hi", Role: "student"}, req)

				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			}))
			defer srv.Close()

			got, err := client.New(srv.URL).Chat(t.Context(), "hi", "student", "token")
			switch {
			case tt.wantErr != nil:
				require.ErrorIs(t, err, tt.wantErr)
			case tt.wantMsg != "":
				require.ErrorContains(t, err, tt.wantMsg)
			default:
				require.NoError(t, err)
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestChatStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "forbidden", http.StatusForbidden)
	}))
	defer srv.Close()

	_, err := client.New(srv.URL).Chat(t.Context(), "hi", "student", "")

	var statusErr *client.StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusForbidden, statusErr.StatusCode)
}

func TestSummarize(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		want    string
		wantErr error
		wantMsg string
	}{
		{
			name:   "Success",
			status: http.StatusOK,
			body:   `{"summary":"X"}`,
			want:   "X",
		},
		{
			name:    "Error body",
			status:  http.StatusBadRequest,
			body:    `{"error":"No file uploaded"}`,
			wantErr: client.ErrNoSummary,
		},
		{
			name:    "Invalid body",
			status:  http.StatusBadGateway,
			body:    `Bad Gateway`,
			wantMsg: "error decoding response",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/chatbot/api/summarize/", r.URL.Path)
				assert.Equal(t, "token", r.Header.Get(client.CSRFHeader))
				assert.True(t, strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data; boundary="))

				f, fh, err := r.FormFile("file")
				if assert.NoError(t, err) {
					defer f.Close()
					b, _ := io.ReadAll(f)
					assert.Equal(t, "notes.pdf", fh.Filename)
					assert.Equal(t, "%PDF-1.7 content", string(b))
				}

				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			}))
			defer srv.Close()

			got, err := client.New(srv.URL).Summarize(t.Context(), "notes.pdf",
				strings.NewReader("%PDF-1.7 content"), "token")
			switch {
			case tt.wantErr != nil:
				require.ErrorIs(t, err, tt.wantErr)
			case tt.wantMsg != "":
				require.ErrorContains(t, err, tt.wantMsg)
			default:
				require.NoError(t, err)
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestCSRFToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/chatbot/":
			http.SetCookie(w, &http.Cookie{Name: "csrftoken", Value: "abc", Path: "/"})
			_, _ = io.WriteString(w, `<html><body><form>
				<input type="hidden" name="csrfmiddlewaretoken" value="abc">
				</form></body></html>`)
		case "/chatbot/api/chat/":
			cookie, err := r.Cookie("csrftoken")
			if err != nil || cookie.Value != r.Header.Get(client.CSRFHeader) {
				http.Error(w, `{"error":"CSRF verification failed"}`, http.StatusForbidden)
				return
			}
			_, _ = io.WriteString(w, `{"response":"ok"}`)
		}
	}))
	defer srv.Close()

	cli := client.New(srv.URL)

	token, err := cli.CSRFToken(t.Context())
	require.NoError(t, err)
	assert.Equal(t, "abc", token)

	got, err := cli.Chat(t.Context(), "hi", "student", token)
	require.NoError(t, err)
	assert.Equal(t, "ok", got)
}

func TestCSRFTokenMissingField(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `<html><body><p>no form</p></body></html>`)
	}))
	defer srv.Close()

	_, err := client.New(srv.URL).CSRFToken(t.Context())
	require.ErrorIs(t, err, client.ErrNoCSRFField)
}
