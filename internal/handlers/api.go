package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/MegaGrindStone/lms-chatbot/internal/models"
	"github.com/h2non/filetype"
	"go.uber.org/zap"
)

// HandleChat answers a chat query. It expects a JSON body {"query": ..., "role": ...}, where role
// defaults to student, and answers {"response": ...}. Every answered query is stored as a chat log.
func (m Main) HandleChat(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "Only POST requests are allowed")
		return
	}

	var req models.ChatRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxChatBodySize)).Decode(&req); err != nil {
		m.logger.Debug("Invalid chat request", zap.Error(err))
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if strings.TrimSpace(req.Query) == "" {
		writeError(w, http.StatusBadRequest, "Query is required")
		return
	}

	role, _ := models.ParseRole(req.Role)

	userContext := map[string]string{}
	if req.Course != "" {
		userContext["course"] = req.Course
	}
	if req.Topic != "" {
		userContext["topic"] = req.Topic
	}

	response := m.assistant.Answer(r.Context(), req.Query, role, userContext)

	_, err := m.store.AddChatLog(r.Context(), models.ChatLog{
		Role:      role,
		Query:     req.Query,
		Response:  response,
		Timestamp: time.Now(),
		Context:   userContext,
	})
	if err != nil {
		m.logger.Error("Failed to add chat log",
			zap.String("role", string(role)),
			zap.Error(err))
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, models.ChatResponse{Response: &response})
}

// HandleSummarize summarizes the PDF document uploaded as the multipart field "file" and answers
// {"summary": ...}.
func (m Main) HandleSummarize(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "Only POST requests are allowed")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, m.maxUploadSize)
	file, header, err := r.FormFile("file")
	if err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.As(err, &maxErr):
			writeError(w, http.StatusRequestEntityTooLarge, "File is too large")
		case errors.Is(err, http.ErrMissingFile):
			writeError(w, http.StatusBadRequest, "No file uploaded")
		default:
			m.logger.Debug("Invalid upload", zap.Error(err))
			writeError(w, http.StatusBadRequest, "No file uploaded")
		}
		return
	}
	defer file.Close()

	head := make([]byte, 262)
	n, _ := file.ReadAt(head, 0)
	if !filetype.Is(head[:n], "pdf") {
		writeError(w, http.StatusBadRequest, "Only PDF files are supported")
		return
	}

	summary, err := m.summarizer.Summarize(r.Context(), file, header.Size)
	if err != nil {
		m.logger.Error("Error summarizing PDF",
			zap.String("filename", header.Filename),
			zap.Int64("size", header.Size),
			zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Failed to generate PDF summary")
		return
	}

	m.logger.Info("Summarized PDF",
		zap.String("filename", header.Filename),
		zap.Int("length", len(summary)))
	writeJSON(w, http.StatusOK, models.SummaryResponse{Summary: summary})
}
