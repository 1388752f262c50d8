package services_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/MegaGrindStone/lms-chatbot/internal/models"
	"github.com/MegaGrindStone/lms-chatbot/internal/services"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type mockLLM struct {
	answer string
	err    error

	systemPrompts []string
	prompts       []string
}

func (m *mockLLM) Complete(_ context.Context, systemPrompt, prompt string) (string, error) {
	m.systemPrompts = append(m.systemPrompts, systemPrompt)
	m.prompts = append(m.prompts, prompt)
	if m.err != nil {
		return "", m.err
	}
	if m.answer != "" {
		return m.answer, nil
	}
	return "summary of " + strings.TrimPrefix(prompt, "Please summarize this text concisely: "), nil
}

func TestAssistantSystemPrompt(t *testing.T) {
	a := services.NewAssistant(&mockLLM{}, map[models.Role]string{
		models.RoleAdmin: "You are the admin helper.",
	}, zap.NewNop())

	tests := []struct {
		role models.Role
		want string
	}{
		{
			role: models.RoleAdmin,
			want: "You are the admin helper. Provide clear, concise responses focused on educational context.",
		},
		{
			role: models.RoleLecturer,
			want: "You are an educational assistant helping with teaching and course management." +
				" Provide clear, concise responses focused on educational context.",
		},
		{
			role: models.Role("guest"),
			want: "You are a helpful study assistant supporting student learning needs." +
				" Provide clear, concise responses focused on educational context.",
		},
	}

	for _, tt := range tests {
		t.Run(string(tt.role), func(t *testing.T) {
			assert.Equal(t, tt.want, a.SystemPrompt(tt.role))
		})
	}
}

func TestAssistantAnswer(t *testing.T) {
	tests := []struct {
		name       string
		llm        *mockLLM
		context    map[string]string
		want       string
		wantPrompt string
	}{
		{
			name:       "Answer",
			llm:        &mockLLM{answer: "Recursion is..."},
			want:       "Recursion is...",
			wantPrompt: "What is recursion?",
		},
		{
			name:       "Context prefix",
			llm:        &mockLLM{answer: "ok"},
			context:    map[string]string{"course": "CS101", "topic": "recursion"},
			want:       "ok",
			wantPrompt: "Related to course: CS101. Specifically about: recursion. What is recursion?",
		},
		{
			name:       "Model failure",
			llm:        &mockLLM{err: errors.New("overloaded")},
			want:       services.FailedAnswer,
			wantPrompt: "What is recursion?",
		},
		{
			name:       "Blank answer",
			llm:        &mockLLM{answer: "  \n"},
			want:       services.EmptyAnswer,
			wantPrompt: "What is recursion?",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := services.NewAssistant(tt.llm, nil, zap.NewNop())

			got := a.Answer(t.Context(), "What is recursion?", models.RoleStudent, tt.context)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, []string{tt.wantPrompt}, tt.llm.prompts)
		})
	}
}
