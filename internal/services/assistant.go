package services

import (
	"context"
	"strings"

	"github.com/MegaGrindStone/lms-chatbot/internal/models"
	"go.uber.org/zap"
)

// Assistant answers chat queries with an LLM, framing each query with a system prompt tailored to the
// role the user chats as.
type Assistant struct {
	llm         LLM
	rolePrompts map[models.Role]string

	logger *zap.Logger
}

// Answers returned in place of a model answer.
const (
	FailedAnswer = "I apologize, but I encountered an error processing your request. Please try again."
	EmptyAnswer  = "I apologize, but I couldn't generate a proper response. Please try again."
)

const promptSuffix = " Provide clear, concise responses focused on educational context."

// DefaultRolePrompts are the role prompts used when none are configured.
var DefaultRolePrompts = map[models.Role]string{
	models.RoleAdmin:    "You are an administrative assistant helping with LMS management tasks.",
	models.RoleStudent:  "You are a helpful study assistant supporting student learning needs.",
	models.RoleLecturer: "You are an educational assistant helping with teaching and course management.",
}

// NewAssistant creates an Assistant backed by llm. Roles missing from rolePrompts use DefaultRolePrompts.
func NewAssistant(llm LLM, rolePrompts map[models.Role]string, logger *zap.Logger) Assistant {
	prompts := make(map[models.Role]string, len(DefaultRolePrompts))
	for role, prompt := range DefaultRolePrompts {
		prompts[role] = prompt
	}
	for role, prompt := range rolePrompts {
		if prompt != "" {
			prompts[role] = prompt
		}
	}

	return Assistant{
		llm:         llm,
		rolePrompts: prompts,
		logger:      logger.With(zap.String("module", "assistant")),
	}
}

// SystemPrompt returns the system prompt for role. Unknown roles get the student prompt.
func (a Assistant) SystemPrompt(role models.Role) string {
	prompt, ok := a.rolePrompts[role]
	if !ok {
		prompt = a.rolePrompts[models.RoleStudent]
	}
	return prompt + promptSuffix
}

// Answer answers query as role. The optional context keys "course" and "topic" are prefixed to the
// query. Answer never fails: model errors yield FailedAnswer and empty answers yield EmptyAnswer.
func (a Assistant) Answer(ctx context.Context, query string, role models.Role, userContext map[string]string) string {
	prompt := contextPrefix(userContext) + query

	answer, err := a.llm.Complete(ctx, a.SystemPrompt(role), prompt)
	if err != nil {
		a.logger.Error("Error processing query", zap.String("role", string(role)), zap.Error(err))
		return FailedAnswer
	}
	if strings.TrimSpace(answer) == "" {
		return EmptyAnswer
	}
	return answer
}

func contextPrefix(userContext map[string]string) string {
	var sb strings.Builder
	if course := userContext["course"]; course != "" {
		sb.WriteString("Related to course: " + course + ". ")
	}
	if topic := userContext["topic"]; topic != "" {
		sb.WriteString("Specifically about: " + topic + ". ")
	}
	return sb.String()
}
