package models

// ChatRequest is the JSON body of a chat call.
type ChatRequest struct {
	Query string `json:"query"`
	Role  string `json:"role"`

	// Course and Topic are optional hints that are prefixed to the query.
	Course string `json:"course,omitempty"`
	Topic  string `json:"topic,omitempty"`
}

// ChatResponse is the JSON body answered by a successful chat call. Response is nil when the body has no
// response field, which the widget treats as a failure; an empty response is shown as is.
type ChatResponse struct {
	Response *string `json:"response"`
}

// SummaryResponse is the JSON body answered by a summarize call. An empty Summary is treated as absent.
type SummaryResponse struct {
	Summary string `json:"summary,omitempty"`
}

// ErrorResponse is the JSON body of any failed API call.
type ErrorResponse struct {
	Error string `json:"error"`
}
