package models

// Message is a chat message rendered by the widget. It is never persisted.
type Message struct {
	Text   string
	Sender Sender
}

// Sender tags who a rendered message comes from.
type Sender string

const (
	SenderUser Sender = "user"
	SenderBot  Sender = "bot"
)

// ClassName returns the class a rendered message node carries, e.g. "message bot-message".
func (s Sender) ClassName() string {
	return "message " + string(s) + "-message"
}
