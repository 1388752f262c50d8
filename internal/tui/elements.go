package tui

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/MegaGrindStone/lms-chatbot/internal/models"
	"github.com/MegaGrindStone/lms-chatbot/internal/widget"
	"github.com/charmbracelet/x/ansi"
)

const (
	minInputHeight = 1
	maxInputHeight = 8
)

type handlers []func()

func (h handlers) fire() {
	for _, fn := range h {
		fn()
	}
}

// Elements returns the element handles of m. The handles must only be used from the program's
// update loop.
func (m *Model) Elements() widget.Elements {
	return widget.Elements{
		Messages:     messageList{m},
		Input:        textArea{m},
		Send:         sendButton{m},
		Role:         roleSelect{m},
		UploadButton: clickable{&m.onUpload},
		UploadArea:   uploadPanel{m},
		FileInput:    fileInput{m},
		CancelUpload: clickable{&m.onCancel},
		CSRFToken:    tokenField(m.csrfToken),
	}
}

type messageList struct{ m *Model }

func (l messageList) Append(msg models.Message) {
	msg.Text = ansi.Strip(msg.Text)
	l.m.messages = append(l.m.messages, msg)
	l.m.refreshMessages()
}

func (l messageList) ScrollToBottom() {
	l.m.viewport.GotoBottom()
}

type textArea struct{ m *Model }

func (t textArea) Value() string {
	return t.m.textarea.Value()
}

func (t textArea) SetValue(v string) {
	t.m.textarea.SetValue(v)
}

func (t textArea) SetHeight(rows int) {
	rows = max(rows, minInputHeight)
	rows = min(rows, maxInputHeight)
	t.m.textarea.SetHeight(rows)
	t.m.layout()
}

// ContentHeight counts the rows the value occupies once long lines wrap at the input width.
func (t textArea) ContentHeight() int {
	width := max(t.m.textarea.Width(), 1)
	rows := 0
	for _, line := range strings.Split(t.m.textarea.Value(), "\n") {
		rows += max((ansi.StringWidth(line)+width-1)/width, 1)
	}
	return rows
}

func (t textArea) OnSubmit(fn func()) {
	t.m.onSubmit = append(t.m.onSubmit, fn)
}

func (t textArea) OnInput(fn func()) {
	t.m.onInput = append(t.m.onInput, fn)
}

type sendButton struct{ m *Model }

func (b sendButton) OnClick(fn func()) {
	b.m.onSend = append(b.m.onSend, fn)
}

func (b sendButton) SetDisabled(disabled bool) {
	b.m.sendDisabled = disabled
}

type clickable struct{ h *handlers }

func (c clickable) OnClick(fn func()) {
	*c.h = append(*c.h, fn)
}

type roleSelect struct{ m *Model }

func (s roleSelect) Value() string {
	return string(s.m.role())
}

type uploadPanel struct{ m *Model }

func (p uploadPanel) Visible() bool {
	return p.m.uploadVisible
}

func (p uploadPanel) SetVisible(visible bool) {
	if visible && !p.m.uploadVisible {
		p.m.pending = append(p.m.pending, p.m.filepicker.Init())
	}
	p.m.uploadVisible = visible
	p.m.notice = ""
	p.m.layout()
}

type fileInput struct{ m *Model }

func (f fileInput) Files() []widget.File {
	return f.m.selected
}

func (f fileInput) Reset() {
	f.m.selected = nil
}

func (f fileInput) OnChange(fn func()) {
	f.m.onFileChange = append(f.m.onFileChange, fn)
}

type localFile struct{ path string }

func (f localFile) Name() string {
	return filepath.Base(f.path)
}

func (f localFile) Open() (io.ReadCloser, error) {
	return os.Open(f.path)
}

type tokenField string

func (t tokenField) Value() string {
	return string(t)
}
