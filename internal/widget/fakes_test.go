package widget_test

import (
	"context"
	"io"
	"strings"
	"sync/atomic"

	"github.com/MegaGrindStone/lms-chatbot/internal/models"
	"github.com/MegaGrindStone/lms-chatbot/internal/widget"
)

type fakeMessages struct {
	msgs    []models.Message
	scrolls int
}

type fakeTextArea struct {
	value   string
	heights []int

	onSubmit func()
	onInput  func()
}

type fakeButton struct {
	disabled bool
	onClick  func()
}

type fakeClickable struct {
	onClick func()
}

type fakeSelect string

type fakePanel struct {
	visible bool
}

type fakeFileInput struct {
	files    []widget.File
	resets   int
	onChange func()
}

type fakeFile struct {
	name    string
	content string
	openErr error
}

type fakeField string

type mockBackend struct {
	chat      func(ctx context.Context, query, role, token string) (string, error)
	summarize func(ctx context.Context, filename string, r io.Reader, token string) (string, error)

	chatCalls      atomic.Int32
	summarizeCalls atomic.Int32
}

func (m *fakeMessages) Append(msg models.Message) { m.msgs = append(m.msgs, msg) }
func (m *fakeMessages) ScrollToBottom()           { m.scrolls++ }

func (t *fakeTextArea) Value() string         { return t.value }
func (t *fakeTextArea) SetValue(v string)     { t.value = v }
func (t *fakeTextArea) SetHeight(rows int)    { t.heights = append(t.heights, rows) }
func (t *fakeTextArea) ContentHeight() int    { return strings.Count(t.value, "\n") + 1 }
func (t *fakeTextArea) OnSubmit(fn func())    { t.onSubmit = fn }
func (t *fakeTextArea) OnInput(fn func())     { t.onInput = fn }
func (b *fakeButton) SetDisabled(d bool)      { b.disabled = d }
func (b *fakeButton) OnClick(fn func())       { b.onClick = fn }
func (c *fakeClickable) OnClick(fn func())    { c.onClick = fn }
func (s fakeSelect) Value() string            { return string(s) }
func (p *fakePanel) Visible() bool            { return p.visible }
func (p *fakePanel) SetVisible(v bool)        { p.visible = v }
func (f *fakeFileInput) Files() []widget.File { return f.files }
func (f *fakeFileInput) OnChange(fn func())   { f.onChange = fn }
func (f fakeField) Value() string             { return string(f) }

func (f *fakeFileInput) Reset() {
	f.files = nil
	f.resets++
}

func (f fakeFile) Name() string { return f.name }

func (f fakeFile) Open() (io.ReadCloser, error) {
	if f.openErr != nil {
		return nil, f.openErr
	}
	return io.NopCloser(strings.NewReader(f.content)), nil
}

func (m *mockBackend) Chat(ctx context.Context, query, role, token string) (string, error) {
	m.chatCalls.Add(1)
	return m.chat(ctx, query, role, token)
}

func (m *mockBackend) Summarize(ctx context.Context, filename string, r io.Reader, token string) (string, error) {
	m.summarizeCalls.Add(1)
	return m.summarize(ctx, filename, r, token)
}

// eventLoop runs dispatched functions one at a time on the goroutine calling run.
type eventLoop struct {
	queue chan func()
	done  chan struct{}
}

func newEventLoop() *eventLoop {
	return &eventLoop{
		queue: make(chan func(), 64),
		done:  make(chan struct{}),
	}
}

func (l *eventLoop) run(ctx context.Context) {
	defer close(l.done)

	for {
		select {
		case fn := <-l.queue:
			fn()
		case <-ctx.Done():
			return
		}
	}
}

func (l *eventLoop) Dispatch(fn func()) {
	select {
	case l.queue <- fn:
	case <-l.done:
	}
}

// do dispatches fn and waits until it has run.
func (l *eventLoop) do(fn func()) {
	ran := make(chan struct{})
	l.Dispatch(func() {
		defer close(ran)
		fn()
	})

	select {
	case <-ran:
	case <-l.done:
	}
}
