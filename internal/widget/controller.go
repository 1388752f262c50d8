// Package widget implements the chatbot widget controller. The controller owns the element handles of
// its host document and the widget state, binds the element events, renders messages and runs the two
// asynchronous operations: sending a chat query and summarizing an uploaded file.
//
// Every method except Wait must be called on the host's event loop. Network calls run on their own
// goroutines and their completions are dispatched back to the loop.
package widget

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/MegaGrindStone/lms-chatbot/internal/client"
	"github.com/MegaGrindStone/lms-chatbot/internal/models"
	"go.uber.org/zap"
)

// Backend is the remote collaborator of the widget.
type Backend interface {
	Chat(ctx context.Context, query, role, csrfToken string) (string, error)
	Summarize(ctx context.Context, filename string, r io.Reader, csrfToken string) (string, error)
}

// Controller is the widget controller. A host creates one per page.
type Controller struct {
	el      Elements
	backend Backend
	loop    Dispatcher
	logger  *zap.Logger

	processing bool

	inflight sync.WaitGroup
}

// Option configures a Controller.
type Option func(*Controller)

// Fixed texts shown to the user.
const (
	ChatErrorText     = "Sorry, there was an error processing your request."
	SummaryFailedText = "Sorry, I could not process the PDF file."
	UploadErrorText   = "Error processing the PDF file."
)

// WithLogger sets the logger failures are traced to.
func WithLogger(l *zap.Logger) Option {
	return func(c *Controller) {
		c.logger = l
	}
}

// NewController creates a Controller over the elements el. It returns an error wrapping
// ErrMissingElement if el lacks a handle.
func NewController(el Elements, backend Backend, loop Dispatcher, opts ...Option) (*Controller, error) {
	if err := el.validate(); err != nil {
		return nil, err
	}
	if backend == nil {
		return nil, errors.New("backend is required")
	}
	if loop == nil {
		return nil, errors.New("dispatcher is required")
	}

	c := &Controller{
		el:      el,
		backend: backend,
		loop:    loop,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.With(zap.String("module", "widget"))

	return c, nil
}

// Bind registers the controller's handlers on the elements. The operations started by the handlers run
// under ctx.
func (c *Controller) Bind(ctx context.Context) {
	send := func() { c.SendMessage(ctx) }
	c.el.Send.OnClick(send)
	c.el.Input.OnSubmit(send)

	c.el.UploadButton.OnClick(c.ToggleFileUpload)
	c.el.CancelUpload.OnClick(c.ToggleFileUpload)
	c.el.FileInput.OnChange(func() { c.HandleFileUpload(ctx) })

	c.el.Input.OnInput(c.AutoResizeTextarea)
}

// Processing reports whether a chat query is in flight.
func (c *Controller) Processing() bool {
	return c.processing
}

// Wait blocks until every started operation has completed on the event loop. It must not be called
// from the event loop itself, and only returns if the dispatcher runs every completion: completions
// dropped by a stopped loop leave Wait blocked.
func (c *Controller) Wait() {
	c.inflight.Wait()
}

// SendMessage sends the input text as the selected role. It does nothing while a query is in flight or
// when the input is blank.
func (c *Controller) SendMessage(ctx context.Context) {
	message := strings.TrimSpace(c.el.Input.Value())
	if c.processing || message == "" {
		return
	}
	role := c.el.Role.Value()

	c.AddMessage(message, models.SenderUser)
	c.el.Input.SetValue("")
	c.AutoResizeTextarea()

	c.processing = true
	c.el.Send.SetDisabled(true)

	token := c.CSRFToken()

	c.inflight.Add(1)
	go func() {
		response, err := c.backend.Chat(ctx, message, role, token)

		c.loop.Dispatch(func() {
			defer c.inflight.Done()
			defer func() {
				c.processing = false
				c.el.Send.SetDisabled(false)
			}()

			if err != nil {
				c.logger.Debug("Chat failed", zap.String("role", role), zap.Error(err))
				c.AddMessage(ChatErrorText, models.SenderBot)
				return
			}
			c.AddMessage(response, models.SenderBot)
		})
	}()
}

// HandleFileUpload summarizes the first selected file. It does nothing when no file is selected. Once
// the upload completes, whatever the outcome, the upload panel is closed and the file input reset.
func (c *Controller) HandleFileUpload(ctx context.Context) {
	files := c.el.FileInput.Files()
	if len(files) == 0 {
		return
	}
	file := files[0]
	name := file.Name()

	token := c.CSRFToken()

	c.inflight.Add(1)
	go func() {
		summary, err := c.summarize(ctx, file, name, token)

		c.loop.Dispatch(func() {
			defer c.inflight.Done()
			defer func() {
				c.el.UploadArea.SetVisible(false)
				c.el.FileInput.Reset()
			}()

			switch {
			case errors.Is(err, client.ErrNoSummary):
				c.AddMessage(SummaryFailedText, models.SenderBot)
			case err != nil:
				c.logger.Debug("Summarize failed", zap.String("filename", name), zap.Error(err))
				c.AddMessage(UploadErrorText, models.SenderBot)
			default:
				c.AddMessage(fmt.Sprintf("Summary of %s:", name), models.SenderBot)
				c.AddMessage(summary, models.SenderBot)
			}
		})
	}()
}

func (c *Controller) summarize(ctx context.Context, file File, name, token string) (string, error) {
	rc, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("error opening file: %w", err)
	}
	defer rc.Close()

	return c.backend.Summarize(ctx, name, rc, token)
}

// AddMessage renders text as a message from sender and scrolls the message list to its bottom.
func (c *Controller) AddMessage(text string, sender models.Sender) {
	c.el.Messages.Append(models.Message{Text: text, Sender: sender})
	c.el.Messages.ScrollToBottom()
}

// ToggleFileUpload shows the upload panel if it is hidden and hides it otherwise.
func (c *Controller) ToggleFileUpload() {
	c.el.UploadArea.SetVisible(!c.el.UploadArea.Visible())
}

// AutoResizeTextarea grows or shrinks the input to fit its content.
func (c *Controller) AutoResizeTextarea() {
	c.el.Input.SetHeight(0)
	c.el.Input.SetHeight(c.el.Input.ContentHeight())
}

// CSRFToken returns the anti-forgery token of the host document.
func (c *Controller) CSRFToken() string {
	return c.el.CSRFToken.Value()
}
