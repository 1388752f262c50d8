package widget

import (
	"errors"
	"fmt"
	"io"

	"github.com/MegaGrindStone/lms-chatbot/internal/models"
)

// MessageList is the container rendered messages are appended to.
type MessageList interface {
	// Append renders msg as plain text at the end of the list. Implementations must not interpret markup
	// or control sequences inside msg.Text.
	Append(msg models.Message)
	ScrollToBottom()
}

// TextArea is the multi-line text input the user types queries into.
type TextArea interface {
	Value() string
	SetValue(v string)

	// SetHeight sets the visible height in rows, where zero resets it to the automatic height.
	SetHeight(rows int)
	// ContentHeight reports the height the current content needs.
	ContentHeight() int

	// OnSubmit registers the handler for the submit gesture, Enter without Shift.
	OnSubmit(fn func())
	// OnInput registers the handler for every content change.
	OnInput(fn func())
}

// Button is a control that can be disabled.
type Button interface {
	Clickable
	SetDisabled(disabled bool)
}

// Clickable is a control that reports clicks.
type Clickable interface {
	OnClick(fn func())
}

// Select is a single choice control.
type Select interface {
	Value() string
}

// Panel is an area whose visibility can be toggled.
type Panel interface {
	Visible() bool
	SetVisible(visible bool)
}

// FileInput is a file picker.
type FileInput interface {
	// Files returns the currently selected files, which may be none.
	Files() []File
	// Reset clears the selection.
	Reset()
	// OnChange registers the handler for selection changes.
	OnChange(fn func())
}

// File is a file chosen through a FileInput.
type File interface {
	Name() string
	Open() (io.ReadCloser, error)
}

// Field is a read-only value holder, such as a hidden form field.
type Field interface {
	Value() string
}

// Elements bundles the handles the host document provides to the widget. Every handle is required.
type Elements struct {
	Messages     MessageList
	Input        TextArea
	Send         Button
	Role         Select
	UploadButton Clickable
	UploadArea   Panel
	FileInput    FileInput
	CancelUpload Clickable
	CSRFToken    Field
}

// ErrMissingElement is returned when the host does not provide one of the required elements.
var ErrMissingElement = errors.New("missing element")

func (e Elements) validate() error {
	missing := func(name string) error {
		return fmt.Errorf("%w: %s", ErrMissingElement, name)
	}

	switch {
	case e.Messages == nil:
		return missing("chatMessages")
	case e.Input == nil:
		return missing("userInput")
	case e.Send == nil:
		return missing("sendMessage")
	case e.Role == nil:
		return missing("userRole")
	case e.UploadButton == nil:
		return missing("uploadButton")
	case e.UploadArea == nil:
		return missing("fileUploadArea")
	case e.FileInput == nil:
		return missing("pdfFile")
	case e.CancelUpload == nil:
		return missing("cancelUpload")
	case e.CSRFToken == nil:
		return missing("csrfmiddlewaretoken")
	}
	return nil
}
