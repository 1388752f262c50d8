// Package tui hosts the chatbot widget in a terminal. Model implements every element the widget
// controller needs with Bubble Tea components, and the Bubble Tea update loop is the widget's event
// loop.
package tui

import (
	"fmt"
	"strings"

	"github.com/MegaGrindStone/lms-chatbot/internal/models"
	"github.com/MegaGrindStone/lms-chatbot/internal/widget"
	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const (
	panelHeight  = 10
	statusHeight = 1
)

// dispatchMsg carries a function dispatched to the update loop.
type dispatchMsg func()

// Model is the Bubble Tea model of the terminal host. It is used through a pointer so that the element
// handles returned by Elements stay bound to the running model.
type Model struct {
	styles Styles

	viewport   viewport.Model
	textarea   textarea.Model
	filepicker filepicker.Model

	width  int
	height int

	messages      []models.Message
	roleIndex     int
	sendDisabled  bool
	uploadVisible bool
	selected      []widget.File
	notice        string
	csrfToken     string

	onSubmit     handlers
	onInput      handlers
	onSend       handlers
	onUpload     handlers
	onCancel     handlers
	onFileChange handlers

	pending []tea.Cmd
}

// NewModel creates a Model. csrfToken is the token of the host page, startDir the directory the
// upload file picker opens in.
func NewModel(csrfToken, startDir string) *Model {
	ta := textarea.New()
	ta.Placeholder = "Ask me anything... (Enter to send, Alt+Enter for newline)"
	ta.ShowLineNumbers = false
	ta.Prompt = "│ "
	ta.CharLimit = 0
	ta.MaxHeight = maxInputHeight
	ta.KeyMap.InsertNewline.SetEnabled(false)
	ta.SetHeight(minInputHeight)
	ta.Focus()

	fp := filepicker.New()
	fp.AllowedTypes = []string{".pdf"}
	fp.CurrentDirectory = startDir
	fp.AutoHeight = false
	fp.Height = panelHeight - 4

	m := &Model{
		styles:     DefaultStyles(),
		viewport:   viewport.New(80, 20),
		textarea:   ta,
		filepicker: fp,
		width:      80,
		height:     24,
		roleIndex:  defaultRoleIndex(),
		csrfToken:  csrfToken,
	}
	m.layout()
	m.refreshMessages()

	return m
}

func defaultRoleIndex() int {
	for i, role := range models.Roles {
		if role == models.DefaultPreference.DefaultRole {
			return i
		}
	}
	return 0
}

func (m *Model) role() models.Role {
	return models.Roles[m.roleIndex]
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return textarea.Blink
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case dispatchMsg:
		msg()

	case tea.WindowSizeMsg:
		m.width = max(msg.Width, 20)
		m.height = max(msg.Height, 8)
		m.layout()
		m.refreshMessages()

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if m.uploadVisible {
			cmds = append(cmds, m.updatePanel(msg))
			break
		}
		cmds = append(cmds, m.updateChat(msg))

	case tea.MouseMsg:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		cmds = append(cmds, cmd)

	default:
		var cmd tea.Cmd
		m.filepicker, cmd = m.filepicker.Update(msg)
		cmds = append(cmds, cmd)
		m.textarea, cmd = m.textarea.Update(msg)
		cmds = append(cmds, cmd)
	}

	cmds = append(cmds, m.pending...)
	m.pending = nil

	return m, tea.Batch(cmds...)
}

func (m *Model) updatePanel(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc":
		m.onCancel.fire()
		return nil
	case "ctrl+u":
		m.onUpload.fire()
		return nil
	}

	var cmd tea.Cmd
	m.filepicker, cmd = m.filepicker.Update(msg)

	if ok, path := m.filepicker.DidSelectFile(msg); ok {
		m.selectFile(path)
		return cmd
	}
	if ok, path := m.filepicker.DidSelectDisabledFile(msg); ok {
		m.notice = fmt.Sprintf("%s is not a PDF file.", path)
	}
	return cmd
}

func (m *Model) selectFile(path string) {
	m.selected = []widget.File{localFile{path: path}}
	m.onFileChange.fire()
}

func (m *Model) updateChat(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "enter":
		m.onSubmit.fire()
		return nil
	case "alt+enter", "ctrl+j":
		m.textarea.InsertString("\n")
		m.onInput.fire()
		return nil
	case "ctrl+s":
		if !m.sendDisabled {
			m.onSend.fire()
		}
		return nil
	case "ctrl+u":
		m.onUpload.fire()
		return nil
	case "tab":
		m.roleIndex = (m.roleIndex + 1) % len(models.Roles)
		return nil
	case "pgup", "pgdown":
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return cmd
	}

	before := m.textarea.Value()
	var cmd tea.Cmd
	m.textarea, cmd = m.textarea.Update(msg)
	if m.textarea.Value() != before {
		m.onInput.fire()
	}
	return cmd
}

func (m *Model) layout() {
	m.textarea.SetWidth(m.width)

	reserved := m.textarea.Height() + 1 + statusHeight
	if m.uploadVisible {
		reserved += panelHeight
	}
	m.viewport.Width = m.width
	m.viewport.Height = max(m.height-reserved, 1)
}

func (m *Model) refreshMessages() {
	if len(m.messages) == 0 {
		m.viewport.SetContent(m.styles.Status.Render("Hello! How can I help you today?"))
		return
	}

	width := max(m.width-2, 10)
	var b strings.Builder
	for i, msg := range m.messages {
		if i > 0 {
			b.WriteString("\n")
		}
		label, body := m.styles.BotLabel.Render("Assistant"), m.styles.BotMessage
		if msg.Sender == models.SenderUser {
			label, body = m.styles.UserLabel.Render("You"), m.styles.UserMessage
		}
		b.WriteString(label)
		b.WriteString("\n")
		b.WriteString(body.Width(width).Render(msg.Text))
		b.WriteString("\n")
	}
	m.viewport.SetContent(b.String())
}

// View implements tea.Model.
func (m *Model) View() string {
	sections := []string{m.viewport.View()}

	if m.uploadVisible {
		panel := lipgloss.JoinVertical(lipgloss.Left,
			m.styles.PanelTitle.Render("Upload a PDF to summarize (esc to cancel)"),
			m.filepicker.View(),
		)
		if m.notice != "" {
			panel = lipgloss.JoinVertical(lipgloss.Left, panel, m.styles.Notice.Render(m.notice))
		}
		sections = append(sections, m.styles.Panel.Width(max(m.width-2, 10)).Render(panel))
	}

	sections = append(sections, m.statusLine(), m.styles.Input.Render(m.textarea.View()))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m *Model) statusLine() string {
	status := m.styles.Status.Render(fmt.Sprintf("Role: %s (tab)  ctrl+s send  ctrl+u upload  ctrl+c quit",
		m.role().Label()))
	if m.sendDisabled {
		status += "  " + m.styles.Busy.Render("Sending...")
	}
	return status
}
