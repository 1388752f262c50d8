package tui

import (
	"context"
	"errors"
	"fmt"

	"github.com/MegaGrindStone/lms-chatbot/internal/widget"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
)

type options struct {
	logger     *zap.Logger
	startDir   string
	programOpt []tea.ProgramOption
}

// Option configures Run.
type Option func(*options)

// WithLogger sets the logger of the widget controller.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithStartDir sets the directory the upload file picker opens in.
func WithStartDir(dir string) Option {
	return func(o *options) {
		o.startDir = dir
	}
}

// WithProgramOptions appends options to the Bubble Tea program.
func WithProgramOptions(opts ...tea.ProgramOption) Option {
	return func(o *options) {
		o.programOpt = append(o.programOpt, opts...)
	}
}

// ProgramDispatcher returns a dispatcher that runs functions on p's update loop. It must not be used
// from the update loop itself.
func ProgramDispatcher(p *tea.Program) widget.Dispatcher {
	return widget.DispatchFunc(func(fn func()) {
		p.Send(dispatchMsg(fn))
	})
}

// Run shows the chatbot widget in the terminal until the user quits or ctx is done.
func Run(ctx context.Context, backend widget.Backend, csrfToken string, opts ...Option) error {
	o := options{
		logger:   zap.NewNop(),
		startDir: ".",
	}
	for _, opt := range opts {
		opt(&o)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	m := NewModel(csrfToken, o.startDir)
	programOpts := append([]tea.ProgramOption{tea.WithContext(ctx), tea.WithAltScreen()}, o.programOpt...)
	p := tea.NewProgram(m, programOpts...)

	c, err := widget.NewController(m.Elements(), backend, ProgramDispatcher(p), widget.WithLogger(o.logger))
	if err != nil {
		return fmt.Errorf("error creating widget: %w", err)
	}
	c.Bind(ctx)

	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("error running terminal ui: %w", err)
	}
	return nil
}
