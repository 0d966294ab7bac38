// Package board holds the presentation state of a loaded subtask board and
// renders it for the terminal.
package board

import (
	"context"
	"errors"
	"log/slog"

	"github.com/dt-pm-tools/jsm-panel/internal/aggregate"
)

// State is the lifecycle of a board load.
type State int

const (
	Loading State = iota
	Ready
	Failed
)

func (s State) String() string {
	switch s {
	case Loading:
		return "loading"
	case Ready:
		return "ready"
	case Failed:
		return "error"
	}
	return "unknown"
}

// Loader collects the board for a root issue; aggregate.Strategy satisfies it.
type Loader interface {
	Collect(ctx context.Context, rootKey string) (*aggregate.Board, error)
}

var errNotLoaded = errors.New("board not loaded")

// Model is one board: Loading until the first Load returns, then Ready or
// Failed. Every successful mutation reloads it.
type Model struct {
	loader  Loader
	rootKey string

	state State
	board *aggregate.Board
	err   error
}

// NewModel returns a Model in the Loading state.
func NewModel(loader Loader, rootKey string) *Model {
	return &Model{loader: loader, rootKey: rootKey, state: Loading}
}

// Load fetches the board. A failure keeps the previous board out of view.
func (m *Model) Load(ctx context.Context) error {
	m.state = Loading
	board, err := m.loader.Collect(ctx, m.rootKey)
	if err != nil {
		m.state, m.board, m.err = Failed, nil, err
		return err
	}
	m.state, m.board, m.err = Ready, board, nil
	return nil
}

// Apply runs a mutating action and reloads the board when it succeeds. A
// failed action leaves the board as it was.
func (m *Model) Apply(ctx context.Context, action func(context.Context) error) error {
	if err := action(ctx); err != nil {
		return err
	}
	slog.DebugContext(ctx, "action applied, reloading board", "root", m.rootKey)
	return m.Load(ctx)
}

func (m *Model) State() State { return m.state }

func (m *Model) Err() error { return m.err }

// Board returns the loaded board, or an error outside the Ready state.
func (m *Model) Board() (*aggregate.Board, error) {
	switch m.state {
	case Ready:
		return m.board, nil
	case Failed:
		return nil, m.err
	}
	return nil, errNotLoaded
}
