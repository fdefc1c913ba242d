package platform

import (
	"context"
	"errors"
	"path/filepath"
	"sync"

	"github.com/ziyyanmart/localstore/internal/logger"
)

// SavePrompt records one dialog presented through a MemoryEnvironment.
type SavePrompt struct {
	Title       string
	DefaultName string
}

// SaveAnswer is a scripted reply to the next save dialog.
type SaveAnswer struct {
	Path      string
	Cancelled bool
	Err       error
}

// MemoryEnvironment is an Environment with a fixed directory and scripted dialogs.
// It is useful for tests and headless runs where no UI is attached.
// With no scripted answer left, dialogs auto-confirm into the directory using the default name.
type MemoryEnvironment struct {
	mu      sync.Mutex
	dir     string
	dirErr  error
	answers []SaveAnswer
	prompts []SavePrompt
}

func NewMemoryEnvironment(dir string) *MemoryEnvironment {
	return &MemoryEnvironment{dir: dir}
}

// FailAppDataDir makes AppDataDir return err until it is called again with nil.
func (m *MemoryEnvironment) FailAppDataDir(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.dirErr = err
}

// QueueAnswers appends scripted replies, consumed in order.
func (m *MemoryEnvironment) QueueAnswers(answers ...SaveAnswer) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.answers = append(m.answers, answers...)
}

// Prompts returns the dialogs shown so far.
func (m *MemoryEnvironment) Prompts() []SavePrompt {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]SavePrompt, len(m.prompts))
	copy(out, m.prompts)
	return out
}

func (m *MemoryEnvironment) AppDataDir() (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.dirErr != nil {
		return "", m.dirErr
	}
	if m.dir == "" {
		return "", errors.New("memory environment has no directory")
	}
	return m.dir, nil
}

func (m *MemoryEnvironment) ShowSaveDialog(ctx context.Context, title, defaultName string) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.prompts = append(m.prompts, SavePrompt{Title: title, DefaultName: defaultName})
	logger.WithComponent("memory-env").Debugf("save dialog %q (default %q)", title, defaultName)

	if len(m.answers) == 0 {
		return filepath.Join(m.dir, defaultName), true, nil
	}

	answer := m.answers[0]
	m.answers = m.answers[1:]
	if answer.Err != nil {
		return "", false, answer.Err
	}
	if answer.Cancelled {
		return "", false, nil
	}
	return answer.Path, true, nil
}
