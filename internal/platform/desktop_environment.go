package platform

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ziyyanmart/localstore/internal/logger"
)

// Prompter presents a save dialog on behalf of the environment.
// dialog.Broker implements it by handing the request to the UI.
type Prompter interface {
	PromptSave(ctx context.Context, title, defaultName string) (string, bool, error)
}

// DesktopEnvironment resolves the per-user config directory of the current OS
// account and delegates dialogs to the UI through a Prompter.
//
//   - Linux:   $XDG_CONFIG_HOME/<identifier> or ~/.config/<identifier>
//   - macOS:   ~/Library/Application Support/<identifier>
//   - Windows: %AppData%\<identifier>
type DesktopEnvironment struct {
	identifier    string
	dirOverride   string
	prompter      Prompter
	userConfigDir func() (string, error)
}

func NewDesktopEnvironment(identifier, dirOverride string, prompter Prompter) (*DesktopEnvironment, error) {
	if identifier == "" {
		return nil, errors.New("application identifier is required")
	}
	if prompter == nil {
		return nil, errors.New("prompter is nil")
	}
	return &DesktopEnvironment{
		identifier:    identifier,
		dirOverride:   dirOverride,
		prompter:      prompter,
		userConfigDir: os.UserConfigDir,
	}, nil
}

// AppDataDir never falls back to another location: if the OS cannot report a
// config directory the error is returned.
func (d *DesktopEnvironment) AppDataDir() (string, error) {
	if d.dirOverride != "" {
		return filepath.Abs(d.dirOverride)
	}

	base, err := d.userConfigDir()
	if err != nil {
		return "", fmt.Errorf("determine user config dir: %w", err)
	}
	if base == "" {
		return "", errors.New("determine user config dir: empty path")
	}
	return filepath.Join(base, d.identifier), nil
}

func (d *DesktopEnvironment) ShowSaveDialog(ctx context.Context, title, defaultName string) (string, bool, error) {
	logger.WithComponent("platform").Debugf("requesting save dialog %q (default %q)", title, defaultName)
	return d.prompter.PromptSave(ctx, title, defaultName)
}
