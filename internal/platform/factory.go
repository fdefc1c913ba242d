package platform

import (
	"fmt"

	"github.com/ziyyanmart/localstore/internal/config"
)

// NewEnvironmentFromConfig creates an Environment based on misc.environment.
// "memory" uses data.dir with auto-confirming dialogs; "desktop" (default) resolves
// the OS config directory and routes dialogs through the prompter.
func NewEnvironmentFromConfig(cfg *config.Config, prompter Prompter) (Environment, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is nil")
	}
	switch cfg.Misc.Environment {
	case config.EnvironmentMemory:
		return NewMemoryEnvironment(cfg.Data.Dir), nil
	case config.EnvironmentDesktop, "":
		env, err := NewDesktopEnvironment(cfg.Data.Identifier, cfg.Data.Dir, prompter)
		if err != nil {
			return nil, err
		}
		return env, nil
	default:
		return nil, fmt.Errorf("unknown environment: %s (supported: %s, %s)",
			cfg.Misc.Environment, config.EnvironmentDesktop, config.EnvironmentMemory)
	}
}
