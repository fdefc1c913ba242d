package platform

import "context"

// Environment is the narrow host capability the persistence layer depends on.
// DesktopEnvironment is the real implementation, MemoryEnvironment the fake.
type Environment interface {
	// AppDataDir returns the absolute per-user application-data directory.
	// It must not touch the filesystem.
	AppDataDir() (string, error)
	// ShowSaveDialog asks the user for a destination and blocks until they answer.
	// ok is false when the user cancelled or the window went away.
	ShowSaveDialog(ctx context.Context, title, defaultName string) (path string, ok bool, err error)
}
