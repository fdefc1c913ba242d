// Package backup writes a user-confirmed copy of the database to a chosen file.
package backup

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/containerd/errdefs"
	"github.com/sirupsen/logrus"

	"github.com/ziyyanmart/localstore/internal/apperr"
	"github.com/ziyyanmart/localstore/internal/logger"
)

const (
	DefaultProduct       = "ziyyanmart"
	DefaultDialogTitle   = "Simpan Backup Data"
	DefaultCancelMessage = "Proses penyimpanan backup dibatalkan."
)

// SaveDialog asks the user for a destination file. platform.Environment satisfies it.
type SaveDialog interface {
	ShowSaveDialog(ctx context.Context, title, defaultName string) (path string, ok bool, err error)
}

// Exporter implements the save_backup operation.
type Exporter struct {
	dialog        SaveDialog
	product       string
	title         string
	cancelMessage string
	now           func() time.Time
	logger        *logrus.Entry
}

type Option func(*Exporter)

func WithProduct(product string) Option {
	return func(e *Exporter) {
		if product != "" {
			e.product = product
		}
	}
}

func WithDialogTitle(title string) Option {
	return func(e *Exporter) {
		if title != "" {
			e.title = title
		}
	}
}

func WithCancelMessage(message string) Option {
	return func(e *Exporter) {
		if message != "" {
			e.cancelMessage = message
		}
	}
}

// WithClock replaces time.Now; the default file name uses the clock's local date.
func WithClock(now func() time.Time) Option {
	return func(e *Exporter) {
		if now != nil {
			e.now = now
		}
	}
}

func NewExporter(dialog SaveDialog, opts ...Option) (*Exporter, error) {
	if dialog == nil {
		return nil, errors.New("save dialog is required")
	}

	e := &Exporter{
		dialog:        dialog,
		product:       DefaultProduct,
		title:         DefaultDialogTitle,
		cancelMessage: DefaultCancelMessage,
		now:           time.Now,
		logger:        logger.WithComponent("backup"),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// DefaultFileName returns "<product>_backup_<YYYY-MM-DD>.json" for t's date.
func (e *Exporter) DefaultFileName(t time.Time) string {
	return fmt.Sprintf("%s_backup_%s.json", e.product, t.Format("2006-01-02"))
}

// Export prompts for a destination and writes payload to it unchanged, replacing
// any existing file. It waits as long as the user takes; a dismissed dialog, a
// done ctx or a shut down dialog service all fail with a user_cancelled error and
// write nothing.
func (e *Exporter) Export(ctx context.Context, payload string) (string, error) {
	defaultName := e.DefaultFileName(e.now())

	path, ok, err := e.dialog.ShowSaveDialog(ctx, e.title, defaultName)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) || errdefs.IsUnavailable(err) {
			e.logger.Infof("backup dialog unavailable, treating as cancelled: %v", err)
			return "", apperr.Cancelled(e.cancelMessage)
		}
		return "", apperr.IO("show save dialog", "", err)
	}
	if !ok || path == "" {
		e.logger.Info("backup cancelled by user")
		return "", apperr.Cancelled(e.cancelMessage)
	}

	if err := os.WriteFile(path, []byte(payload), 0o644); err != nil {
		return "", apperr.IO("write backup", path, err)
	}

	e.logger.Infof("backup written to %s (%d bytes)", path, len(payload))
	return path, nil
}
