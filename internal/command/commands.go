// Package command implements the operations the UI invokes by name.
package command

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/containerd/errdefs"
	"github.com/sirupsen/logrus"

	"github.com/ziyyanmart/localstore/internal/apperr"
	"github.com/ziyyanmart/localstore/internal/events"
	"github.com/ziyyanmart/localstore/internal/logger"
	"github.com/ziyyanmart/localstore/internal/metrics"
	"github.com/ziyyanmart/localstore/internal/repository"
)

// Command names as invoked by the UI.
const (
	GetAppSettings  = "get_app_settings"
	SaveAppSettings = "save_app_settings"
	GetDatabase     = "get_database"
	SaveDatabase    = "save_database"
	SaveBackup      = "save_backup"
)

// Names lists every invocable command.
func Names() []string {
	return []string{GetAppSettings, SaveAppSettings, GetDatabase, SaveDatabase, SaveBackup}
}

// BackupExporter is satisfied by backup.Exporter.
type BackupExporter interface {
	Export(ctx context.Context, payload string) (string, error)
}

// Publisher is satisfied by events.Hub.
type Publisher interface {
	Publish(eventType string, payload any)
}

// Document state reported alongside load results.
const (
	StateAbsent  = "absent"
	StatePresent = "present"
)

// Result is the JSON result of a command. State is set for loads only.
type Result struct {
	Value json.RawMessage
	State string
}

// StorageInfo describes where the slot files live.
type StorageInfo struct {
	Dir   string            `json:"dir"`
	Files map[string]string `json:"files"`
}

// Commands binds the command surface to a document store and a backup exporter.
type Commands struct {
	store     repository.Repository
	exporter  BackupExporter
	metrics   *metrics.Metrics
	publisher Publisher
	logger    *logrus.Entry
}

// New creates the command surface. m and publisher may be nil.
func New(store repository.Repository, exporter BackupExporter, m *metrics.Metrics, publisher Publisher) (*Commands, error) {
	if store == nil {
		return nil, errors.New("document store is required")
	}
	if exporter == nil {
		return nil, errors.New("backup exporter is required")
	}
	return &Commands{
		store:     store,
		exporter:  exporter,
		metrics:   m,
		publisher: publisher,
		logger:    logger.WithComponent("command"),
	}, nil
}

func (c *Commands) GetAppSettings(ctx context.Context) (repository.Document, error) {
	return c.load(ctx, GetAppSettings, repository.SlotSettings)
}

func (c *Commands) SaveAppSettings(ctx context.Context, settings json.RawMessage) error {
	return c.save(ctx, SaveAppSettings, repository.SlotSettings, settings)
}

func (c *Commands) GetDatabase(ctx context.Context) (repository.Document, error) {
	return c.load(ctx, GetDatabase, repository.SlotDatabase)
}

func (c *Commands) SaveDatabase(ctx context.Context, data json.RawMessage) error {
	return c.save(ctx, SaveDatabase, repository.SlotDatabase, data)
}

// SaveBackup returns the path the user chose.
func (c *Commands) SaveBackup(ctx context.Context, data string) (string, error) {
	start := time.Now()
	path, err := c.exporter.Export(ctx, data)
	c.finish(SaveBackup, start, err)
	return path, err
}

// Storage reports the resolved data directory and slot file paths.
func (c *Commands) Storage() (StorageInfo, error) {
	dir, err := c.store.Dir()
	if err != nil {
		return StorageInfo{}, err
	}
	info := StorageInfo{Dir: dir, Files: map[string]string{}}
	for _, slot := range repository.Slots() {
		path, err := c.store.Path(slot)
		if err != nil {
			return StorageInfo{}, err
		}
		info.Files[slot.String()] = path
	}
	return info, nil
}

// Invoke runs a command by name with its JSON argument object. Unknown names fail
// with errdefs.ErrNotFound and malformed arguments with errdefs.ErrInvalidArgument.
func (c *Commands) Invoke(ctx context.Context, name string, args json.RawMessage) (Result, error) {
	switch name {
	case GetAppSettings, GetDatabase:
		var doc repository.Document
		var err error
		if name == GetAppSettings {
			doc, err = c.GetAppSettings(ctx)
		} else {
			doc, err = c.GetDatabase(ctx)
		}
		if err != nil {
			return Result{}, err
		}
		state := StatePresent
		if doc.IsAbsent() {
			state = StateAbsent
		}
		return Result{Value: doc.JSON(), State: state}, nil

	case SaveAppSettings:
		value, err := argument(args, "settings")
		if err != nil {
			return Result{}, err
		}
		return Result{Value: json.RawMessage("null")}, c.SaveAppSettings(ctx, value)

	case SaveDatabase:
		value, err := argument(args, "data")
		if err != nil {
			return Result{}, err
		}
		return Result{Value: json.RawMessage("null")}, c.SaveDatabase(ctx, value)

	case SaveBackup:
		raw, err := argument(args, "data")
		if err != nil {
			return Result{}, err
		}
		var payload string
		if err := json.Unmarshal(raw, &payload); err != nil {
			return Result{}, fmt.Errorf("argument data must be a string: %w", errdefs.ErrInvalidArgument)
		}
		path, err := c.SaveBackup(ctx, payload)
		if err != nil {
			return Result{}, err
		}
		encoded, err := json.Marshal(path)
		if err != nil {
			return Result{}, apperr.Serialization(err)
		}
		return Result{Value: encoded}, nil
	}

	return Result{}, fmt.Errorf("command %q: %w", name, errdefs.ErrNotFound)
}

// argument extracts a required key from the invoke argument object.
func argument(args json.RawMessage, key string) (json.RawMessage, error) {
	var object map[string]json.RawMessage
	if len(args) == 0 || json.Unmarshal(args, &object) != nil || object == nil {
		return nil, fmt.Errorf("arguments must be a JSON object: %w", errdefs.ErrInvalidArgument)
	}
	value, ok := object[key]
	if !ok {
		return nil, fmt.Errorf("missing required key %s: %w", key, errdefs.ErrInvalidArgument)
	}
	return value, nil
}

func (c *Commands) load(ctx context.Context, op string, slot repository.Slot) (repository.Document, error) {
	start := time.Now()
	doc, err := c.store.Load(ctx, slot)
	c.finish(op, start, err)
	return doc, err
}

func (c *Commands) save(ctx context.Context, op string, slot repository.Slot, value json.RawMessage) error {
	start := time.Now()
	err := c.store.Save(ctx, slot, value)
	c.finish(op, start, err)
	if err == nil && c.publisher != nil {
		c.publisher.Publish(events.DocumentSaved, map[string]string{"slot": slot.String()})
	}
	return err
}

func (c *Commands) finish(op string, start time.Time, err error) {
	c.metrics.ObserveOperation(op, start, err)

	entry := c.logger.WithField("operation", op).WithField("duration", time.Since(start))
	switch {
	case err == nil:
		entry.Debug("ok")
	case apperr.IsCancelled(err):
		entry.Info("cancelled by user")
	default:
		entry.Errorf("failed: %v", err)
	}
}
