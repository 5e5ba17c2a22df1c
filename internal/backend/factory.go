// Package backend opens the key-value store selected by DATA_BACKEND.
package backend

import (
	"context"
	"fmt"
	"log/slog"

	"trackly/internal/storage"
)

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *slog.Logger
}

func NewFactory(logger *slog.Logger) Factory {
	if logger == nil {
		logger = slog.Default()
	}
	return &DefaultFactory{logger: logger}
}

// CreateBackend implements Factory.CreateBackend
func (f *DefaultFactory) CreateBackend(_ context.Context, config Config) (*BackendResult, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	switch config.Type {
	case MemoryBackend:
		f.logger.Info("Initialized memory backend")
		kv := storage.NewMemoryKV()
		return &BackendResult{KV: kv, Cleanup: kv.Close}, nil

	case FileBackend:
		kv, err := storage.NewFileKV(config.DataFilePath)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize file backend: %w", err)
		}
		f.logger.Info("Initialized file backend", "path", config.DataFilePath)
		return &BackendResult{KV: kv, Cleanup: kv.Close}, nil

	case SQLiteBackend:
		kv, err := storage.NewSQLiteKV(config.SQLiteDBPath)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize SQLite backend: %w", err)
		}
		f.logger.Info("Initialized SQLite backend", "db_path", config.SQLiteDBPath)
		return &BackendResult{KV: kv, Cleanup: kv.Close}, nil
	}

	return nil, fmt.Errorf("unsupported backend type: %s", config.Type)
}
