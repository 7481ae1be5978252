package service

import (
	"context"

	"keyword-planner-go/internal/config"
	"keyword-planner-go/pkg/api"
	"keyword-planner-go/pkg/storage"
)

// ServiceFactory builds the keyword ideas backend for a loaded configuration.
type ServiceFactory func(ctx context.Context, cfg *config.Config) (api.IdeaService, error)

// WriterFactory opens the destination for result rows.
type WriterFactory func(path string) (storage.ResultWriter, error)

// closer is implemented by backends holding connections.
type closer interface {
	Close()
}
