package service

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"fhemview/internal/ingest"
	"fhemview/internal/logger"
	"fhemview/internal/models"
	"fhemview/internal/projection"
	"fhemview/internal/snapshot"
)

// ErrNoSnapshot is returned when a projection is requested before the
// first snapshot has been ingested.
var ErrNoSnapshot = errors.New("no snapshot ingested yet")

// CatalogService ingests snapshots and serves projections of the current
// one. The model is published through an atomic pointer only after the
// builder has fully constructed it, so readers never observe a
// partially-built model and need no locking.
type CatalogService struct {
	source  snapshot.Source
	builder *ingest.Builder
	log     *logger.Logger

	current atomic.Pointer[models.Model]
}

func NewCatalogService(source snapshot.Source, builder *ingest.Builder, log *logger.Logger) *CatalogService {
	return &CatalogService{source: source, builder: builder, log: log}
}

// Refresh fetches a fresh raw snapshot, builds a model from it and
// publishes the result. The previous model stays in place on failure.
func (c *CatalogService) Refresh(ctx context.Context) error {
	records, err := c.source.Fetch(ctx)
	if err != nil {
		return err
	}
	m := c.builder.Build(records)
	c.current.Store(m)
	if c.log != nil {
		c.log.Infow("snapshot_refreshed", "rooms", m.NumRooms(), "sensors", m.NumSensors())
	}
	return nil
}

// Model returns the current snapshot model.
func (c *CatalogService) Model() (*models.Model, error) {
	m := c.current.Load()
	if m == nil {
		return nil, ErrNoSnapshot
	}
	return m, nil
}

// View projects the whole current model for the caller's permission set.
func (c *CatalogService) View(perms projection.PermissionSet) (*projection.View, error) {
	m, err := c.Model()
	if err != nil {
		return nil, err
	}
	return projection.Project(m, perms), nil
}

// Room projects a single room. The second return reports whether the room
// exists at all; an existing but fully elided room projects to nil.
func (c *CatalogService) Room(name string, perms projection.PermissionSet) (*projection.RoomView, bool, error) {
	m, err := c.Model()
	if err != nil {
		return nil, false, err
	}
	r, ok := m.Room(name)
	if !ok {
		return nil, false, nil
	}
	return projection.ProjectRoom(r, perms), true, nil
}

// Run refreshes the snapshot at the given interval until ctx is canceled.
// A failed refresh keeps the previous model and is retried next tick.
func (c *CatalogService) Run(ctx context.Context, tick time.Duration) {
	t := time.NewTicker(tick)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if err := c.Refresh(ctx); err != nil {
				if c.log != nil {
					c.log.Errorw("snapshot_refresh_failed", "err", err)
				}
			}
		}
	}
}
