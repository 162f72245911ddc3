package service

import (
	"context"
	"time"

	"fhemview/internal/ingest"
	"fhemview/internal/logger"
	"fhemview/internal/projection"
	"fhemview/internal/repository"
	"fhemview/internal/rules"
	"fhemview/internal/snapshot"
)

// Authorization handles accounts and bearer tokens. Tokens carry the
// account's granted permission tags so a request can be projected without
// touching the user store again.
type Authorization interface {
	SignUp(username, password string, permissions []string) (int, error)
	GenerateToken(username, password string) (string, error)
	ParseToken(accessToken string) (int, []string, error)
}

// Catalog owns the current snapshot model and its projections.
type Catalog interface {
	Refresh(ctx context.Context) error
	View(perms projection.PermissionSet) (*projection.View, error)
	Room(name string, perms projection.PermissionSet) (*projection.RoomView, bool, error)
	// Run refreshes the snapshot on a ticker until ctx is canceled.
	Run(ctx context.Context, tick time.Duration)
}

// Rules evaluates the registered rule set against the current snapshot.
type Rules interface {
	Check(ctx context.Context) (rules.Report, error)
}

// Service aggregates all sub-services behind one wiring point.
type Service struct {
	Catalog
	Rules
	Authorization
}

// NewService wires the snapshot source, builder, rule engine and user store
// into concrete services.
func NewService(
	repos *repository.Repository,
	source snapshot.Source,
	builder *ingest.Builder,
	engine *rules.Engine,
	signingKey string,
	log *logger.Logger,
) *Service {
	catalog := NewCatalogService(source, builder, log)
	return &Service{
		Catalog:       catalog,
		Rules:         NewRulesService(engine, catalog),
		Authorization: NewAuthService(repos.Auth, signingKey),
	}
}
