// Package database holds the durable stores for invitations and
// administrator accounts.
package database

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"partyinvite/config"
	"partyinvite/models"
)

type InvitationStore interface {
	// CreateInvitation persists inv and assigns its ID in the same write.
	CreateInvitation(ctx context.Context, inv *models.Invitation) error
	// ListInvitations returns every invitation, newest first.
	ListInvitations(ctx context.Context) ([]models.Invitation, error)
	GetInvitation(ctx context.Context, id string) (*models.Invitation, error)
	// DeleteInvitation removes the invitation whatever its state and returns it.
	DeleteInvitation(ctx context.Context, id string) (*models.Invitation, error)
	// ConfirmInvitation moves an open invitation to confirmed/closed with a
	// single conditional update. Of concurrent callers exactly one succeeds.
	ConfirmInvitation(ctx context.Context, id string, at time.Time) (*models.Invitation, error)
}

type UserStore interface {
	// CreateUser returns models.ErrConflict when the email is taken.
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
}

type Store interface {
	InvitationStore
	UserStore
	Ping(ctx context.Context) error
	Close() error
}

// Open connects to the backend selected by cfg.Driver.
func Open(ctx context.Context, cfg config.Database, log *slog.Logger) (Store, error) {
	switch cfg.Driver {
	case config.DriverPostgres:
		return OpenPostgres(cfg.URL, cfg.LogLevel)
	case config.DriverSQLite:
		return OpenSQLite(cfg.URL, cfg.LogLevel)
	case config.DriverMongo:
		return OpenMongo(ctx, cfg.URL, cfg.Name, log)
	default:
		return nil, fmt.Errorf("unknown database driver: %s", cfg.Driver)
	}
}

// confirmOutcome explains why a conditional confirm matched no document.
func confirmOutcome(current *models.Invitation) error {
	if err := current.CanConfirm(); err != nil {
		return err
	}
	return fmt.Errorf("confirm invitation %s: record changed concurrently", current.ID)
}
