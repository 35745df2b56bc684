package database

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"partyinvite/models"
)

// GormStore keeps invitations and users in a relational database.
type GormStore struct {
	db *gorm.DB
}

func OpenPostgres(dsn, logLevel string) (*GormStore, error) {
	return openGorm(postgres.Open(dsn), logLevel)
}

// OpenSQLite opens the database file at path. SQLite allows one writer at a
// time, so the pool is limited to a single connection.
func OpenSQLite(path, logLevel string) (*GormStore, error) {
	s, err := openGorm(sqlite.Open(path), logLevel)
	if err != nil {
		return nil, err
	}
	sqlDB, err := s.db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)
	return s, nil
}

func openGorm(dialector gorm.Dialector, logLevel string) (*GormStore, error) {
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         logger.Default.LogMode(parseLogLevel(logLevel)),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// Auto migrate the schema
	if err := db.AutoMigrate(&models.User{}, &models.Invitation{}); err != nil {
		return nil, fmt.Errorf("migrate database: %w", err)
	}

	return &GormStore{db: db}, nil
}

func parseLogLevel(level string) logger.LogLevel {
	switch strings.ToLower(level) {
	case "silent":
		return logger.Silent
	case "error":
		return logger.Error
	case "info":
		return logger.Info
	default:
		return logger.Warn
	}
}

func (s *GormStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (s *GormStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (s *GormStore) CreateInvitation(ctx context.Context, inv *models.Invitation) error {
	if err := s.db.WithContext(ctx).Create(inv).Error; err != nil {
		return fmt.Errorf("create invitation: %w", err)
	}
	return nil
}

func (s *GormStore) ListInvitations(ctx context.Context) ([]models.Invitation, error) {
	invitations := []models.Invitation{}
	if err := s.db.WithContext(ctx).Order("created_at desc").Find(&invitations).Error; err != nil {
		return nil, fmt.Errorf("list invitations: %w", err)
	}
	return invitations, nil
}

func (s *GormStore) GetInvitation(ctx context.Context, id string) (*models.Invitation, error) {
	var inv models.Invitation
	if err := s.db.WithContext(ctx).First(&inv, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("get invitation: %w", err)
	}
	return &inv, nil
}

func (s *GormStore) DeleteInvitation(ctx context.Context, id string) (*models.Invitation, error) {
	var inv models.Invitation
	result := s.db.WithContext(ctx).
		Clauses(clause.Returning{}).
		Where("id = ?", id).
		Delete(&inv)
	if result.Error != nil {
		return nil, fmt.Errorf("delete invitation: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, models.ErrNotFound
	}
	return &inv, nil
}

func (s *GormStore) ConfirmInvitation(ctx context.Context, id string, at time.Time) (*models.Invitation, error) {
	var inv models.Invitation
	result := s.db.WithContext(ctx).
		Model(&inv).
		Clauses(clause.Returning{}).
		Where("id = ? AND confirmed = ? AND status = ?", id, false, models.StatusOpen).
		Updates(map[string]interface{}{
			"confirmed":    true,
			"status":       models.StatusClosed,
			"confirmed_at": at,
		})
	if result.Error != nil {
		return nil, fmt.Errorf("confirm invitation: %w", result.Error)
	}
	if result.RowsAffected == 1 {
		return &inv, nil
	}

	current, err := s.GetInvitation(ctx, id)
	if err != nil {
		return nil, err
	}
	return nil, confirmOutcome(current)
}

func (s *GormStore) CreateUser(ctx context.Context, user *models.User) error {
	if err := s.db.WithContext(ctx).Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return models.ErrConflict
		}
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (s *GormStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrUserNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return &user, nil
}
