package store

import (
	"context"
	"errors"

	"github.com/brandmonitor/brandmonitor/internal/models"
)

// ErrNotFound is returned when a lookup matches no row.
var ErrNotFound = errors.New("not found")

// Store is the persistence contract the API and monitoring layers depend on.
// All reads and writes are scoped by the owning user; mention uniqueness is
// per (id, user_id), never global.
type Store interface {
	// Users
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)

	// Mentions
	UpsertMention(ctx context.Context, mention *models.Mention) (*models.Mention, error)
	CreateMention(ctx context.Context, mention *models.Mention) error
	ListMentions(ctx context.Context, userID string) ([]models.Mention, error)
	DeleteMentions(ctx context.Context, userID string, ids []string) (int64, error)

	// Competitors
	CreateCompetitor(ctx context.Context, competitor *models.Competitor) error
	ListCompetitors(ctx context.Context, userID string) ([]models.Competitor, error)

	// Reports
	CreateReport(ctx context.Context, report *models.Report) error
	ListReports(ctx context.Context, userID string) ([]models.Report, error)

	// Monitoring items
	UpsertMonitoringItems(ctx context.Context, items *models.MonitoringItems) error
	GetMonitoringItems(ctx context.Context, userID string) (*models.MonitoringItems, error)
	ListAllMonitoringItems(ctx context.Context) ([]models.MonitoringItems, error)
}
