package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/brandmonitor/brandmonitor/internal/models"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file" // file:// migration source
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq" // registers the postgres driver
	"github.com/sirupsen/logrus"
)

// Postgres implements Store on top of PostgreSQL.
type Postgres struct {
	db *sqlx.DB
}

var _ Store = (*Postgres)(nil)

// NewPostgres connects to the database and verifies the connection.
func NewPostgres(databaseURL string) (*Postgres, error) {
	db, err := sqlx.Connect("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	logrus.Info("Connected to PostgreSQL")
	return &Postgres{db: db}, nil
}

// Migrate applies pending SQL migrations from dir.
func (p *Postgres) Migrate(dir string) error {
	driver, err := postgres.WithInstance(p.db.DB, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("failed to create migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance("file://"+dir, "brandmonitor", driver)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	logrus.Info("Database migrations applied")
	return nil
}

// Close releases the underlying connection pool.
func (p *Postgres) Close() error {
	return p.db.Close()
}

// Users

func (p *Postgres) CreateUser(ctx context.Context, user *models.User) error {
	query := `INSERT INTO users (name, email, password_hash)
	          VALUES ($1, $2, $3)
	          RETURNING id, created_at`
	return p.db.QueryRowxContext(ctx, query, user.Name, user.Email, user.PasswordHash).
		Scan(&user.ID, &user.CreatedAt)
}

func (p *Postgres) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	query := `SELECT id, name, email, password_hash, created_at FROM users WHERE email = $1`
	if err := p.db.GetContext(ctx, &user, query, email); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (p *Postgres) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	query := `SELECT id, name, email, password_hash, created_at FROM users WHERE id = $1`
	if err := p.db.GetContext(ctx, &user, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// Mentions

const mentionColumns = `id, user_id, content, platform, author, sentiment, url, engagement, created_at, updated_at`

// UpsertMention inserts the mention or, when (id, user_id) already exists,
// overwrites the mutable fields. Re-ingesting the same source URL therefore
// keeps at most one row per owner.
func (p *Postgres) UpsertMention(ctx context.Context, mention *models.Mention) (*models.Mention, error) {
	query := `INSERT INTO brand_mentions (` + mentionColumns + `)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	          ON CONFLICT (id, user_id) DO UPDATE SET
	              content = EXCLUDED.content,
	              author = EXCLUDED.author,
	              sentiment = EXCLUDED.sentiment,
	              url = EXCLUDED.url,
	              engagement = EXCLUDED.engagement,
	              updated_at = EXCLUDED.updated_at
	          RETURNING ` + mentionColumns

	var saved models.Mention
	err := p.db.QueryRowxContext(ctx, query,
		mention.ID, mention.UserID, mention.Content, mention.Platform, mention.Author,
		mention.Sentiment, mention.URL, mention.Engagement, mention.CreatedAt, mention.UpdatedAt,
	).StructScan(&saved)
	if err != nil {
		return nil, err
	}
	if saved.Engagement != nil && *saved.Engagement == (models.Engagement{}) {
		saved.Engagement = nil
	}
	return &saved, nil
}

func (p *Postgres) CreateMention(ctx context.Context, mention *models.Mention) error {
	query := `INSERT INTO brand_mentions (` + mentionColumns + `)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, now(), now())
	          RETURNING created_at, updated_at`
	return p.db.QueryRowxContext(ctx, query,
		mention.ID, mention.UserID, mention.Content, mention.Platform, mention.Author,
		mention.Sentiment, mention.URL, mention.Engagement,
	).Scan(&mention.CreatedAt, &mention.UpdatedAt)
}

func (p *Postgres) ListMentions(ctx context.Context, userID string) ([]models.Mention, error) {
	var mentions []models.Mention
	query := `SELECT ` + mentionColumns + ` FROM brand_mentions
	          WHERE user_id = $1 ORDER BY created_at DESC`
	if err := p.db.SelectContext(ctx, &mentions, query, userID); err != nil {
		return nil, err
	}

	// NULL engagement scans into an allocated zero struct; callers expect nil.
	for i := range mentions {
		if mentions[i].Engagement != nil && *mentions[i].Engagement == (models.Engagement{}) {
			mentions[i].Engagement = nil
		}
	}
	return mentions, nil
}

func (p *Postgres) DeleteMentions(ctx context.Context, userID string, ids []string) (int64, error) {
	query := `DELETE FROM brand_mentions WHERE user_id = $1 AND id = ANY($2)`
	result, err := p.db.ExecContext(ctx, query, userID, pq.Array(ids))
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

// Competitors

func (p *Postgres) CreateCompetitor(ctx context.Context, competitor *models.Competitor) error {
	query := `INSERT INTO competitors (user_id, name, website, keywords, mentions, sentiment, market_share)
	          VALUES ($1, $2, $3, $4, $5, $6, $7)
	          RETURNING id, created_at, updated_at`
	return p.db.QueryRowxContext(ctx, query,
		competitor.UserID, competitor.Name, competitor.Website, competitor.Keywords,
		nullableJSON(competitor.Mentions), nullableJSON(competitor.Sentiment), competitor.MarketShare,
	).Scan(&competitor.ID, &competitor.CreatedAt, &competitor.UpdatedAt)
}

func (p *Postgres) ListCompetitors(ctx context.Context, userID string) ([]models.Competitor, error) {
	var competitors []models.Competitor
	query := `SELECT id, user_id, name, website, keywords, mentions, sentiment, market_share, created_at, updated_at
	          FROM competitors WHERE user_id = $1 ORDER BY created_at DESC`
	if err := p.db.SelectContext(ctx, &competitors, query, userID); err != nil {
		return nil, err
	}
	return competitors, nil
}

// Reports

func (p *Postgres) CreateReport(ctx context.Context, report *models.Report) error {
	query := `INSERT INTO reports (user_id, title, type, data, period)
	          VALUES ($1, $2, $3, $4, $5)
	          RETURNING id, created_at`
	return p.db.QueryRowxContext(ctx, query,
		report.UserID, report.Title, report.Type, []byte(report.Data), report.Period,
	).Scan(&report.ID, &report.CreatedAt)
}

func (p *Postgres) ListReports(ctx context.Context, userID string) ([]models.Report, error) {
	var reports []models.Report
	query := `SELECT id, user_id, title, type, data, period, created_at
	          FROM reports WHERE user_id = $1 ORDER BY created_at DESC`
	if err := p.db.SelectContext(ctx, &reports, query, userID); err != nil {
		return nil, err
	}
	return reports, nil
}

// Monitoring items

func (p *Postgres) UpsertMonitoringItems(ctx context.Context, items *models.MonitoringItems) error {
	query := `INSERT INTO monitoring_items (user_id, domains, brand_names, keywords, updated_at)
	          VALUES ($1, $2, $3, $4, now())
	          ON CONFLICT (user_id) DO UPDATE SET
	              domains = EXCLUDED.domains,
	              brand_names = EXCLUDED.brand_names,
	              keywords = EXCLUDED.keywords,
	              updated_at = now()
	          RETURNING updated_at`
	return p.db.QueryRowxContext(ctx, query,
		items.UserID, items.Domains, items.BrandNames, items.Keywords,
	).Scan(&items.UpdatedAt)
}

func (p *Postgres) GetMonitoringItems(ctx context.Context, userID string) (*models.MonitoringItems, error) {
	var items models.MonitoringItems
	query := `SELECT user_id, domains, brand_names, keywords, updated_at
	          FROM monitoring_items WHERE user_id = $1`
	if err := p.db.GetContext(ctx, &items, query, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &items, nil
}

func (p *Postgres) ListAllMonitoringItems(ctx context.Context) ([]models.MonitoringItems, error) {
	var items []models.MonitoringItems
	query := `SELECT user_id, domains, brand_names, keywords, updated_at FROM monitoring_items`
	if err := p.db.SelectContext(ctx, &items, query); err != nil {
		return nil, err
	}
	return items, nil
}

// nullableJSON maps an empty blob to SQL NULL instead of invalid empty JSON.
func nullableJSON(raw []byte) interface{} {
	if len(raw) == 0 {
		return nil
	}
	return []byte(raw)
}
