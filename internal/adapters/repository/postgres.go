package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5" // pgx5:// migrate driver
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/aocbot/aocbot/internal/domain/model"
	"github.com/aocbot/aocbot/pkg/logger"
)

const pgUniqueViolation = "23505"

// PostgresStore is a store on a PostgreSQL pool.
type PostgresStore struct {
	pool  *pgxpool.Pool
	event int
	log   logger.Logger
}

// NewPostgresStore migrates the schema and opens a pool for dsn (postgres://...).
func NewPostgresStore(ctx context.Context, dsn string, opts ...Option) (*PostgresStore, error) {
	const op = "repository.postgres.open"
	o := buildOptions(opts)

	src, err := migrationSource()
	if err != nil {
		return nil, err
	}
	m, err := migrate.NewWithSourceInstance("iofs", src, migrateURL(dsn))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	err = migrateUp(m)
	srcErr, dbErr := m.Close()
	if err != nil {
		return nil, err
	}
	if srcErr != nil || dbErr != nil {
		o.log.Warn(ctx, "closing migrator failed", logger.Any("source_error", srcErr), logger.Any("db_error", dbErr))
	}

	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	o.log.Info(ctx, "postgres store ready", logger.String("host", cfg.ConnConfig.Host))
	return &PostgresStore{pool: pool, event: o.event, log: o.log}, nil
}

// migrateURL swaps the scheme for golang-migrate's pgx v5 driver.
func migrateURL(dsn string) string {
	for _, scheme := range []string{"postgresql://", "postgres://"} {
		if strings.HasPrefix(dsn, scheme) {
			return "pgx5://" + strings.TrimPrefix(dsn, scheme)
		}
	}
	return dsn
}

func (s *PostgresStore) getOne(ctx context.Context, op, query, arg string) (model.Participant, error) {
	defer observe(op, time.Now())
	p, err := scanParticipant(s.pool.QueryRow(ctx, query, arg))
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Participant{}, ErrNotFound
	}
	if err != nil {
		return model.Participant{}, fmt.Errorf("repository.%s: %w", op, err)
	}
	return p, nil
}

func (s *PostgresStore) GetParticipant(ctx context.Context, slackID string) (model.Participant, error) {
	return s.getOne(ctx, "get_participant",
		"SELECT "+participantColumns+" FROM participants WHERE slack_id = $1", slackID)
}

func (s *PostgresStore) GetParticipantByAocID(ctx context.Context, aocID string) (model.Participant, error) {
	return s.getOne(ctx, "get_participant_by_aoc_id",
		"SELECT "+participantColumns+" FROM participants WHERE aoc_id = $1", aocID)
}

func (s *PostgresStore) ListParticipants(ctx context.Context) ([]model.Participant, error) {
	defer observe("list_participants", time.Now())
	rows, err := s.pool.Query(ctx, "SELECT "+participantColumns+" FROM participants ORDER BY slack_id")
	if err != nil {
		return nil, fmt.Errorf("repository.list_participants: %w", err)
	}
	defer rows.Close()

	var out []model.Participant
	for rows.Next() {
		p, err := scanParticipant(rows)
		if err != nil {
			return nil, fmt.Errorf("repository.list_participants: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *PostgresStore) UpsertParticipant(ctx context.Context, p model.Participant) error {
	defer observe("upsert_participant", time.Now())
	updated := p.UpdatedAt
	if updated.IsZero() {
		updated = time.Now()
	}
	_, err := s.pool.Exec(ctx, `
		INSERT INTO participants (slack_id, aoc_id, division, ai_usage, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (slack_id) DO UPDATE SET
			aoc_id = EXCLUDED.aoc_id,
			division = EXCLUDED.division,
			ai_usage = EXCLUDED.ai_usage,
			updated_at = EXCLUDED.updated_at`,
		p.SlackID, p.AocID, string(p.Division), string(p.AIUsage), updated.Unix())
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return ErrConflict
	}
	if err != nil {
		return fmt.Errorf("repository.upsert_participant: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListOverrides(ctx context.Context, day int) ([]model.StartOverride, error) {
	defer observe("list_overrides", time.Now())
	rows, err := s.pool.Query(ctx,
		"SELECT aoc_id, day, start_ts FROM start_overrides WHERE event = $1 AND day = $2 ORDER BY aoc_id",
		s.event, day)
	if err != nil {
		return nil, fmt.Errorf("repository.list_overrides: %w", err)
	}
	defer rows.Close()

	out := []model.StartOverride{}
	for rows.Next() {
		var o model.StartOverride
		if err := rows.Scan(&o.AocID, &o.Day, &o.StartTS); err != nil {
			return nil, fmt.Errorf("repository.list_overrides: %w", err)
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

func (s *PostgresStore) UpsertOverride(ctx context.Context, o model.StartOverride) error {
	defer observe("upsert_override", time.Now())
	_, err := s.pool.Exec(ctx, `
		INSERT INTO start_overrides (event, aoc_id, day, start_ts, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (event, aoc_id, day) DO UPDATE SET
			start_ts = EXCLUDED.start_ts,
			updated_at = EXCLUDED.updated_at`,
		s.event, o.AocID, o.Day, o.StartTS, time.Now().Unix())
	if err != nil {
		return fmt.Errorf("repository.upsert_override: %w", err)
	}
	return nil
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}
