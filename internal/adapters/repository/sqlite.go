package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/golang-migrate/migrate/v4"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/mattn/go-sqlite3"

	"github.com/aocbot/aocbot/internal/domain/model"
	"github.com/aocbot/aocbot/pkg/logger"
)

// SQLiteStore is a store on a local SQLite database.
type SQLiteStore struct {
	db    *sql.DB
	event int
	log   logger.Logger
}

// NewSQLiteStore opens dsn and migrates the schema.
func NewSQLiteStore(ctx context.Context, dsn string, opts ...Option) (*SQLiteStore, error) {
	const op = "repository.sqlite.open"
	o := buildOptions(opts)

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	// One connection keeps :memory: databases alive and serializes writes.
	db.SetMaxOpenConns(1)
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	driver, err := migratesqlite.WithInstance(db, &migratesqlite.Config{})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	src, err := migrationSource()
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	m, err := migrate.NewWithInstance("iofs", src, "sqlite3", driver)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	// m.Close would close db, so only the source is released.
	if err := migrateUp(m); err != nil {
		_ = db.Close()
		return nil, err
	}
	_ = src.Close()

	o.log.Info(ctx, "sqlite store ready", logger.String("dsn", dsn))
	return &SQLiteStore{db: db, event: o.event, log: o.log}, nil
}

const participantColumns = "slack_id, aoc_id, division, ai_usage, updated_at"

type rowScanner interface {
	Scan(dest ...any) error
}

func scanParticipant(row rowScanner) (model.Participant, error) {
	var (
		p         model.Participant
		division  string
		aiUsage   string
		updatedAt int64
	)
	if err := row.Scan(&p.SlackID, &p.AocID, &division, &aiUsage, &updatedAt); err != nil {
		return model.Participant{}, err
	}
	var err error
	if p.Division, err = model.ParseDivision(division); err != nil {
		return model.Participant{}, err
	}
	if p.AIUsage, err = model.ParseAIUsage(aiUsage); err != nil {
		return model.Participant{}, err
	}
	p.UpdatedAt = time.Unix(updatedAt, 0).UTC()
	return p, nil
}

func (s *SQLiteStore) getOne(ctx context.Context, op, query string, arg string) (model.Participant, error) {
	defer observe(op, time.Now())
	p, err := scanParticipant(s.db.QueryRowContext(ctx, query, arg))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Participant{}, ErrNotFound
	}
	if err != nil {
		return model.Participant{}, fmt.Errorf("repository.%s: %w", op, err)
	}
	return p, nil
}

func (s *SQLiteStore) GetParticipant(ctx context.Context, slackID string) (model.Participant, error) {
	return s.getOne(ctx, "get_participant",
		"SELECT "+participantColumns+" FROM participants WHERE slack_id = ?", slackID)
}

func (s *SQLiteStore) GetParticipantByAocID(ctx context.Context, aocID string) (model.Participant, error) {
	return s.getOne(ctx, "get_participant_by_aoc_id",
		"SELECT "+participantColumns+" FROM participants WHERE aoc_id = ?", aocID)
}

func (s *SQLiteStore) ListParticipants(ctx context.Context) ([]model.Participant, error) {
	defer observe("list_participants", time.Now())
	rows, err := s.db.QueryContext(ctx, "SELECT "+participantColumns+" FROM participants ORDER BY slack_id")
	if err != nil {
		return nil, fmt.Errorf("repository.list_participants: %w", err)
	}
	defer func() { _ = rows.Close() }()

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

func (s *SQLiteStore) UpsertParticipant(ctx context.Context, p model.Participant) error {
	defer observe("upsert_participant", time.Now())
	updated := p.UpdatedAt
	if updated.IsZero() {
		updated = time.Now()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO participants (slack_id, aoc_id, division, ai_usage, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (slack_id) DO UPDATE SET
			aoc_id = excluded.aoc_id,
			division = excluded.division,
			ai_usage = excluded.ai_usage,
			updated_at = excluded.updated_at`,
		p.SlackID, p.AocID, string(p.Division), string(p.AIUsage), updated.Unix())
	var se sqlite3.Error
	if errors.As(err, &se) && se.ExtendedCode == sqlite3.ErrConstraintUnique {
		return ErrConflict
	}
	if err != nil {
		return fmt.Errorf("repository.upsert_participant: %w", err)
	}
	return nil
}

func (s *SQLiteStore) ListOverrides(ctx context.Context, day int) ([]model.StartOverride, error) {
	defer observe("list_overrides", time.Now())
	rows, err := s.db.QueryContext(ctx,
		"SELECT aoc_id, day, start_ts FROM start_overrides WHERE event = ? AND day = ? ORDER BY aoc_id",
		s.event, day)
	if err != nil {
		return nil, fmt.Errorf("repository.list_overrides: %w", err)
	}
	defer func() { _ = rows.Close() }()

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

func (s *SQLiteStore) UpsertOverride(ctx context.Context, o model.StartOverride) error {
	defer observe("upsert_override", time.Now())
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO start_overrides (event, aoc_id, day, start_ts, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (event, aoc_id, day) DO UPDATE SET
			start_ts = excluded.start_ts,
			updated_at = excluded.updated_at`,
		s.event, o.AocID, o.Day, o.StartTS, time.Now().Unix())
	if err != nil {
		return fmt.Errorf("repository.upsert_override: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
