package healthlog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/wolfman30/healthguard/internal/risk"
)

// PgxPool is the subset of *pgxpool.Pool the repository uses.
type PgxPool interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresRepository persists logs and assessments in Postgres.
type PostgresRepository struct {
	pool PgxPool
}

func NewPostgresRepository(pool PgxPool) *PostgresRepository {
	if pool == nil {
		panic("healthlog: pgx pool required")
	}
	return &PostgresRepository{pool: pool}
}

const selectEntry = `
	SELECT l.id, l.user_id, l.symptoms, l.vitals, l.lifestyle, l.notes, l.created_at,
		a.id, a.risk_level, a.reasons, a.next_steps, a.red_flags, a.consult_advice, a.rule_version, a.created_at
	FROM health_logs l
	JOIN risk_assessments a ON a.health_log_id = l.id
`

func (r *PostgresRepository) Create(ctx context.Context, log *HealthLog, assessment *StoredAssessment) error {
	symptoms, err := json.Marshal(log.Symptoms)
	if err != nil {
		return fmt.Errorf("healthlog: encode symptoms: %w", err)
	}
	vitals, err := marshalOptional(log.Vitals)
	if err != nil {
		return fmt.Errorf("healthlog: encode vitals: %w", err)
	}
	lifestyle, err := marshalOptional(log.Lifestyle)
	if err != nil {
		return fmt.Errorf("healthlog: encode lifestyle: %w", err)
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("healthlog: begin tx: %w", err)
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO health_logs (id, user_id, symptoms, vitals, lifestyle, notes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, log.ID, log.UserID, symptoms, vitals, lifestyle, log.Notes, log.CreatedAt)
	if err != nil {
		_ = tx.Rollback(ctx)
		return fmt.Errorf("healthlog: insert log: %w", err)
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO risk_assessments (
			id, health_log_id, user_id, risk_level, reasons, next_steps, red_flags,
			consult_advice, rule_version, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`, assessment.ID, log.ID, log.UserID, string(assessment.RiskLevel),
		assessment.Reasons, assessment.NextSteps, assessment.RedFlags,
		assessment.ConsultAdvice, assessment.RuleVersion, assessment.CreatedAt)
	if err != nil {
		_ = tx.Rollback(ctx)
		return fmt.Errorf("healthlog: insert assessment: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("healthlog: commit: %w", err)
	}
	return nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, userID, id string) (*Entry, error) {
	row := r.pool.QueryRow(ctx, selectEntry+` WHERE l.id = $1 AND l.user_id = $2`, id, userID)
	entry, err := scanEntry(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrLogNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("healthlog: get log: %w", err)
	}
	return entry, nil
}

func (r *PostgresRepository) ListByUser(ctx context.Context, userID string, limit int) ([]*Entry, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	rows, err := r.pool.Query(ctx, selectEntry+` WHERE l.user_id = $1 ORDER BY l.created_at DESC LIMIT $2`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("healthlog: list logs: %w", err)
	}
	defer rows.Close()

	var out []*Entry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("healthlog: scan log: %w", err)
		}
		out = append(out, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("healthlog: list logs: %w", err)
	}
	return out, nil
}

// ProfileFor reads the user's profile; users without one get nil.
func (r *PostgresRepository) ProfileFor(ctx context.Context, userID string) (*risk.UserProfile, error) {
	var profile risk.UserProfile
	err := r.pool.QueryRow(ctx, `
		SELECT age_years, conditions, allergies FROM user_profiles WHERE user_id = $1
	`, userID).Scan(&profile.Age, &profile.Conditions, &profile.Allergies)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("healthlog: load profile: %w", err)
	}
	return &profile, nil
}

func scanEntry(row pgx.Row) (*Entry, error) {
	var (
		e                           Entry
		symptoms, vitals, lifestyle []byte
		level                       string
	)
	err := row.Scan(
		&e.Log.ID, &e.Log.UserID, &symptoms, &vitals, &lifestyle, &e.Log.Notes, &e.Log.CreatedAt,
		&e.Assessment.ID, &level, &e.Assessment.Reasons, &e.Assessment.NextSteps, &e.Assessment.RedFlags,
		&e.Assessment.ConsultAdvice, &e.Assessment.RuleVersion, &e.Assessment.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(symptoms, &e.Log.Symptoms); err != nil {
		return nil, fmt.Errorf("decode symptoms: %w", err)
	}
	if len(vitals) > 0 {
		e.Log.Vitals = &risk.Vitals{}
		if err := json.Unmarshal(vitals, e.Log.Vitals); err != nil {
			return nil, fmt.Errorf("decode vitals: %w", err)
		}
	}
	if len(lifestyle) > 0 {
		e.Log.Lifestyle = &risk.Lifestyle{}
		if err := json.Unmarshal(lifestyle, e.Log.Lifestyle); err != nil {
			return nil, fmt.Errorf("decode lifestyle: %w", err)
		}
	}
	e.Assessment.RiskLevel = risk.Level(level)
	e.Assessment.HealthLogID = e.Log.ID
	if e.Assessment.RedFlags == nil {
		e.Assessment.RedFlags = []string{}
	}
	return &e, nil
}

// marshalOptional encodes v, or returns nil (SQL NULL) for a nil pointer.
func marshalOptional[T any](v *T) ([]byte, error) {
	if v == nil {
		return nil, nil
	}
	return json.Marshal(v)
}

var (
	_ Repository    = (*PostgresRepository)(nil)
	_ ProfileSource = (*PostgresRepository)(nil)
)
