package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq"  // register postgres driver
	_ "modernc.org/sqlite" // register sqlite driver

	"debt-planner/domain"
)

const planSchemaSQL = `
CREATE TABLE IF NOT EXISTS payoff_plans (
	id             TEXT PRIMARY KEY,
	strategy       TEXT NOT NULL,
	budget         TEXT NOT NULL,
	months         INTEGER NOT NULL,
	total_interest TEXT NOT NULL,
	request_json   TEXT NOT NULL,
	plan_json      TEXT NOT NULL,
	created_at     TEXT NOT NULL
)`

// SQLPlanStore persists plans in SQLite or PostgreSQL. Queries are written
// with ? placeholders and rebound for postgres.
type SQLPlanStore struct {
	db     *sql.DB
	driver string
	now    func() time.Time
}

// OpenSQLPlanStore opens the database and creates the schema. driver is
// "sqlite" or "postgres".
func OpenSQLPlanStore(driver, dsn string) (*SQLPlanStore, error) {
	switch driver {
	case "sqlite":
		if !strings.Contains(dsn, "_pragma") {
			sep := "?"
			if strings.Contains(dsn, "?") {
				sep = "&"
			}
			dsn += sep + "_pragma=journal_mode(wal)&_pragma=busy_timeout(5000)"
		}
	case "postgres":
	default:
		return nil, fmt.Errorf("unsupported plan store driver %q", driver)
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("opening plan store: %w", err)
	}
	if driver == "sqlite" {
		db.SetMaxOpenConns(1)
	}
	if _, err := db.Exec(planSchemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return &SQLPlanStore{db: db, driver: driver, now: time.Now}, nil
}

func (s *SQLPlanStore) Close() error {
	return s.db.Close()
}

func (s *SQLPlanStore) Save(ctx context.Context, req domain.PlanRequest, plan domain.Plan) (string, error) {
	reqJSON, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("encoding request: %w", err)
	}
	planJSON, err := json.Marshal(plan)
	if err != nil {
		return "", fmt.Errorf("encoding plan: %w", err)
	}

	id := uuid.NewString()
	_, err = s.db.ExecContext(ctx, s.rebind(`
INSERT INTO payoff_plans (id, strategy, budget, months, total_interest, request_json, plan_json, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)`),
		id,
		string(plan.Strategy),
		plan.Budget.String(),
		plan.Months,
		plan.TotalInterest.String(),
		string(reqJSON),
		string(planJSON),
		s.now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return "", fmt.Errorf("inserting plan: %w", err)
	}
	return id, nil
}

func (s *SQLPlanStore) Get(ctx context.Context, id string) (StoredPlan, error) {
	var (
		reqJSON, planJSON, createdAt string
	)
	err := s.db.QueryRowContext(ctx,
		s.rebind(`SELECT request_json, plan_json, created_at FROM payoff_plans WHERE id = ?`), id).
		Scan(&reqJSON, &planJSON, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return StoredPlan{}, fmt.Errorf("%w: %s", ErrPlanNotFound, id)
	}
	if err != nil {
		return StoredPlan{}, fmt.Errorf("loading plan: %w", err)
	}

	stored := StoredPlan{ID: id}
	if err := json.Unmarshal([]byte(reqJSON), &stored.Request); err != nil {
		return StoredPlan{}, fmt.Errorf("decoding request: %w", err)
	}
	if err := json.Unmarshal([]byte(planJSON), &stored.Plan); err != nil {
		return StoredPlan{}, fmt.Errorf("decoding plan: %w", err)
	}
	if stored.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
		return StoredPlan{}, fmt.Errorf("decoding created_at: %w", err)
	}
	return stored, nil
}

// rebind turns ? placeholders into $n for postgres.
func (s *SQLPlanStore) rebind(query string) string {
	if s.driver != "postgres" {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
