package testbank

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/scoremitra/scoremitra/internal/scoring"
)

// SQLStore persists tests and answer keys; rules and key sets live in JSON
// columns, mirroring how exam content is stored elsewhere in the schema.
type SQLStore struct {
	db *sql.DB
}

func NewSQLStore(db *sql.DB) *SQLStore { return &SQLStore{db: db} }

func (s *SQLStore) PutTest(ctx context.Context, t Test) error {
	rj, err := json.Marshal(t.Rules)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO tests (id,name,exam_date,shift,rules_json,created_at)
		 VALUES ($1,$2,$3,$4,$5,$6)
		 ON CONFLICT (id) DO UPDATE SET name=EXCLUDED.name, exam_date=EXCLUDED.exam_date,
		   shift=EXCLUDED.shift, rules_json=EXCLUDED.rules_json`,
		t.ID, t.Name, t.ExamDate, t.Shift, string(rj), time.Now().Unix())
	return err
}

func (s *SQLStore) scanTest(row *sql.Row) (Test, error) {
	var t Test
	var rulesJSON string
	if err := row.Scan(&t.ID, &t.Name, &t.ExamDate, &t.Shift, &rulesJSON, &t.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Test{}, ErrTestNotFound
		}
		return Test{}, err
	}
	if err := json.Unmarshal([]byte(rulesJSON), &t.Rules); err != nil {
		return Test{}, err
	}
	return t, nil
}

func (s *SQLStore) GetTest(ctx context.Context, id string) (Test, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id,name,exam_date,shift,rules_json,created_at FROM tests WHERE id=$1`, id)
	return s.scanTest(row)
}

func (s *SQLStore) FindTest(ctx context.Context, examDate, shift string) (Test, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id,name,exam_date,shift,rules_json,created_at FROM tests WHERE exam_date=$1 AND shift=$2`,
		examDate, shift)
	return s.scanTest(row)
}

func (s *SQLStore) ListTests(ctx context.Context) ([]Test, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id,name,exam_date,shift,rules_json,created_at FROM tests ORDER BY exam_date, shift`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Test
	for rows.Next() {
		var t Test
		var rulesJSON string
		if err := rows.Scan(&t.ID, &t.Name, &t.ExamDate, &t.Shift, &rulesJSON, &t.CreatedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(rulesJSON), &t.Rules); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (s *SQLStore) PutKeys(ctx context.Context, testID string, keys []scoring.KeyEntry) error {
	if _, err := s.GetTest(ctx, testID); err != nil {
		return err
	}
	kj, err := json.Marshal(keys)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO answer_keys (test_id,keys_json,updated_at)
		 VALUES ($1,$2,$3)
		 ON CONFLICT (test_id) DO UPDATE SET keys_json=EXCLUDED.keys_json, updated_at=EXCLUDED.updated_at`,
		testID, string(kj), time.Now().Unix())
	return err
}

func (s *SQLStore) GetKeys(ctx context.Context, testID string) ([]scoring.KeyEntry, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT keys_json FROM answer_keys WHERE test_id=$1`, testID)
	var kj string
	if err := row.Scan(&kj); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrKeysNotFound
		}
		return nil, err
	}
	var keys []scoring.KeyEntry
	if err := json.Unmarshal([]byte(kj), &keys); err != nil {
		return nil, err
	}
	return keys, nil
}
