package submission

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
)

type SQLStore struct {
	db *sql.DB
}

func NewSQLStore(db *sql.DB) *SQLStore { return &SQLStore{db: db} }

func (s *SQLStore) Put(ctx context.Context, rec Record) error {
	rj, err := json.Marshal(rec.Report)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO submissions (id,test_id,user_id,total_marks,percentile,report_json,sheet_key,created_at)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
		rec.ID, rec.TestID, rec.UserID, rec.TotalMarks, rec.Percentile, string(rj), rec.SheetKey, rec.CreatedAt)
	return err
}

func scanRecord(scan func(dest ...any) error) (Record, error) {
	var rec Record
	var reportJSON string
	var pct sql.NullFloat64
	if err := scan(&rec.ID, &rec.TestID, &rec.UserID, &rec.TotalMarks, &pct, &reportJSON, &rec.SheetKey, &rec.CreatedAt); err != nil {
		return Record{}, err
	}
	if pct.Valid {
		v := pct.Float64
		rec.Percentile = &v
	}
	if err := json.Unmarshal([]byte(reportJSON), &rec.Report); err != nil {
		return Record{}, err
	}
	return rec, nil
}

func (s *SQLStore) Get(ctx context.Context, id string) (Record, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id,test_id,user_id,total_marks,percentile,report_json,sheet_key,created_at
		 FROM submissions WHERE id=$1`, id)
	rec, err := scanRecord(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return Record{}, ErrNotFound
	}
	return rec, err
}

func (s *SQLStore) ListByUser(ctx context.Context, userID string) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id,test_id,user_id,total_marks,percentile,report_json,sheet_key,created_at
		 FROM submissions WHERE user_id=$1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		rec, err := scanRecord(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}
