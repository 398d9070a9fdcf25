package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/ZaguanLabs/gameloc"
)

// historyChunk bounds the rows per INSERT statement to stay under SQLite's
// host parameter limit.
const historyChunk = 500

// HistoryRepo stores batch records and implements gameloc.HistorySink.
type HistoryRepo struct{ *Repo }

// NewHistoryRepo creates a HistoryRepo over db.
func NewHistoryRepo(db *sql.DB) *HistoryRepo { return &HistoryRepo{NewRepo(db)} }

var historyColumns = []string{
	"batch_id",
	"row_num",
	"col_num",
	"source_text",
	"translated_text",
	"source_lang",
	"target_lang",
	"origin",
	"provider",
	"elapsed_ms",
	"review_score",
	"issues",
	"improved",
	"error",
	"created_at",
}

// SaveRecords inserts records in one transaction.
func (r *HistoryRepo) SaveRecords(ctx context.Context, records []gameloc.Record) error {
	if len(records) == 0 {
		return nil
	}
	return WithTx(ctx, r.DB, func(tx *sql.Tx) error {
		for start := 0; start < len(records); start += historyChunk {
			end := min(start+historyChunk, len(records))
			q := r.SQ.Insert("translation_history").Columns(historyColumns...)
			for _, rec := range records[start:end] {
				var issues any
				if len(rec.Issues) > 0 {
					b, err := json.Marshal(rec.Issues)
					if err != nil {
						return err
					}
					issues = string(b)
				}
				var score any
				if rec.ReviewScore != nil {
					score = *rec.ReviewScore
				}
				created := rec.CreatedAt
				if created.IsZero() {
					created = time.Now()
				}
				q = q.Values(
					rec.BatchID,
					rec.Location.Row,
					rec.Location.Column,
					rec.SourceText,
					rec.TranslatedText,
					rec.SourceLang,
					rec.TargetLang,
					string(rec.Origin),
					rec.ProviderName,
					rec.Elapsed.Milliseconds(),
					score,
					issues,
					rec.Improved,
					rec.Error,
					formatTime(created),
				)
			}
			sqlStr, args, err := q.ToSql()
			if err != nil {
				return err
			}
			if _, err := tx.ExecContext(ctx, sqlStr, args...); err != nil {
				return fmt.Errorf("insert history: %w", err)
			}
		}
		return nil
	})
}

// Recent returns up to limit records, newest first.
func (r *HistoryRepo) Recent(ctx context.Context, limit int) ([]gameloc.Record, error) {
	q := r.SQ.Select(historyColumns...).From("translation_history").OrderBy("id DESC")
	if limit > 0 {
		q = q.Limit(uint64(limit))
	}
	return r.query(ctx, q)
}

// Batch returns the records of one batch in input order.
func (r *HistoryRepo) Batch(ctx context.Context, batchID string) ([]gameloc.Record, error) {
	q := r.SQ.Select(historyColumns...).
		From("translation_history").
		Where(sq.Eq{"batch_id": batchID}).
		OrderBy("row_num", "col_num", "id")
	return r.query(ctx, q)
}

func (r *HistoryRepo) query(ctx context.Context, q sq.SelectBuilder) ([]gameloc.Record, error) {
	sqlStr, args, err := q.ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := r.DB.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	var out []gameloc.Record
	for rows.Next() {
		var rec gameloc.Record
		var origin, created string
		var elapsedMS int64
		var score sql.NullFloat64
		var issues sql.NullString
		if err := rows.Scan(
			&rec.BatchID,
			&rec.Location.Row,
			&rec.Location.Column,
			&rec.SourceText,
			&rec.TranslatedText,
			&rec.SourceLang,
			&rec.TargetLang,
			&origin,
			&rec.ProviderName,
			&elapsedMS,
			&score,
			&issues,
			&rec.Improved,
			&rec.Error,
			&created,
		); err != nil {
			return nil, err
		}
		rec.Origin = gameloc.Origin(origin)
		rec.Elapsed = time.Duration(elapsedMS) * time.Millisecond
		if score.Valid {
			v := score.Float64
			rec.ReviewScore = &v
		}
		if issues.Valid && issues.String != "" {
			if err := json.Unmarshal([]byte(issues.String), &rec.Issues); err != nil {
				return nil, fmt.Errorf("decode issues: %w", err)
			}
		}
		rec.CreatedAt = parseTime(created)
		out = append(out, rec)
	}
	return out, rows.Err()
}

// Stats summarizes the stored history.
type Stats struct {
	Total          int                    `json:"total"`
	Failed         int                    `json:"failed"`
	Improved       int                    `json:"improved"`
	Reviewed       int                    `json:"reviewed"`
	ByOrigin       map[gameloc.Origin]int `json:"by_origin"`
	ByProvider     map[string]int         `json:"by_provider"`
	AvgElapsed     time.Duration          `json:"avg_elapsed"`
	AvgReviewScore float64                `json:"avg_review_score"`
	Batches        int                    `json:"batches"`
}

// Stats computes totals over all stored records.
func (r *HistoryRepo) Stats(ctx context.Context) (Stats, error) {
	st := Stats{
		ByOrigin:   make(map[gameloc.Origin]int),
		ByProvider: make(map[string]int),
	}

	sqlStr, args, err := r.SQ.Select(
		"COUNT(*)",
		"COALESCE(SUM(CASE WHEN error != '' THEN 1 ELSE 0 END), 0)",
		"COALESCE(SUM(improved), 0)",
		"COUNT(review_score)",
		"COALESCE(AVG(elapsed_ms), 0)",
		"COALESCE(AVG(review_score), 0)",
		"COUNT(DISTINCT batch_id)",
	).From("translation_history").ToSql()
	if err != nil {
		return st, err
	}
	var avgElapsed float64
	if err := r.DB.QueryRowContext(ctx, sqlStr, args...).Scan(
		&st.Total,
		&st.Failed,
		&st.Improved,
		&st.Reviewed,
		&avgElapsed,
		&st.AvgReviewScore,
		&st.Batches,
	); err != nil {
		return st, fmt.Errorf("history totals: %w", err)
	}
	st.AvgElapsed = time.Duration(avgElapsed * float64(time.Millisecond))

	err = r.groupCount(ctx, "origin", sq.NotEq{"origin": ""}, func(key string, n int) {
		st.ByOrigin[gameloc.Origin(key)] = n
	})
	if err != nil {
		return st, err
	}
	err = r.groupCount(ctx, "provider", sq.NotEq{"provider": ""}, func(key string, n int) {
		st.ByProvider[key] = n
	})
	return st, err
}

func (r *HistoryRepo) groupCount(ctx context.Context, column string, where sq.Sqlizer, fn func(string, int)) error {
	sqlStr, args, err := r.SQ.Select(column, "COUNT(*)").
		From("translation_history").
		Where(where).
		GroupBy(column).
		ToSql()
	if err != nil {
		return err
	}
	rows, err := r.DB.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return fmt.Errorf("count by %s: %w", column, err)
	}
	defer rows.Close()
	for rows.Next() {
		var key string
		var n int
		if err := rows.Scan(&key, &n); err != nil {
			return err
		}
		fn(key, n)
	}
	return rows.Err()
}

var _ gameloc.HistorySink = (*HistoryRepo)(nil)
