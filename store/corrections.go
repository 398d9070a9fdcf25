package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/ZaguanLabs/gameloc/correction"
)

// ErrNotFound is returned when a row does not exist.
var ErrNotFound = errors.New("not found")

// CorrectionRepo stores correction entries. An entry is unique per
// (source text, source lang, target lang); adding it again updates it.
type CorrectionRepo struct {
	*Repo
	now func() time.Time
}

// NewCorrectionRepo creates a CorrectionRepo over db.
func NewCorrectionRepo(db *sql.DB) *CorrectionRepo {
	return &CorrectionRepo{Repo: NewRepo(db), now: time.Now}
}

var correctionColumns = []string{
	"id",
	"source_text",
	"correct_translation",
	"source_lang",
	"target_lang",
	"category",
	"priority",
	"updated_at",
}

// Add inserts or updates e and returns the stored entry.
func (r *CorrectionRepo) Add(ctx context.Context, e correction.Entry) (correction.Entry, error) {
	if err := e.Validate(); err != nil {
		return correction.Entry{}, err
	}
	if e.Category == "" {
		e.Category = correction.CategoryOther
	}
	e.SourceText = strings.TrimSpace(e.SourceText)
	e.SourceLang = correction.NormalizeLang(e.SourceLang)
	e.TargetLang = correction.NormalizeLang(e.TargetLang)
	now := formatTime(r.now())

	q := r.SQ.
		Insert("corrections").
		Columns(
			"source_text",
			"correct_translation",
			"source_lang",
			"target_lang",
			"category",
			"priority",
			"created_at",
			"updated_at",
		).
		Values(
			e.SourceText,
			e.CorrectTranslation,
			e.SourceLang,
			e.TargetLang,
			string(e.Category),
			e.Priority,
			now,
			now,
		).
		Suffix(`ON CONFLICT(source_text, source_lang, target_lang) DO UPDATE SET
			correct_translation=excluded.correct_translation,
			category=excluded.category,
			priority=excluded.priority,
			updated_at=excluded.updated_at`)
	sqlStr, args, err := q.ToSql()
	if err != nil {
		return correction.Entry{}, err
	}
	if _, err := r.DB.ExecContext(ctx, sqlStr, args...); err != nil {
		return correction.Entry{}, fmt.Errorf("save correction: %w", err)
	}

	return r.find(ctx, sq.Eq{
		"source_text": e.SourceText,
		"source_lang": e.SourceLang,
		"target_lang": e.TargetLang,
	})
}

// Get returns the entry with the given ID.
func (r *CorrectionRepo) Get(ctx context.Context, id int64) (correction.Entry, error) {
	return r.find(ctx, sq.Eq{"id": id})
}

func (r *CorrectionRepo) find(ctx context.Context, where sq.Eq) (correction.Entry, error) {
	q := r.SQ.Select(correctionColumns...).From("corrections").Where(where).Limit(1)
	sqlStr, args, err := q.ToSql()
	if err != nil {
		return correction.Entry{}, err
	}
	e, err := scanCorrection(r.DB.QueryRowContext(ctx, sqlStr, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return correction.Entry{}, ErrNotFound
	}
	return e, err
}

// List returns entries for a language pair ordered best first, as the
// matcher ranks them. Empty language codes act as wildcards.
func (r *CorrectionRepo) List(ctx context.Context, sourceLang, targetLang string) ([]correction.Entry, error) {
	return r.list(ctx, sourceLang, targetLang, "priority DESC", "updated_at DESC", "id DESC")
}

func (r *CorrectionRepo) list(ctx context.Context, sourceLang, targetLang string, orderBy ...string) ([]correction.Entry, error) {
	q := r.SQ.Select(correctionColumns...).From("corrections").OrderBy(orderBy...)
	if s := correction.NormalizeLang(sourceLang); s != "" {
		q = q.Where(sq.Eq{"source_lang": s})
	}
	if t := correction.NormalizeLang(targetLang); t != "" {
		q = q.Where(sq.Eq{"target_lang": t})
	}
	sqlStr, args, err := q.ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := r.DB.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, fmt.Errorf("list corrections: %w", err)
	}
	defer rows.Close()

	var out []correction.Entry
	for rows.Next() {
		e, err := scanCorrection(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// Delete removes the entry with the given ID.
func (r *CorrectionRepo) Delete(ctx context.Context, id int64) error {
	sqlStr, args, err := r.SQ.Delete("corrections").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return err
	}
	res, err := r.DB.ExecContext(ctx, sqlStr, args...)
	if err != nil {
		return fmt.Errorf("delete correction: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// Count returns the number of stored entries.
func (r *CorrectionRepo) Count(ctx context.Context) (int, error) {
	sqlStr, args, err := r.SQ.Select("COUNT(*)").From("corrections").ToSql()
	if err != nil {
		return 0, err
	}
	var n int
	if err := r.DB.QueryRowContext(ctx, sqlStr, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count corrections: %w", err)
	}
	return n, nil
}

// LoadInto adds every stored entry to t, oldest first so the most recently
// updated entry ranks highest among equal priorities.
func (r *CorrectionRepo) LoadInto(ctx context.Context, t *correction.Table) (int, error) {
	entries, err := r.list(ctx, "", "", "updated_at ASC", "id ASC")
	if err != nil {
		return 0, err
	}
	return correction.Seed(t, entries)
}

// Seed stores entries that are not present yet and returns how many were
// added. Existing entries are left untouched.
func (r *CorrectionRepo) Seed(ctx context.Context, entries []correction.Entry) (int, error) {
	added := 0
	err := WithTx(ctx, r.DB, func(tx *sql.Tx) error {
		now := formatTime(r.now())
		for _, e := range entries {
			if err := e.Validate(); err != nil {
				return err
			}
			if e.Category == "" {
				e.Category = correction.CategoryOther
			}
			sqlStr, args, err := r.SQ.
				Insert("corrections").
				Columns("source_text", "correct_translation", "source_lang", "target_lang", "category", "priority", "created_at", "updated_at").
				Values(strings.TrimSpace(e.SourceText), e.CorrectTranslation,
					correction.NormalizeLang(e.SourceLang), correction.NormalizeLang(e.TargetLang),
					string(e.Category), e.Priority, now, now).
				Suffix("ON CONFLICT(source_text, source_lang, target_lang) DO NOTHING").
				ToSql()
			if err != nil {
				return err
			}
			res, err := tx.ExecContext(ctx, sqlStr, args...)
			if err != nil {
				return fmt.Errorf("seed correction %q: %w", e.SourceText, err)
			}
			n, _ := res.RowsAffected()
			added += int(n)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return added, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCorrection(row rowScanner) (correction.Entry, error) {
	var e correction.Entry
	var category, updated string
	if err := row.Scan(
		&e.ID,
		&e.SourceText,
		&e.CorrectTranslation,
		&e.SourceLang,
		&e.TargetLang,
		&category,
		&e.Priority,
		&updated,
	); err != nil {
		return correction.Entry{}, err
	}
	e.Category = correction.Category(category)
	e.AddedAt = parseTime(updated)
	return e, nil
}
