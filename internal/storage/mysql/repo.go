// Package mysql stores property reviews and reads them back as loader tables.
package mysql

import (
	"context"
	"crypto/sha1"
	"database/sql"
	"encoding/hex"
	"strings"
	"time"

	"review_insight/internal/domain"
	"review_insight/internal/loader"
)

// Ratings are stored on the 1..5 scale, so tables read back load with RatingScale 5.
var columns = []string{"title", "text", "rating", "created_at", "source"}

const batchSize = 500

func valStr(p *string) any {
	if p == nil {
		return nil
	}
	return *p
}
func valInt(p *int) any {
	if p == nil {
		return nil
	}
	return *p
}
func valTime(p *time.Time) any {
	if p == nil {
		return nil
	}
	return *p
}
func valText(s string) any {
	if s == "" {
		return nil
	}
	return s
}

type Repo struct{ db *sql.DB }

func New(db *sql.DB) *Repo { return &Repo{db: db} }

// Migrate creates the reviews table when missing.
func (r *Repo) Migrate(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, createReviewsSQL)
	return err
}

// SourceID derives a stable key from a review's content so re-importing the
// same file updates rows instead of duplicating them.
func SourceID(rv domain.Review) string {
	var date string
	if rv.Date != nil {
		date = rv.Date.Format("2006-01-02")
	}
	sum := sha1.Sum([]byte(rv.Title + "\x00" + rv.Text + "\x00" + date))
	return hex.EncodeToString(sum[:])
}

// UpsertReviews stores reviews for a property in batches.
func (r *Repo) UpsertReviews(ctx context.Context, propertyID int64, rs []domain.Review) error {
	for start := 0; start < len(rs); start += batchSize {
		chunk := rs[start:min(start+batchSize, len(rs))]
		values := make([]string, 0, len(chunk))
		args := make([]any, 0, len(chunk)*7)
		for _, rv := range chunk {
			values = append(values, "(?,?,?,?,?,?,?)")
			args = append(args,
				propertyID,
				SourceID(rv),
				valInt(rv.Rating),
				valText(rv.Title),
				valText(rv.Text),
				valTime(rv.Date),
				valStr(rv.Source),
			)
		}
		q := insertReviewsPrefix + strings.Join(values, ",") + insertReviewsOnDup
		if _, err := r.db.ExecContext(ctx, q, args...); err != nil {
			return err
		}
	}
	return nil
}

// PropertyReviews returns a property's reviews as a table. A property with no
// reviews yields an empty table, which the loader rejects.
func (r *Repo) PropertyReviews(ctx context.Context, id int64) (loader.Table, error) {
	rows, err := r.db.QueryContext(ctx, propertyReviewsSQL, id)
	if err != nil {
		return loader.Table{}, err
	}
	defer rows.Close()

	t := loader.Table{Columns: columns}
	for rows.Next() {
		var (
			title, text, source sql.NullString
			rating              sql.NullFloat64
			createdAt           sql.NullTime
		)
		if err := rows.Scan(&title, &text, &rating, &createdAt, &source); err != nil {
			return loader.Table{}, err
		}
		row := loader.Row{}
		if title.Valid {
			row["title"] = title.String
		}
		if text.Valid {
			row["text"] = text.String
		}
		if rating.Valid {
			row["rating"] = rating.Float64
		}
		if createdAt.Valid {
			row["created_at"] = createdAt.Time
		}
		if source.Valid {
			row["source"] = source.String
		}
		t.Rows = append(t.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return loader.Table{}, err
	}
	return t, nil
}
