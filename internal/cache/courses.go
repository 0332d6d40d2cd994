package cache

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/fragmede/cpphub/internal/api"
)

// GetCourses returns the cached catalog ordered by ID. Returns (courses,
// isFresh, error); courses is nil on a cache miss. The catalog is fresh
// when its oldest entry is within ttl.
func (d *DB) GetCourses(ctx context.Context, ttl time.Duration) ([]api.Course, bool, error) {
	rows, err := d.db.QueryContext(ctx, `SELECT payload, fetched_at FROM courses ORDER BY id`)
	if err != nil {
		return nil, false, fmt.Errorf("querying courses: %w", err)
	}
	defer rows.Close()

	var (
		courses []api.Course
		oldest  int64
	)
	for rows.Next() {
		var payload string
		var fetchedAt int64
		if err := rows.Scan(&payload, &fetchedAt); err != nil {
			return nil, false, err
		}
		var c api.Course
		if err := json.Unmarshal([]byte(payload), &c); err != nil {
			return nil, false, fmt.Errorf("decoding cached course: %w", err)
		}
		courses = append(courses, c)
		if oldest == 0 || fetchedAt < oldest {
			oldest = fetchedAt
		}
	}
	if err := rows.Err(); err != nil {
		return nil, false, err
	}
	if len(courses) == 0 {
		return nil, false, nil
	}

	isFresh := time.Since(time.Unix(oldest, 0)) < ttl
	return courses, isFresh, nil
}

// GetCourse returns one cached course. Returns nil on a cache miss.
func (d *DB) GetCourse(ctx context.Context, id int64, ttl time.Duration) (*api.Course, bool, error) {
	var payload string
	var fetchedAt int64
	err := d.db.QueryRowContext(ctx, `SELECT payload, fetched_at FROM courses WHERE id = ?`, id).Scan(&payload, &fetchedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("querying course %d: %w", id, err)
	}

	var c api.Course
	if err := json.Unmarshal([]byte(payload), &c); err != nil {
		return nil, false, fmt.Errorf("decoding cached course: %w", err)
	}
	isFresh := time.Since(time.Unix(fetchedAt, 0)) < ttl
	return &c, isFresh, nil
}

// PutCourses replaces the cached catalog with courses.
func (d *DB) PutCourses(ctx context.Context, courses []api.Course) (err error) {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	if _, err := tx.ExecContext(ctx, `DELETE FROM courses`); err != nil {
		return fmt.Errorf("clearing courses: %w", err)
	}

	now := time.Now().Unix()
	for _, c := range courses {
		payload, err := json.Marshal(c)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `INSERT INTO courses (id, payload, fetched_at) VALUES (?, ?, ?)`,
			c.ID, string(payload), now); err != nil {
			return fmt.Errorf("storing course %d: %w", c.ID, err)
		}
	}
	return tx.Commit()
}
