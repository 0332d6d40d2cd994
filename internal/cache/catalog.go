package cache

import (
	"context"
	"time"

	"github.com/fragmede/cpphub/internal/api"
)

// CourseFetcher loads the live catalog.
type CourseFetcher interface {
	Courses(ctx context.Context) ([]api.Course, error)
}

// Catalog is the result of LoadCatalog.
type Catalog struct {
	Courses []api.Course
	// Stale is set when the fetch failed and an expired cache was served.
	Stale bool
	// FetchErr is the fetch failure behind a stale result.
	FetchErr error
	// StoreErr is a failed cache write. Courses are still the live result.
	StoreErr error
}

// LoadCatalog returns the course catalog, preferring a fresh cache. On a
// miss, an expired cache or refresh it fetches from src and stores the
// result. If the fetch fails and any cached copy exists, that copy is
// returned marked stale. A failed cache write is reported in StoreErr
// rather than failing the load.
func (d *DB) LoadCatalog(ctx context.Context, src CourseFetcher, ttl time.Duration, refresh bool) (Catalog, error) {
	cached, fresh, cacheErr := d.GetCourses(ctx, ttl)
	if cacheErr == nil && fresh && !refresh {
		return Catalog{Courses: cached}, nil
	}

	courses, err := src.Courses(ctx)
	if err != nil {
		if len(cached) > 0 {
			return Catalog{Courses: cached, Stale: true, FetchErr: err}, nil
		}
		return Catalog{}, err
	}

	return Catalog{Courses: courses, StoreErr: d.PutCourses(ctx, courses)}, nil
}
