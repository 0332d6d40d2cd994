package api

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

const (
	pathCourses     = "/courses"
	pathUserCourses = "/user/courses"
	pathDashboard   = "/dashboard"
)

// Courses fetches the public catalog.
func (c *Client) Courses(ctx context.Context) ([]Course, error) {
	var courses []Course
	if err := c.get(ctx, pathCourses, &courses); err != nil {
		return nil, fmt.Errorf("fetching courses: %w", err)
	}
	return courses, nil
}

// Course fetches a single course by ID.
func (c *Client) Course(ctx context.Context, id int64) (*Course, error) {
	var course Course
	if err := c.get(ctx, fmt.Sprintf("%s/%d", pathCourses, id), &course); err != nil {
		return nil, err
	}
	return &course, nil
}

// Enroll enrolls the current user in a course.
func (c *Client) Enroll(ctx context.Context, courseID int64) (*Enrollment, error) {
	var enrollment Enrollment
	if err := c.post(ctx, fmt.Sprintf("%s/%d/enroll", pathCourses, courseID), nil, &enrollment); err != nil {
		return nil, err
	}
	return &enrollment, nil
}

// UserCourses lists the courses the current user is enrolled in.
func (c *Client) UserCourses(ctx context.Context) ([]Course, error) {
	var courses []Course
	if err := c.get(ctx, pathUserCourses, &courses); err != nil {
		return nil, fmt.Errorf("fetching user courses: %w", err)
	}
	return courses, nil
}

// UpdateProgress records course progress as a percentage.
func (c *Client) UpdateProgress(ctx context.Context, courseID int64, progress int) (*UserProgress, error) {
	body := struct {
		Progress int `json:"progress"`
	}{progress}

	var up UserProgress
	if err := c.put(ctx, fmt.Sprintf("%s/%d/progress", pathUserCourses, courseID), body, &up); err != nil {
		return nil, err
	}
	return &up, nil
}

// Dashboard fetches the dashboard aggregate.
func (c *Client) Dashboard(ctx context.Context) (*Dashboard, error) {
	var d Dashboard
	if err := c.get(ctx, pathDashboard, &d); err != nil {
		return nil, fmt.Errorf("fetching dashboard: %w", err)
	}
	return &d, nil
}

// DashboardData is everything the dashboard page renders.
type DashboardData struct {
	Summary *Dashboard
	Courses []Course
}

// LoadDashboard fetches the dashboard aggregate and the user's courses
// concurrently. The first failure cancels the other request.
func (c *Client) LoadDashboard(ctx context.Context) (*DashboardData, error) {
	var data DashboardData

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		d, err := c.Dashboard(ctx)
		if err != nil {
			return err
		}
		data.Summary = d
		return nil
	})
	g.Go(func() error {
		courses, err := c.UserCourses(ctx)
		if err != nil {
			return err
		}
		data.Courses = courses
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &data, nil
}
