package api

import (
	"encoding/json"
	"fmt"
	"time"
)

// Plan is the subscription tier of a user.
type Plan string

const (
	PlanFree    Plan = "free"
	PlanPremium Plan = "premium"
)

// Level is the difficulty of a course.
type Level string

const (
	LevelBeginner     Level = "beginner"
	LevelIntermediate Level = "intermediate"
	LevelAdvanced     Level = "advanced"
)

// User is the identity record returned by the auth endpoints.
type User struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Plan      Plan      `json:"plan"`
	Avatar    string    `json:"avatar,omitempty"`
	CreatedAt time.Time `json:"created_at,omitzero"`
	UpdatedAt time.Time `json:"updated_at,omitzero"`
}

// IsPremium reports whether the user is on the premium plan.
func (u *User) IsPremium() bool {
	return u != nil && u.Plan == PlanPremium
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RegisterRequest struct {
	Name                 string `json:"name"`
	Email                string `json:"email"`
	Password             string `json:"password"`
	PasswordConfirmation string `json:"password_confirmation"`
	Plan                 Plan   `json:"plan,omitempty"`
}

// AuthResponse is returned by login and register.
type AuthResponse struct {
	User    User   `json:"user"`
	Token   string `json:"token"`
	Message string `json:"message"`
}

// ProfileUpdate is a partial User for PUT /auth/user. Nil fields are left
// untouched by the server.
type ProfileUpdate struct {
	Name   *string `json:"name,omitempty"`
	Email  *string `json:"email,omitempty"`
	Plan   *Plan   `json:"plan,omitempty"`
	Avatar *string `json:"avatar,omitempty"`
}

// Course is a course in the catalog.
type Course struct {
	ID            int64     `json:"id"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	ImageURL      string    `json:"image_url"`
	Duration      string    `json:"duration"`
	Level         Level     `json:"level"`
	Price         float64   `json:"price"`
	Instructor    string    `json:"instructor"`
	Category      string    `json:"category"`
	Rating        float64   `json:"rating"`
	StudentsCount int       `json:"students_count"`
	CreatedAt     time.Time `json:"created_at,omitzero"`
	UpdatedAt     time.Time `json:"updated_at,omitzero"`
}

// IsFree reports whether the course costs nothing.
func (c Course) IsFree() bool {
	return c.Price == 0
}

type Enrollment struct {
	ID                 int64      `json:"id"`
	UserID             int64      `json:"user_id"`
	CourseID           int64      `json:"course_id"`
	EnrolledAt         time.Time  `json:"enrolled_at"`
	CompletedAt        *time.Time `json:"completed_at,omitempty"`
	ProgressPercentage int        `json:"progress_percentage"`
}

type UserProgress struct {
	ID          int64      `json:"id"`
	UserID      int64      `json:"user_id"`
	CourseID    int64      `json:"course_id"`
	LessonID    int64      `json:"lesson_id"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	TimeSpent   int        `json:"time_spent"`
}

// Dashboard is the aggregate returned by GET /dashboard. The shape is
// defined by the backend; the well-known counters are decoded into fields
// and everything is kept in Raw.
type Dashboard struct {
	EnrolledCourses  int     `json:"enrolled_courses"`
	CompletedCourses int     `json:"completed_courses"`
	AverageProgress  float64 `json:"average_progress"`
	HoursLearned     float64 `json:"hours_learned"`

	Raw map[string]json.RawMessage `json:"-"`
}

func (d *Dashboard) UnmarshalJSON(b []byte) error {
	type plain Dashboard
	var p plain
	if err := json.Unmarshal(b, &p); err != nil {
		return err
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	*d = Dashboard(p)
	d.Raw = raw
	return nil
}

// Enrollments decodes the "enrollments" entry of the aggregate, keyed by
// course ID. It is nil when the backend sends none.
func (d *Dashboard) Enrollments() (map[int64]Enrollment, error) {
	raw, ok := d.Raw["enrollments"]
	if !ok {
		return nil, nil
	}
	var list []Enrollment
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil, fmt.Errorf("decoding enrollments: %w", err)
	}
	out := make(map[int64]Enrollment, len(list))
	for _, e := range list {
		out[e.CourseID] = e
	}
	return out, nil
}

// Error is a non-2xx API response.
type Error struct {
	Status  int                 `json:"status"`
	Message string              `json:"message"`
	Errors  map[string][]string `json:"errors,omitempty"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.Status, e.Message)
}
