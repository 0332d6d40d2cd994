package messages

import (
	"github.com/fragmede/cpphub/internal/api"
	"github.com/fragmede/cpphub/internal/session"
)

// View transition messages.
type (
	OpenCoursesMsg   struct{}
	OpenCourseMsg    struct{ CourseID int64 }
	OpenDashboardMsg struct{}
	GoBackMsg        struct{}

	// OpenAuthMsg asks the root to show the auth modal. Plan preselects
	// the plan picker in register mode; empty keeps the default.
	OpenAuthMsg struct {
		Mode session.AuthMode
		Plan api.Plan
	}
)

// Data messages.
type (
	// SessionChangedMsg is sent whenever the session store changes. The
	// receiver reads the store for the current state.
	SessionChangedMsg struct{}

	AuthResultMsg struct {
		Mode session.AuthMode
		Err  error
	}

	CoursesLoadedMsg struct {
		Courses []api.Course
		Stale   bool
		Err     error
	}

	CourseLoadedMsg struct {
		Course *api.Course
		Err    error
	}

	EnrollResultMsg struct {
		CourseID   int64
		Enrollment *api.Enrollment
		Err        error
	}

	DashboardLoadedMsg struct {
		Data *api.DashboardData
		Err  error
	}

	ProgressResultMsg struct {
		CourseID int64
		Progress *api.UserProgress
		Err      error
	}

	StatusMsg struct {
		Text    string
		IsError bool
	}
)
