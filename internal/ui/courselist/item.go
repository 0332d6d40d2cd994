package courselist

import (
	"fmt"
	"strings"

	"github.com/fragmede/cpphub/internal/api"
	"github.com/fragmede/cpphub/internal/render"
)

// CourseItem wraps a course for the bubbles list.
type CourseItem struct {
	api.Course
	Index int
}

func (c CourseItem) Title() string {
	return c.Course.Title
}

func (c CourseItem) Price() string {
	return render.Price(c.Course.Price)
}

// Description is the metadata row. The level is drawn as a badge instead.
func (c CourseItem) Description() string {
	parts := make([]string, 0, 4)
	if c.Duration != "" {
		parts = append(parts, c.Duration)
	}
	if c.Instructor != "" {
		parts = append(parts, "by "+c.Instructor)
	}
	if c.Rating > 0 {
		parts = append(parts, fmt.Sprintf("★ %.1f", c.Rating))
	}
	if c.StudentsCount > 0 {
		parts = append(parts, fmt.Sprintf("%d students", c.StudentsCount))
	}
	return strings.Join(parts, " | ")
}

func (c CourseItem) FilterValue() string {
	return c.Course.Title + " " + c.Category + " " + string(c.Level)
}
