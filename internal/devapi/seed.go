package devapi

import (
	"time"

	"github.com/fragmede/cpphub/internal/api"
)

// Demo account created by WithDemoUser.
const (
	DemoEmail    = "demo@cpphub.dev"
	DemoPassword = "password"
)

func seedCourses(now time.Time) []api.Course {
	courses := []api.Course{
		{
			Title:       "C++ Fundamentals",
			Description: "<p>Start from zero: variables, control flow, functions and your first <code>main()</code>.</p><p>Every lesson ends with a hands-on exercise.</p>",
			Duration:    "6 weeks",
			Level:       api.LevelBeginner,
			Instructor:  "Bjarne Stroustrup",
			Category:    "Fundamentals",
			Rating:      4.8,
		},
		{
			Title:       "Pointers and Memory",
			Description: "<p>Demystify pointers, references and the stack versus the heap.</p><pre>int* p = new int(42);\ndelete p;</pre><p>Then leave <code>new</code> behind with <strong>smart pointers</strong>.</p>",
			Duration:    "4 weeks",
			Level:       api.LevelIntermediate,
			Price:       49,
			Instructor:  "Herb Sutter",
			Category:    "Memory",
			Rating:      4.9,
		},
		{
			Title:       "Object-Oriented C++",
			Description: "<p>Classes, constructors, inheritance and virtual dispatch, plus the rule of five.</p>",
			Duration:    "5 weeks",
			Level:       api.LevelIntermediate,
			Price:       39,
			Instructor:  "Kate Gregory",
			Category:    "Design",
			Rating:      4.7,
		},
		{
			Title:       "The STL in Depth",
			Description: "<p>Containers, iterators and algorithms. Learn when to reach for <code>std::vector</code> and when not to.</p>",
			Duration:    "5 weeks",
			Level:       api.LevelIntermediate,
			Instructor:  "Nicolai Josuttis",
			Category:    "Standard Library",
			Rating:      4.6,
		},
		{
			Title:       "Modern Templates",
			Description: "<p>Function and class templates, <em>concepts</em>, variadic packs and compile-time programming with <code>constexpr</code>.</p>",
			Duration:    "6 weeks",
			Level:       api.LevelAdvanced,
			Price:       59,
			Instructor:  "Scott Meyers",
			Category:    "Generic Programming",
			Rating:      4.8,
		},
		{
			Title:       "Concurrency in C++",
			Description: "<p>Threads, <code>std::atomic</code>, mutexes and the memory model. Build a lock-free queue by the end.</p>",
			Duration:    "4 weeks",
			Level:       api.LevelAdvanced,
			Price:       59,
			Instructor:  "Anthony Williams",
			Category:    "Concurrency",
			Rating:      4.9,
		},
	}
	for i := range courses {
		courses[i].ID = int64(i + 1)
		courses[i].ImageURL = "https://images.cpphub.dev/courses/" + slug(courses[i].Title) + ".png"
		courses[i].StudentsCount = 1200 * (len(courses) - i)
		courses[i].CreatedAt = now
		courses[i].UpdatedAt = now
	}
	return courses
}

func slug(s string) string {
	out := make([]rune, 0, len(s))
	dash := false
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			out = append(out, r)
			dash = false
		case r >= 'A' && r <= 'Z':
			out = append(out, r+'a'-'A')
			dash = false
		case r == '+':
			out = append(out, 'p')
			dash = false
		default:
			if !dash && len(out) > 0 {
				out = append(out, '-')
				dash = true
			}
		}
	}
	if dash {
		out = out[:len(out)-1]
	}
	return string(out)
}
