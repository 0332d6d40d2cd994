package devapi

import (
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fragmede/cpphub/internal/api"
)

var (
	ErrEmailTaken    = errors.New("email already registered")
	ErrNotFound      = errors.New("not found")
	ErrNotEnrolled   = errors.New("not enrolled")
	ErrAlreadyExists = errors.New("already enrolled")
)

const lessonsPerCourse = 10

type account struct {
	user         api.User
	passwordHash []byte
}

type enrollment struct {
	api.Enrollment
	progress api.UserProgress
}

// store is the in-memory backing data of the dev server.
type store struct {
	mu sync.RWMutex

	accounts     map[int64]*account
	byEmail      map[string]int64
	nextUserID   int64
	courses      []api.Course
	enrollments  map[int64]map[int64]*enrollment // user -> course
	nextEnrollID int64
	revoked      map[string]time.Time // jti -> expiry
}

func newStore(courses []api.Course) *store {
	return &store{
		accounts:     make(map[int64]*account),
		byEmail:      make(map[string]int64),
		nextUserID:   1,
		courses:      courses,
		enrollments:  make(map[int64]map[int64]*enrollment),
		nextEnrollID: 1,
		revoked:      make(map[string]time.Time),
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *store) createUser(name, email string, plan api.Plan, hash []byte, now time.Time) (api.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	email = normalizeEmail(email)
	if _, ok := s.byEmail[email]; ok {
		return api.User{}, ErrEmailTaken
	}
	u := api.User{
		ID:        s.nextUserID,
		Name:      strings.TrimSpace(name),
		Email:     email,
		Plan:      plan,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.nextUserID++
	s.accounts[u.ID] = &account{user: u, passwordHash: hash}
	s.byEmail[email] = u.ID
	return u, nil
}

func (s *store) accountByEmail(email string) (account, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.byEmail[normalizeEmail(email)]
	if !ok {
		return account{}, false
	}
	return *s.accounts[id], true
}

func (s *store) user(id int64) (api.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.accounts[id]
	if !ok {
		return api.User{}, false
	}
	return a.user, true
}

func (s *store) updateUser(id int64, upd api.ProfileUpdate, now time.Time) (api.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.accounts[id]
	if !ok {
		return api.User{}, ErrNotFound
	}
	if upd.Email != nil {
		email := normalizeEmail(*upd.Email)
		if other, taken := s.byEmail[email]; taken && other != id {
			return api.User{}, ErrEmailTaken
		}
		delete(s.byEmail, a.user.Email)
		s.byEmail[email] = id
		a.user.Email = email
	}
	if upd.Name != nil {
		a.user.Name = strings.TrimSpace(*upd.Name)
	}
	if upd.Plan != nil {
		a.user.Plan = *upd.Plan
	}
	if upd.Avatar != nil {
		a.user.Avatar = *upd.Avatar
	}
	a.user.UpdatedAt = now
	return a.user, nil
}

func (s *store) revoke(jti string, exp time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.revoked[jti] = exp
}

func (s *store) isRevoked(jti string, now time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, exp := range s.revoked {
		if now.After(exp) {
			delete(s.revoked, id)
		}
	}
	_, ok := s.revoked[jti]
	return ok
}

func (s *store) listCourses() []api.Course {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]api.Course(nil), s.courses...)
}

func (s *store) course(id int64) (api.Course, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, c := range s.courses {
		if c.ID == id {
			return c, true
		}
	}
	return api.Course{}, false
}

func (s *store) enroll(userID, courseID int64, now time.Time) (api.Enrollment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	byCourse := s.enrollments[userID]
	if byCourse == nil {
		byCourse = make(map[int64]*enrollment)
		s.enrollments[userID] = byCourse
	}
	if e, ok := byCourse[courseID]; ok {
		return e.Enrollment, ErrAlreadyExists
	}
	e := &enrollment{
		Enrollment: api.Enrollment{
			ID:         s.nextEnrollID,
			UserID:     userID,
			CourseID:   courseID,
			EnrolledAt: now,
		},
		progress: api.UserProgress{
			ID:       s.nextEnrollID,
			UserID:   userID,
			CourseID: courseID,
		},
	}
	s.nextEnrollID++
	byCourse[courseID] = e

	for i := range s.courses {
		if s.courses[i].ID == courseID {
			s.courses[i].StudentsCount++
		}
	}
	return e.Enrollment, nil
}

// updateProgress sets the completion percentage and adds spent minutes.
func (s *store) updateProgress(userID, courseID int64, pct, minutes int, now time.Time) (api.UserProgress, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.enrollments[userID][courseID]
	if !ok {
		return api.UserProgress{}, ErrNotEnrolled
	}
	e.ProgressPercentage = pct
	e.progress.TimeSpent += minutes
	e.progress.LessonID = int64(pct * lessonsPerCourse / 100)
	if pct == 100 {
		if e.CompletedAt == nil {
			t := now
			e.CompletedAt = &t
			e.progress.CompletedAt = &t
		}
	} else {
		e.CompletedAt = nil
		e.progress.CompletedAt = nil
	}
	return e.progress, nil
}

// enrolledCourses returns the user's courses ordered by enrollment.
func (s *store) enrolledCourses(userID int64) []api.Course {
	s.mu.RLock()
	defer s.mu.RUnlock()

	es := make([]*enrollment, 0, len(s.enrollments[userID]))
	for _, e := range s.enrollments[userID] {
		es = append(es, e)
	}
	sort.Slice(es, func(i, j int) bool { return es[i].ID < es[j].ID })

	out := make([]api.Course, 0, len(es))
	for _, e := range es {
		for _, c := range s.courses {
			if c.ID == e.CourseID {
				out = append(out, c)
			}
		}
	}
	return out
}

type dashboard struct {
	EnrolledCourses  int              `json:"enrolled_courses"`
	CompletedCourses int              `json:"completed_courses"`
	AverageProgress  float64          `json:"average_progress"`
	HoursLearned     float64          `json:"hours_learned"`
	Plan             api.Plan         `json:"plan"`
	Enrollments      []api.Enrollment `json:"enrollments"`
}

func (s *store) dashboard(userID int64) dashboard {
	s.mu.RLock()
	defer s.mu.RUnlock()

	d := dashboard{Enrollments: []api.Enrollment{}}
	if a, ok := s.accounts[userID]; ok {
		d.Plan = a.user.Plan
	}
	var total, minutes int
	for _, e := range s.enrollments[userID] {
		d.EnrolledCourses++
		if e.CompletedAt != nil {
			d.CompletedCourses++
		}
		total += e.ProgressPercentage
		minutes += e.progress.TimeSpent
		d.Enrollments = append(d.Enrollments, e.Enrollment)
	}
	sort.Slice(d.Enrollments, func(i, j int) bool { return d.Enrollments[i].ID < d.Enrollments[j].ID })
	if d.EnrolledCourses > 0 {
		d.AverageProgress = float64(total) / float64(d.EnrolledCourses)
	}
	d.HoursLearned = float64(minutes) / 60
	return d
}
