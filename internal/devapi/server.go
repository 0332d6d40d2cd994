// Package devapi is an in-memory implementation of the C++ Hub backend for
// local development and end-to-end tests of the client.
package devapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/crypto/bcrypt"

	"github.com/fragmede/cpphub/internal/api"
	"github.com/fragmede/cpphub/internal/logging"
)

const (
	defaultIssuer   = "cpphub-devapi"
	defaultTokenTTL = 24 * time.Hour
	minPassword     = 6
	maxBody         = 1 << 20
)

var emailPattern = regexp.MustCompile(`^\S+@\S+\.\S+$`)

type Server struct {
	store    *store
	secret   []byte
	issuer   string
	tokenTTL time.Duration
	cost     int
	now      func() time.Time
	log      logging.Logger
	demo     bool
}

type Option func(*Server)

func WithLogger(l logging.Logger) Option {
	return func(s *Server) { s.log = l }
}

func WithTokenTTL(d time.Duration) Option {
	return func(s *Server) { s.tokenTTL = d }
}

// WithBcryptCost sets the password hashing cost. Tests use bcrypt.MinCost.
func WithBcryptCost(cost int) Option {
	return func(s *Server) { s.cost = cost }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Server) { s.now = now }
}

// WithDemoUser seeds a premium account with DemoEmail and DemoPassword.
func WithDemoUser() Option {
	return func(s *Server) { s.demo = true }
}

// NewServer creates a server signing tokens with secret.
func NewServer(secret []byte, opts ...Option) (*Server, error) {
	s := &Server{
		secret:   secret,
		issuer:   defaultIssuer,
		tokenTTL: defaultTokenTTL,
		cost:     bcrypt.DefaultCost,
		now:      time.Now,
		log:      logging.Discard(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if len(s.secret) == 0 {
		return nil, errors.New("devapi: empty signing secret")
	}
	s.store = newStore(seedCourses(s.now().UTC()))

	if s.demo {
		hash, err := bcrypt.GenerateFromPassword([]byte(DemoPassword), s.cost)
		if err != nil {
			return nil, fmt.Errorf("hashing demo password: %w", err)
		}
		if _, err := s.store.createUser("Demo Coder", DemoEmail, api.PlanPremium, hash, s.now().UTC()); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.requestLog)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/auth", func(r chi.Router) {
		r.Post("/login", s.handleLogin)
		r.Post("/register", s.handleRegister)
		r.With(s.authMiddleware).Post("/logout", s.handleLogout)
		r.With(s.authMiddleware).Get("/user", s.handleGetUser)
		r.With(s.authMiddleware).Put("/user", s.handleUpdateUser)
	})

	r.Get("/courses", s.handleListCourses)
	r.Get("/courses/{courseID}", s.handleGetCourse)
	r.With(s.authMiddleware).Post("/courses/{courseID}/enroll", s.handleEnroll)

	r.Group(func(r chi.Router) {
		r.Use(s.authMiddleware)
		r.Get("/user/courses", s.handleUserCourses)
		r.Put("/user/courses/{courseID}/progress", s.handleProgress)
		r.Get("/dashboard", s.handleDashboard)
	})

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, "Not Found.")
	})
	return r
}

func (s *Server) requestLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.log.Info(r.Context(), "request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
		)
	})
}

type authResponse struct {
	User    api.User `json:"user"`
	Token   string   `json:"token"`
	Message string   `json:"message"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req api.LoginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Malformed request body.")
		return
	}

	fields := fieldErrors{}
	if strings.TrimSpace(req.Email) == "" {
		fields.add("email", "The email field is required.")
	}
	if req.Password == "" {
		fields.add("password", "The password field is required.")
	}
	if len(fields) > 0 {
		writeValidation(w, fields)
		return
	}

	acct, ok := s.store.accountByEmail(req.Email)
	if !ok || bcrypt.CompareHashAndPassword(acct.passwordHash, []byte(req.Password)) != nil {
		writeError(w, http.StatusUnauthorized, "Invalid credentials.")
		return
	}

	s.respondWithToken(w, r, http.StatusOK, acct.user, "Login successful.")
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req api.RegisterRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Malformed request body.")
		return
	}

	fields := fieldErrors{}
	if strings.TrimSpace(req.Name) == "" {
		fields.add("name", "The name field is required.")
	}
	switch email := strings.TrimSpace(req.Email); {
	case email == "":
		fields.add("email", "The email field is required.")
	case !emailPattern.MatchString(email):
		fields.add("email", "The email must be a valid email address.")
	}
	if len(req.Password) < minPassword {
		fields.add("password", "The password must be at least 6 characters.")
	}
	if req.Password != req.PasswordConfirmation {
		fields.add("password", "The password confirmation does not match.")
	}
	plan := req.Plan
	switch plan {
	case "":
		plan = api.PlanFree
	case api.PlanFree, api.PlanPremium:
	default:
		fields.add("plan", "The selected plan is invalid.")
	}
	if len(fields) > 0 {
		writeValidation(w, fields)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.cost)
	if err != nil {
		s.log.Error(r.Context(), "hashing password", "error", err)
		writeError(w, http.StatusInternalServerError, "Server Error")
		return
	}

	user, err := s.store.createUser(req.Name, req.Email, plan, hash, s.now().UTC())
	if errors.Is(err, ErrEmailTaken) {
		writeValidation(w, fieldErrors{"email": {"The email has already been taken."}})
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Server Error")
		return
	}

	s.respondWithToken(w, r, http.StatusCreated, user, "Registration successful.")
}

func (s *Server) respondWithToken(w http.ResponseWriter, r *http.Request, status int, user api.User, msg string) {
	token, _, err := issueToken(s.secret, s.issuer, s.now(), s.tokenTTL, user.ID)
	if err != nil {
		s.log.Error(r.Context(), "signing token", "error", err)
		writeError(w, http.StatusInternalServerError, "Server Error")
		return
	}
	writeJSON(w, status, authResponse{User: user, Token: token, Message: msg})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	claims := claimsFromContext(r.Context())
	exp := s.now().Add(s.tokenTTL)
	if claims.ExpiresAt != nil {
		exp = claims.ExpiresAt.Time
	}
	s.store.revoke(claims.ID, exp)
	writeJSON(w, http.StatusOK, map[string]string{"message": "Logged out."})
}

func (s *Server) handleGetUser(w http.ResponseWriter, r *http.Request) {
	user, ok := s.store.user(claimsFromContext(r.Context()).UserID)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthenticated.")
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (s *Server) handleUpdateUser(w http.ResponseWriter, r *http.Request) {
	var upd api.ProfileUpdate
	if err := decodeJSON(w, r, &upd); err != nil {
		writeError(w, http.StatusBadRequest, "Malformed request body.")
		return
	}

	fields := fieldErrors{}
	if upd.Name != nil && strings.TrimSpace(*upd.Name) == "" {
		fields.add("name", "The name field is required.")
	}
	if upd.Email != nil && !emailPattern.MatchString(strings.TrimSpace(*upd.Email)) {
		fields.add("email", "The email must be a valid email address.")
	}
	if upd.Plan != nil && *upd.Plan != api.PlanFree && *upd.Plan != api.PlanPremium {
		fields.add("plan", "The selected plan is invalid.")
	}
	if len(fields) > 0 {
		writeValidation(w, fields)
		return
	}

	user, err := s.store.updateUser(claimsFromContext(r.Context()).UserID, upd, s.now().UTC())
	switch {
	case errors.Is(err, ErrEmailTaken):
		writeValidation(w, fieldErrors{"email": {"The email has already been taken."}})
	case err != nil:
		writeError(w, http.StatusUnauthorized, "Unauthenticated.")
	default:
		writeJSON(w, http.StatusOK, user)
	}
}

func (s *Server) handleListCourses(w http.ResponseWriter, _ *http.Request) {
	writeData(w, http.StatusOK, s.store.listCourses())
}

func (s *Server) handleGetCourse(w http.ResponseWriter, r *http.Request) {
	course, ok := s.courseParam(w, r)
	if !ok {
		return
	}
	writeData(w, http.StatusOK, course)
}

func (s *Server) handleEnroll(w http.ResponseWriter, r *http.Request) {
	course, ok := s.courseParam(w, r)
	if !ok {
		return
	}
	claims := claimsFromContext(r.Context())
	user, ok := s.store.user(claims.UserID)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthenticated.")
		return
	}
	if !course.IsFree() && !user.IsPremium() {
		writeError(w, http.StatusForbidden, "Upgrade to premium to enroll in this course.")
		return
	}

	e, err := s.store.enroll(user.ID, course.ID, s.now().UTC())
	if errors.Is(err, ErrAlreadyExists) {
		writeData(w, http.StatusOK, e)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Server Error")
		return
	}
	writeData(w, http.StatusCreated, e)
}

func (s *Server) handleUserCourses(w http.ResponseWriter, r *http.Request) {
	writeData(w, http.StatusOK, s.store.enrolledCourses(claimsFromContext(r.Context()).UserID))
}

type progressRequest struct {
	Progress *int `json:"progress"`
	Minutes  int  `json:"minutes,omitempty"`
}

// minutesPerUpdate is credited when a progress update does not say how
// long the learner spent.
const minutesPerUpdate = 15

func (s *Server) handleProgress(w http.ResponseWriter, r *http.Request) {
	course, ok := s.courseParam(w, r)
	if !ok {
		return
	}
	var req progressRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Malformed request body.")
		return
	}
	if req.Progress == nil || *req.Progress < 0 || *req.Progress > 100 {
		writeValidation(w, fieldErrors{"progress": {"The progress must be between 0 and 100."}})
		return
	}
	minutes := req.Minutes
	if minutes <= 0 {
		minutes = minutesPerUpdate
	}

	up, err := s.store.updateProgress(claimsFromContext(r.Context()).UserID, course.ID, *req.Progress, minutes, s.now().UTC())
	if errors.Is(err, ErrNotEnrolled) {
		writeError(w, http.StatusNotFound, "You are not enrolled in this course.")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Server Error")
		return
	}
	writeData(w, http.StatusOK, up)
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	writeData(w, http.StatusOK, s.store.dashboard(claimsFromContext(r.Context()).UserID))
}

func (s *Server) courseParam(w http.ResponseWriter, r *http.Request) (api.Course, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "courseID"), 10, 64)
	if err != nil {
		writeError(w, http.StatusNotFound, "Course not found.")
		return api.Course{}, false
	}
	course, ok := s.store.course(id)
	if !ok {
		writeError(w, http.StatusNotFound, "Course not found.")
		return api.Course{}, false
	}
	return course, true
}

type claimsKey struct{}

func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r.Header.Get("Authorization"))
		if token == "" {
			writeError(w, http.StatusUnauthorized, "Unauthenticated.")
			return
		}

		now := s.now()
		claims, err := parseToken(s.secret, s.issuer, now, token)
		if err != nil || s.store.isRevoked(claims.ID, now) {
			writeError(w, http.StatusUnauthorized, "Unauthenticated.")
			return
		}

		ctx := context.WithValue(r.Context(), claimsKey{}, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func claimsFromContext(ctx context.Context) *Claims {
	claims, _ := ctx.Value(claimsKey{}).(*Claims)
	return claims
}

func bearerToken(header string) string {
	const prefix = "Bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}

type fieldErrors map[string][]string

func (f fieldErrors) add(field, msg string) {
	f[field] = append(f[field], msg)
}

type errorBody struct {
	Message string      `json:"message"`
	Errors  fieldErrors `json:"errors,omitempty"`
	Status  int         `json:"status"`
}

type envelope struct {
	Data    any    `json:"data"`
	Message string `json:"message"`
	Status  string `json:"status"`
}

func decodeJSON(w http.ResponseWriter, r *http.Request, out any) error {
	return json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBody)).Decode(out)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// writeData wraps payload in the success envelope used by the course
// routes.
func writeData(w http.ResponseWriter, status int, payload any) {
	writeJSON(w, status, envelope{Data: payload, Status: "success"})
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorBody{Message: msg, Status: status})
}

func writeValidation(w http.ResponseWriter, fields fieldErrors) {
	writeJSON(w, http.StatusUnprocessableEntity, errorBody{
		Message: "The given data was invalid.",
		Errors:  fields,
		Status:  http.StatusUnprocessableEntity,
	})
}
