package devapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/fragmede/cpphub/internal/api"
	"github.com/fragmede/cpphub/internal/session"
)

var testSecret = []byte("test-secret")

func newTestServer(t *testing.T, opts ...Option) (*httptest.Server, *api.Client) {
	t.Helper()
	opts = append([]Option{WithBcryptCost(bcrypt.MinCost)}, opts...)
	srv, err := NewServer(testSecret, opts...)
	require.NoError(t, err)

	app := httptest.NewServer(srv.Router())
	t.Cleanup(app.Close)
	return app, api.NewClient(app.URL)
}

func register(t *testing.T, c *api.Client, email string, plan api.Plan) *api.AuthResponse {
	t.Helper()
	resp, err := c.Register(context.Background(), api.RegisterRequest{
		Name:                 "Ada",
		Email:                email,
		Password:             "secret1",
		PasswordConfirmation: "secret1",
		Plan:                 plan,
	})
	require.NoError(t, err)
	return resp
}

func authed(token string) context.Context {
	return api.ContextWithToken(context.Background(), token)
}

func TestNewServer_RequiresSecret(t *testing.T) {
	_, err := NewServer(nil)
	assert.Error(t, err)
}

func TestRegisterLoginFlow(t *testing.T) {
	_, c := newTestServer(t)
	ctx := context.Background()

	reg := register(t, c, "Ada@Example.com", "")
	assert.NotEmpty(t, reg.Token)
	assert.Equal(t, "ada@example.com", reg.User.Email)
	assert.Equal(t, api.PlanFree, reg.User.Plan)

	login, err := c.Login(ctx, api.LoginRequest{Email: "ada@example.com", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, reg.User.ID, login.User.ID)
	assert.NotEqual(t, reg.Token, login.Token)

	me, err := c.CurrentUser(authed(login.Token))
	require.NoError(t, err)
	assert.Equal(t, "Ada", me.Name)
}

func TestLogin_InvalidCredentials(t *testing.T) {
	_, c := newTestServer(t, WithDemoUser())

	_, err := c.Login(context.Background(), api.LoginRequest{Email: DemoEmail, Password: "nope"})
	require.Error(t, err)
	assert.True(t, api.IsUnauthorized(err))

	var apiErr *api.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "Invalid credentials.", apiErr.Message)

	resp, err := c.Login(context.Background(), api.LoginRequest{Email: DemoEmail, Password: DemoPassword})
	require.NoError(t, err)
	assert.True(t, resp.User.IsPremium())
}

func TestRegister_Validation(t *testing.T) {
	_, c := newTestServer(t)
	register(t, c, "taken@example.com", "")

	tests := []struct {
		name  string
		req   api.RegisterRequest
		field string
	}{
		{name: "missing name", req: api.RegisterRequest{Email: "a@b.co", Password: "secret1", PasswordConfirmation: "secret1"}, field: "name"},
		{name: "bad email", req: api.RegisterRequest{Name: "A", Email: "nope", Password: "secret1", PasswordConfirmation: "secret1"}, field: "email"},
		{name: "short password", req: api.RegisterRequest{Name: "A", Email: "a@b.co", Password: "123", PasswordConfirmation: "123"}, field: "password"},
		{name: "confirmation mismatch", req: api.RegisterRequest{Name: "A", Email: "a@b.co", Password: "secret1", PasswordConfirmation: "secret2"}, field: "password"},
		{name: "unknown plan", req: api.RegisterRequest{Name: "A", Email: "a@b.co", Password: "secret1", PasswordConfirmation: "secret1", Plan: "gold"}, field: "plan"},
		{name: "email taken", req: api.RegisterRequest{Name: "A", Email: "TAKEN@example.com", Password: "secret1", PasswordConfirmation: "secret1"}, field: "email"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := c.Register(context.Background(), tt.req)
			require.Error(t, err)

			var apiErr *api.Error
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, http.StatusUnprocessableEntity, apiErr.Status)
			assert.Contains(t, apiErr.Errors, tt.field)
		})
	}
}

func TestLogout_RevokesToken(t *testing.T) {
	_, c := newTestServer(t)
	reg := register(t, c, "ada@example.com", "")

	require.NoError(t, c.Logout(authed(reg.Token)))

	_, err := c.CurrentUser(authed(reg.Token))
	assert.True(t, api.IsUnauthorized(err))
}

func TestAuthRequired(t *testing.T) {
	app, c := newTestServer(t)

	_, err := c.CurrentUser(context.Background())
	assert.True(t, api.IsUnauthorized(err))

	_, err = c.CurrentUser(authed("not-a-jwt"))
	assert.True(t, api.IsUnauthorized(err))

	_, err = c.Dashboard(context.Background())
	assert.True(t, api.IsUnauthorized(err))

	req, err := http.NewRequest(http.MethodGet, app.URL+"/user/courses", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Basic abc")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestExpiredToken(t *testing.T) {
	start := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	var elapsed atomic.Int64
	clock := func() time.Time { return start.Add(time.Duration(elapsed.Load())) }
	_, c := newTestServer(t, WithClock(clock), WithTokenTTL(time.Hour))
	reg := register(t, c, "ada@example.com", "")

	elapsed.Store(int64(2 * time.Hour))
	_, err := c.CurrentUser(authed(reg.Token))
	assert.True(t, api.IsUnauthorized(err))
}

func TestUpdateProfile(t *testing.T) {
	_, c := newTestServer(t)
	reg := register(t, c, "ada@example.com", "")
	register(t, c, "grace@example.com", "")

	name := "Ada Lovelace"
	plan := api.PlanPremium
	u, err := c.UpdateProfile(authed(reg.Token), api.ProfileUpdate{Name: &name, Plan: &plan})
	require.NoError(t, err)
	assert.Equal(t, "Ada Lovelace", u.Name)
	assert.True(t, u.IsPremium())
	assert.Equal(t, "ada@example.com", u.Email)

	taken := "grace@example.com"
	_, err = c.UpdateProfile(authed(reg.Token), api.ProfileUpdate{Email: &taken})
	assert.Equal(t, http.StatusUnprocessableEntity, api.StatusCode(err))
}

func TestCourses(t *testing.T) {
	_, c := newTestServer(t)
	ctx := context.Background()

	courses, err := c.Courses(ctx)
	require.NoError(t, err)
	require.Len(t, courses, 6)
	assert.Equal(t, "C++ Fundamentals", courses[0].Title)
	assert.True(t, courses[0].IsFree())

	course, err := c.Course(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, "Pointers and Memory", course.Title)
	assert.Equal(t, "https://images.cpphub.dev/courses/pointers-and-memory.png", course.ImageURL)

	_, err = c.Course(ctx, 404)
	assert.True(t, api.IsNotFound(err))
}

func TestEnrollAndProgress(t *testing.T) {
	_, c := newTestServer(t)
	free := register(t, c, "free@example.com", api.PlanFree)
	ctx := authed(free.Token)

	_, err := c.Enroll(ctx, 2)
	assert.Equal(t, http.StatusForbidden, api.StatusCode(err), "paid course needs premium")

	e, err := c.Enroll(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), e.CourseID)
	assert.Equal(t, free.User.ID, e.UserID)

	again, err := c.Enroll(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, e.ID, again.ID)

	_, err = c.UpdateProgress(ctx, 4, 10)
	assert.True(t, api.IsNotFound(err), "not enrolled")

	up, err := c.UpdateProgress(ctx, 1, 50)
	require.NoError(t, err)
	assert.Equal(t, int64(5), up.LessonID)
	assert.Equal(t, minutesPerUpdate, up.TimeSpent)
	assert.Nil(t, up.CompletedAt)

	up, err = c.UpdateProgress(ctx, 1, 100)
	require.NoError(t, err)
	assert.NotNil(t, up.CompletedAt)

	_, err = c.UpdateProgress(ctx, 1, 101)
	assert.Equal(t, http.StatusUnprocessableEntity, api.StatusCode(err))

	mine, err := c.UserCourses(ctx)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "C++ Fundamentals", mine[0].Title)

	data, err := c.LoadDashboard(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, data.Summary.EnrolledCourses)
	assert.Equal(t, 1, data.Summary.CompletedCourses)
	assert.InDelta(t, 100, data.Summary.AverageProgress, 0.001)
	assert.InDelta(t, 0.5, data.Summary.HoursLearned, 0.001)
	assert.Contains(t, data.Summary.Raw, "enrollments")
	assert.Len(t, data.Courses, 1)
}

func TestMalformedBody(t *testing.T) {
	app, _ := newTestServer(t)

	resp, err := http.Post(app.URL+"/auth/login", "application/json", bytes.NewBufferString("{"))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	var body errorBody
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, http.StatusBadRequest, body.Status)
	assert.NotEmpty(t, body.Message)
}

func TestUnknownRoute(t *testing.T) {
	app, _ := newTestServer(t)

	resp, err := http.Get(app.URL + "/nope")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

// The session store driven against the real client and server.
func TestSessionStoreEndToEnd(t *testing.T) {
	_, c := newTestServer(t)
	tokens := session.NewMemoryTokenStore("")
	store := session.New(c, tokens)
	c.SetTokenSource(store.Token)
	ctx := context.Background()

	store.OpenAuthModal(session.ModeRegister)
	require.NoError(t, store.Register(ctx, "ada@example.com", "secret1", "Ada", session.WithPlan(api.PlanPremium)))
	st := store.State()
	require.True(t, st.Authenticated())
	assert.True(t, st.User.IsPremium())
	assert.False(t, st.Modal.IsOpen)

	_, err := c.Enroll(ctx, 2)
	require.NoError(t, err, "requests carry the session token")

	saved, _ := tokens.Token(ctx)
	restored := session.New(c, session.NewMemoryTokenStore(saved))
	restored.Restore(ctx)
	assert.True(t, restored.IsAuthenticated())

	store.Logout(ctx)
	store.Wait()
	assert.False(t, store.IsAuthenticated())

	stale := session.NewMemoryTokenStore(saved)
	again := session.New(c, stale)
	again.Restore(ctx)
	assert.False(t, again.IsAuthenticated(), "token was revoked by logout")
	left, _ := stale.Token(ctx)
	assert.Empty(t, left)

	err = store.Login(ctx, "ada@example.com", "wrong-password")
	assert.ErrorIs(t, err, session.ErrAuthFailed)
}
