package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, h http.HandlerFunc, opts ...Option) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL+"/", opts...)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestLogin_PostsCredentialsAndDecodesResponse(t *testing.T) {
	var got LoginRequest
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/auth/login", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, userAgent, r.Header.Get("User-Agent"))
		assert.Empty(t, r.Header.Get("Authorization"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		writeJSON(w, http.StatusOK, map[string]any{
			"user":    map[string]any{"id": 7, "name": "Ada", "email": "a@b.com", "plan": "premium"},
			"token":   "tok-1",
			"message": "ok",
		})
	})

	resp, err := c.Login(context.Background(), LoginRequest{Email: "a@b.com", Password: "secret1"})
	require.NoError(t, err)

	assert.Equal(t, LoginRequest{Email: "a@b.com", Password: "secret1"}, got)
	assert.Equal(t, "tok-1", resp.Token)
	assert.Equal(t, int64(7), resp.User.ID)
	assert.True(t, resp.User.IsPremium())
}

func TestRegister_SendsConfirmationAndOmitsEmptyPlan(t *testing.T) {
	var body map[string]any
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/register", r.URL.Path)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		writeJSON(w, http.StatusCreated, map[string]any{"user": map[string]any{"id": 1}, "token": "t"})
	})

	_, err := c.Register(context.Background(), RegisterRequest{
		Name: "Ada", Email: "a@b.com", Password: "secret1", PasswordConfirmation: "secret1",
	})
	require.NoError(t, err)

	assert.Equal(t, "secret1", body["password_confirmation"])
	_, hasPlan := body["plan"]
	assert.False(t, hasPlan)
}

func TestBearerToken_FromSourceAndContextOverride(t *testing.T) {
	var seen []string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		seen = append(seen, r.Header.Get("Authorization"))
		writeJSON(w, http.StatusOK, map[string]any{"id": 1})
	}, WithTokenSource(func() string { return "from-source" }))

	ctx := context.Background()
	_, err := c.CurrentUser(ctx)
	require.NoError(t, err)
	_, err = c.CurrentUser(ContextWithToken(ctx, "pinned"))
	require.NoError(t, err)

	c.SetTokenSource(func() string { return "" })
	_, err = c.CurrentUser(ctx)
	require.NoError(t, err)

	assert.Equal(t, []string{"Bearer from-source", "Bearer pinned", ""}, seen)
}

func TestErrorDecoding(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		body        string
		wantMessage string
		wantFields  map[string][]string
	}{
		{
			name:        "json error shape",
			status:      http.StatusUnprocessableEntity,
			body:        `{"message":"The given data was invalid.","errors":{"email":["taken"]}}`,
			wantMessage: "The given data was invalid.",
			wantFields:  map[string][]string{"email": {"taken"}},
		},
		{
			name:        "string status field",
			status:      http.StatusUnauthorized,
			body:        `{"message":"Invalid credentials","status":"error"}`,
			wantMessage: "Invalid credentials",
		},
		{
			name:        "plain text body",
			status:      http.StatusBadGateway,
			body:        "upstream down\n",
			wantMessage: "upstream down",
		},
		{
			name:        "empty body",
			status:      http.StatusUnauthorized,
			wantMessage: "Unauthorized",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			})

			_, err := c.CurrentUser(context.Background())
			require.Error(t, err)

			var apiErr *Error
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, tt.status, apiErr.Status)
			assert.Equal(t, tt.wantMessage, apiErr.Message)
			assert.Equal(t, tt.wantFields, apiErr.Errors)
			assert.Equal(t, tt.status, StatusCode(err))
		})
	}
}

func TestIsUnauthorizedAndNotFound(t *testing.T) {
	assert.True(t, IsUnauthorized(&Error{Status: http.StatusUnauthorized}))
	assert.False(t, IsUnauthorized(&Error{Status: http.StatusForbidden}))
	assert.True(t, IsNotFound(&Error{Status: http.StatusNotFound}))
	assert.Equal(t, 0, StatusCode(io.EOF))
}

func TestEnvelopeIsUnwrapped(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"data":[{"id":1,"title":"Pointers","level":"beginner"}],"message":"","status":"success"}`)
	})

	courses, err := c.Courses(context.Background())
	require.NoError(t, err)
	require.Len(t, courses, 1)
	assert.Equal(t, "Pointers", courses[0].Title)
	assert.Equal(t, LevelBeginner, courses[0].Level)
}

func TestObjectWithDataFieldIsNotMistakenForEnvelope(t *testing.T) {
	raw := []byte(`{"data":{"x":1},"enrolled_courses":3}`)
	assert.Equal(t, raw, unwrapEnvelope(raw))
}

func TestUpdateProgress_PathAndBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/user/courses/12/progress", r.URL.Path)
		var body map[string]int
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, 40, body["progress"])
		writeJSON(w, http.StatusOK, map[string]any{"id": 3, "user_id": 1, "course_id": 12, "time_spent": 90})
	})

	up, err := c.UpdateProgress(context.Background(), 12, 40)
	require.NoError(t, err)
	assert.Equal(t, int64(12), up.CourseID)
	assert.Equal(t, 90, up.TimeSpent)
}

func TestEnroll_NoBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/courses/5/enroll", r.URL.Path)
		assert.Empty(t, r.Header.Get("Content-Type"))
		writeJSON(w, http.StatusOK, map[string]any{"id": 1, "course_id": 5, "progress_percentage": 0})
	})

	e, err := c.Enroll(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, int64(5), e.CourseID)
}

func TestLogout_IgnoresBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/logout", r.URL.Path)
		_, _ = io.WriteString(w, "not json at all")
	})
	require.NoError(t, c.Logout(context.Background()))
}

func TestLoadDashboard(t *testing.T) {
	t.Run("combines both responses", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			switch r.URL.Path {
			case "/dashboard":
				writeJSON(w, http.StatusOK, map[string]any{"enrolled_courses": 2, "hours_learned": 4.5, "streak": 3})
			case "/user/courses":
				writeJSON(w, http.StatusOK, []map[string]any{{"id": 1}, {"id": 2}})
			default:
				http.NotFound(w, r)
			}
		})

		data, err := c.LoadDashboard(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 2, data.Summary.EnrolledCourses)
		assert.InDelta(t, 4.5, data.Summary.HoursLearned, 0.001)
		assert.Contains(t, data.Summary.Raw, "streak")
		assert.Len(t, data.Courses, 2)
	})

	t.Run("fails when one request fails", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/user/courses" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			writeJSON(w, http.StatusOK, map[string]any{})
		})

		_, err := c.LoadDashboard(context.Background())
		require.Error(t, err)
		assert.True(t, IsUnauthorized(err))
	})
}

func TestDashboardEnrollments(t *testing.T) {
	var d Dashboard
	require.NoError(t, json.Unmarshal([]byte(`{"enrolled_courses":1,"enrollments":[{"id":4,"course_id":7,"progress_percentage":30}]}`), &d))

	got, err := d.Enrollments()
	require.NoError(t, err)
	require.Contains(t, got, int64(7))
	assert.Equal(t, 30, got[7].ProgressPercentage)

	var none Dashboard
	require.NoError(t, json.Unmarshal([]byte(`{}`), &none))
	got, err = none.Enrollments()
	require.NoError(t, err)
	assert.Nil(t, got)

	var bad Dashboard
	require.NoError(t, json.Unmarshal([]byte(`{"enrollments":"nope"}`), &bad))
	_, err = bad.Enrollments()
	assert.Error(t, err)
}
