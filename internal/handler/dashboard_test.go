package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ezapply/ezapply/internal/ctxkeys"
	"github.com/ezapply/ezapply/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// authedRequest builds a request with user and profile already in context,
// the way AuthMiddleware would leave it after verifying the JWT cookie.
func authedRequest(method, path string, user *model.User, profile *model.Profile) *http.Request {
	req := httptest.NewRequest(method, path, nil)
	ctx := ctxkeys.WithUser(req.Context(), user)
	ctx = ctxkeys.WithProfile(ctx, profile)
	return req.WithContext(ctx)
}

func (f *fixture) registeredUser(t *testing.T, email string) (*model.User, *model.Profile) {
	t.Helper()
	f.post("/register", registerForm(email))
	user, err := f.users.ByEmail(email)
	require.NoError(t, err)
	profile, err := f.profiles.ByUserID(user.ID)
	require.NoError(t, err)
	return user, profile
}

func TestStatsAPIOwner(t *testing.T) {
	f := newFixture(t)
	user, profile := f.registeredUser(t, "ada@example.com")

	profile.Applications = 10
	profile.Interviews = 2
	profile.Offers = 1
	require.NoError(t, f.profiles.Update(profile))

	req := authedRequest(http.MethodGet, "/api/profile/"+profile.ID+"/stats", user, profile)
	w := httptest.NewRecorder()
	f.mux.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var body struct {
		BasicStats struct {
			Applications    int     `json:"applications"`
			ConversionRate  float64 `json:"conversion_rate"`
			ConversionScore float64 `json:"conversion_score"`
		} `json:"basic_stats"`
		Streak int `json:"streak"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, 10, body.BasicStats.Applications)
	assert.InDelta(t, 30.0, body.BasicStats.ConversionRate, 0.001)
	assert.InDelta(t, 40.0, body.BasicStats.ConversionScore, 0.001)
	assert.Equal(t, 0, body.Streak)
}

func TestStatsAPIRejectsOtherProfiles(t *testing.T) {
	f := newFixture(t)
	user, profile := f.registeredUser(t, "ada@example.com")
	_, otherProfile := f.registeredUser(t, "grace@example.com")

	req := authedRequest(http.MethodGet, "/api/profile/"+otherProfile.ID+"/stats", user, profile)
	w := httptest.NewRecorder()
	f.mux.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestSettingsPageRejectsOtherProfiles(t *testing.T) {
	f := newFixture(t)
	user, profile := f.registeredUser(t, "ada@example.com")
	_, otherProfile := f.registeredUser(t, "grace@example.com")

	req := authedRequest(http.MethodGet, "/settings/"+otherProfile.ID, user, profile)
	w := httptest.NewRecorder()
	f.mux.ServeHTTP(w, req)

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/dashboard", w.Header().Get("Location"))
}

func TestNotFoundPage(t *testing.T) {
	f := newFixture(t)

	req := httptest.NewRequest(http.MethodGet, "/no-such-page", nil)
	w := httptest.NewRecorder()
	f.mux.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
