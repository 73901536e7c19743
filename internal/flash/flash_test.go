package flash

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetAndPop(t *testing.T) {
	rec := httptest.NewRecorder()
	Success(rec, "Your account has been created.")

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)

	r := httptest.NewRequest(http.MethodGet, "/login", nil)
	r.AddCookie(cookies[0])

	rec2 := httptest.NewRecorder()
	msg, ok := Pop(rec2, r)
	require.True(t, ok)
	assert.Equal(t, KindSuccess, msg.Kind)
	assert.Equal(t, "Your account has been created.", msg.Text)

	// Pop clears the cookie.
	cleared := rec2.Result().Cookies()
	require.Len(t, cleared, 1)
	assert.Equal(t, -1, cleared[0].MaxAge)
}

func TestPop_NoCookie(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	_, ok := Pop(httptest.NewRecorder(), r)
	assert.False(t, ok)
}

func TestPop_GarbageCookie(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(&http.Cookie{Name: "flash", Value: "%%%not-base64%%%"})
	_, ok := Pop(httptest.NewRecorder(), r)
	assert.False(t, ok)
}
