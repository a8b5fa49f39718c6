package external

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestURLFor(t *testing.T) {
	r := New("")

	u, err := r.URLFor("external.create_user", "encoded_token", "abc123")
	require.NoError(t, err)
	assert.Equal(t, "/user/create/abc123", u)

	u, err = r.URLFor("external.get_brief_by_id", "framework_framework", "digital-outcomes", "brief_id", "99")
	require.NoError(t, err)
	assert.Equal(t, "/digital-outcomes/opportunities/99", u)

	u, err = r.URLFor("external.render_login")
	require.NoError(t, err)
	assert.Equal(t, "/user/login", u)
}

func TestURLForEscapesParams(t *testing.T) {
	r := New("")

	u, err := r.URLFor("external.opportunities_dashboard", "framework_slug", "g cloud/12")
	require.NoError(t, err)
	assert.Equal(t, "/suppliers/opportunities/frameworks/g%20cloud%2F12", u)
}

func TestURLForErrors(t *testing.T) {
	r := New("")

	_, err := r.URLFor("external.nonexistent")
	assert.Error(t, err)

	_, err = r.URLFor("external.create_user")
	assert.Error(t, err, "missing param")

	_, err = r.URLFor("external.create_user", "encoded_token", "abc", "bogus", "x")
	assert.Error(t, err, "unknown param")

	_, err = r.URLFor("external.create_user", "encoded_token")
	assert.Error(t, err, "odd params")
}

func TestExternalURLFor(t *testing.T) {
	r := New("https://www.example.com/")

	u, err := r.ExternalURLFor("external.view_response_result", "brief_id", "7")
	require.NoError(t, err)
	assert.Equal(t, "https://www.example.com/suppliers/opportunities/7/responses/result", u)
}

func TestRegisterAnswers501(t *testing.T) {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	Register(engine)

	for _, path := range []string{
		"/user/login",
		"/user/create/some-token",
		"/suppliers/opportunities/frameworks/g-cloud-12",
	} {
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusNotImplemented, w.Code, path)
	}
}
