// Package external names the routes owned by the other frontend
// applications, so any app can build links to them without hardcoding
// paths. Registering them mounts placeholder handlers that answer 501; an
// app overrides the routes it actually serves.
package external

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
)

type Route struct {
	Name   string
	Method string
	Path   string // gin-style path with :params
}

// Buyer, supplier and user frontend routes linked to from across the apps.
var routes = []Route{
	{"external.get_brief_by_id", "GET", "/:framework_framework/opportunities/:brief_id"},
	{"external.view_response_result", "GET", "/suppliers/opportunities/:brief_id/responses/result"},
	{"external.opportunities_dashboard", "GET", "/suppliers/opportunities/frameworks/:framework_slug"},
	{"external.create_user", "GET", "/user/create/:encoded_token"},
	{"external.render_login", "GET", "/user/login"},
}

type Routes struct {
	baseURL string
	byName  map[string]Route
}

// New builds the route table. baseURL is the absolute prefix used by
// ExternalURLFor; it may be empty if only relative URLs are needed.
func New(baseURL string) *Routes {
	byName := make(map[string]Route, len(routes))
	for _, r := range routes {
		byName[r.Name] = r
	}
	return &Routes{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		byName:  byName,
	}
}

// URLFor fills the named route's path parameters from key/value pairs and
// returns the relative URL.
func (r *Routes) URLFor(name string, params ...string) (string, error) {
	route, ok := r.byName[name]
	if !ok {
		return "", fmt.Errorf("external: unknown route %q", name)
	}
	if len(params)%2 != 0 {
		return "", fmt.Errorf("external: odd number of params for %q", name)
	}

	values := make(map[string]string, len(params)/2)
	for i := 0; i < len(params); i += 2 {
		values[params[i]] = params[i+1]
	}

	segments := strings.Split(route.Path, "/")
	for i, seg := range segments {
		if !strings.HasPrefix(seg, ":") {
			continue
		}
		key := seg[1:]
		v, ok := values[key]
		if !ok {
			return "", fmt.Errorf("external: route %q missing param %q", name, key)
		}
		segments[i] = url.PathEscape(v)
		delete(values, key)
	}
	for key := range values {
		return "", fmt.Errorf("external: route %q has no param %q", name, key)
	}

	return strings.Join(segments, "/"), nil
}

// ExternalURLFor is URLFor with the configured base URL prepended.
func (r *Routes) ExternalURLFor(name string, params ...string) (string, error) {
	u, err := r.URLFor(name, params...)
	if err != nil {
		return "", err
	}
	return r.baseURL + u, nil
}

// Register mounts every route with a handler that answers 501, so links into
// routes this app has not overridden fail loudly rather than 404.
func Register(engine *gin.Engine) {
	for _, route := range routes {
		name := route.Name
		engine.Handle(route.Method, route.Path, func(c *gin.Context) {
			c.JSON(http.StatusNotImplemented, gin.H{"error": "not implemented: " + name})
		})
	}
}
