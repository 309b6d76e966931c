package middleware

import (
	"net/http"
	"sort"
	"strings"

	"github.com/labstack/echo/v4"
)

// APIVersion describes one served API version.
type APIVersion struct {
	Version string `json:"version"`
	Status  string `json:"status"` // "active" or "deprecated"
	Message string `json:"message,omitempty"`
}

// VersionMiddleware tags responses with the API version and rejects
// requests for versions that are not served.
type VersionMiddleware struct {
	supportedVersions map[string]APIVersion
	defaultVersion    string
}

func NewVersionMiddleware() *VersionMiddleware {
	return &VersionMiddleware{
		supportedVersions: map[string]APIVersion{
			"v1": {Version: "v1", Status: "active", Message: "Current stable API version"},
		},
		defaultVersion: "v1",
	}
}

// VersionRoute creates the route group for version.
func (vm *VersionMiddleware) VersionRoute(e *echo.Echo, version string) *echo.Group {
	group := e.Group("/" + version)
	group.Use(vm.VersionHeader(version))
	return group
}

// VersionHeader adds version information to response headers.
func (vm *VersionMiddleware) VersionHeader(version string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Response().Header().Set("X-API-Version", version)
			if ver, ok := vm.supportedVersions[version]; ok {
				if ver.Status == "deprecated" {
					c.Response().Header().Set("X-API-Deprecated", "true")
				}
				c.Response().Header().Set("X-API-Message", ver.Message)
			}
			return next(c)
		}
	}
}

// APIVersionResolver stores the requested version under "api_version".
// Paths like /v9/... for unknown versions get a 404 listing the served ones.
func (vm *VersionMiddleware) APIVersionResolver() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			version := extractVersionFromPath(c.Request().URL.Path)
			if version == "" {
				c.Set("api_version", vm.defaultVersion)
				return next(c)
			}
			if _, ok := vm.supportedVersions[version]; !ok {
				return c.JSON(http.StatusNotFound, map[string]string{
					"error":              "Unsupported API version",
					"supported_versions": strings.Join(vm.SupportedVersions(), ", "),
				})
			}
			c.Set("api_version", version)
			return next(c)
		}
	}
}

// SupportedVersions lists the served versions in order.
func (vm *VersionMiddleware) SupportedVersions() []string {
	versions := make([]string, 0, len(vm.supportedVersions))
	for v := range vm.supportedVersions {
		versions = append(versions, v)
	}
	sort.Strings(versions)
	return versions
}

// extractVersionFromPath returns "vN" for paths starting with /vN/ or equal to /vN.
func extractVersionFromPath(path string) string {
	if !strings.HasPrefix(path, "/v") {
		return ""
	}
	segment := strings.TrimPrefix(path, "/")
	if i := strings.IndexByte(segment, '/'); i >= 0 {
		segment = segment[:i]
	}
	digits := segment[1:]
	if digits == "" || digits[0] == '0' {
		return ""
	}
	for _, r := range digits {
		if r < '0' || r > '9' {
			return ""
		}
	}
	return segment
}
