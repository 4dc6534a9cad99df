package middleware

import (
	"net/http"
	"regexp"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/edital360/portal/internal/models"
	"github.com/edital360/portal/internal/observability"
)

// GuardOutcome is the decision of the route guard for one navigation
type GuardOutcome int

const (
	// GuardAllow lets the request through
	GuardAllow GuardOutcome = iota
	// GuardRedirectLogin sends the visitor to the login page
	GuardRedirectLogin
	// GuardRedirectHome bounces an authenticated user off a guest-only page
	GuardRedirectHome
)

func (o GuardOutcome) String() string {
	switch o {
	case GuardAllow:
		return "allow"
	case GuardRedirectLogin:
		return "redirect_login"
	case GuardRedirectHome:
		return "redirect_home"
	}
	return "unknown"
}

var (
	publicExact = map[string]struct{}{
		"/":                     {},
		"/login":                {},
		"/cadastro":             {},
		"/cadastro/complemento": {},
		"/recuperar-senha":      {},
		"/editais":              {},
	}

	guestOnly = map[string]struct{}{
		"/login":                {},
		"/cadastro":             {},
		"/cadastro/complemento": {},
		"/recuperar-senha":      {},
	}

	// Protected pages that would otherwise match a public pattern must be
	// listed here; /editais/novo collides with the notice-detail pattern.
	protectedExact = map[string]struct{}{
		"/configuracoes": {},
		"/perfil":        {},
		"/meus-editais":  {},
		"/editais/novo":  {},
	}

	publicPatterns = []*regexp.Regexp{
		regexp.MustCompile(`^/editais/[^/]+$`),
	}
)

// IsPublicPath reports whether path is publicly viewable. Exact protected
// pages are excluded before the dynamic patterns run, and patterns run
// before any caller falls through to the protected branch.
func IsPublicPath(path string) bool {
	if _, ok := publicExact[path]; ok {
		return true
	}
	if _, ok := protectedExact[path]; ok {
		return false
	}
	for _, re := range publicPatterns {
		if re.MatchString(path) {
			return true
		}
	}
	return false
}

// IsGuestOnlyPath reports whether path only makes sense for unauthenticated
// visitors (login, registration, recovery).
func IsGuestOnlyPath(path string) bool {
	_, ok := guestOnly[path]
	return ok
}

// Decide produces the guard outcome for a path and a raw token cookie value.
// An undecodable or expired token counts as no token; on protected paths it
// funnels to the login redirect.
func Decide(path, rawToken string, now time.Time) GuardOutcome {
	authenticated := false
	if rawToken != "" {
		if claims, err := models.ParseToken(rawToken); err == nil {
			authenticated = claims.Valid(now)
		}
	}

	if IsPublicPath(path) {
		if authenticated && IsGuestOnlyPath(path) {
			return GuardRedirectHome
		}
		return GuardAllow
	}

	if !authenticated {
		return GuardRedirectLogin
	}
	return GuardAllow
}

// RouteGuard gates page navigation before any handler runs
func RouteGuard(cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, _ := c.Cookie(cookieName)

		outcome := Decide(c.Request.URL.Path, token, time.Now())
		observability.GuardDecisions.WithLabelValues(outcome.String()).Inc()

		switch outcome {
		case GuardRedirectLogin:
			observability.Logger().Debug("guard redirecting to login",
				zap.String("path", c.Request.URL.Path))
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
		case GuardRedirectHome:
			c.Redirect(http.StatusFound, "/")
			c.Abort()
		default:
			c.Next()
		}
	}
}
