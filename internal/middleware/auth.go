package middleware

import (
	"net/http"
	"regexp"
	"strings"

	"eshop/internal/auth"

	"github.com/rs/zerolog"
)

// TokenVerifier verifies a bearer token and returns its claims.
type TokenVerifier interface {
	Verify(token string) (*auth.Claims, error)
}

// AccessRule lets requests whose method and path match through without a token.
type AccessRule struct {
	Methods []string
	Pattern *regexp.Regexp
}

func (a AccessRule) matches(r *http.Request) bool {
	if !a.Pattern.MatchString(r.URL.Path) {
		return false
	}
	for _, m := range a.Methods {
		if m == r.Method {
			return true
		}
	}
	return false
}

// PublicRoutes returns the anonymous allowlist: reads of uploads, products and
// categories, plus login and register.
func PublicRoutes(apiURL, uploadsPath string) []AccessRule {
	api := regexp.QuoteMeta(strings.TrimSuffix(apiURL, "/"))
	uploads := regexp.QuoteMeta(strings.TrimSuffix(uploadsPath, "/"))
	readOnly := []string{http.MethodGet, http.MethodOptions}

	return []AccessRule{
		{Methods: readOnly, Pattern: regexp.MustCompile(`^` + uploads + `(/.*)?$`)},
		{Methods: readOnly, Pattern: regexp.MustCompile(`^` + api + `/products(/.*)?$`)},
		{Methods: readOnly, Pattern: regexp.MustCompile(`^` + api + `/categories(/.*)?$`)},
		{Methods: []string{http.MethodPost}, Pattern: regexp.MustCompile(`^` + api + `/users/login/?$`)},
		{Methods: []string{http.MethodPost}, Pattern: regexp.MustCompile(`^` + api + `/users/register/?$`)},
	}
}

// Authorize rejects every request outside the allowlist that does not carry a
// valid token of an administrator. Verified claims are attached to the context.
func Authorize(verifier TokenVerifier, public []AccessRule, logger zerolog.Logger) func(http.Handler) http.Handler {
	logger = logger.With().Str("component", "auth").Logger()

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			for _, rule := range public {
				if rule.matches(r) {
					next.ServeHTTP(w, r)
					return
				}
			}

			token, ok := bearerToken(r)
			if !ok {
				logger.Warn().Str("path", r.URL.Path).Msg("missing bearer token")
				unauthorised(w, r, logger)
				return
			}

			claims, err := verifier.Verify(token)
			if err != nil {
				logger.Warn().Err(err).Str("path", r.URL.Path).Msg("invalid bearer token")
				unauthorised(w, r, logger)
				return
			}

			if !claims.IsAdmin {
				logger.Warn().
					Str("path", r.URL.Path).
					Str("user_id", claims.UserID).
					Msg("token revoked: not an administrator")
				unauthorised(w, r, logger)
				return
			}

			next.ServeHTTP(w, r.WithContext(auth.WithClaims(r.Context(), claims)))
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
