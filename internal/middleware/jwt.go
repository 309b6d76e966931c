package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"pharmpal/internal/common"
	"pharmpal/internal/models"
	"pharmpal/internal/repositories"

	"github.com/MicahParks/keyfunc/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
)

const jwksRefreshInterval = time.Hour

var errInactiveUser = errors.New("user is unknown or inactive")

// UserLookup loads the account a token was issued to.
type UserLookup interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// Authenticator verifies bearer tokens. Tokens are either signed by this
// service with HS256 or, when a JWKS URL is configured, by an external
// identity provider with RS256.
type Authenticator struct {
	keyFunc jwt.Keyfunc
	methods []string
	jwks    *keyfunc.JWKS
	users   UserLookup
}

// NewAuthenticator returns an authenticator for HS256 tokens signed with
// secret. A non-empty jwksURL switches verification to the provider's keys.
func NewAuthenticator(secret, jwksURL string) (*Authenticator, error) {
	if jwksURL == "" {
		if secret == "" {
			return nil, errors.New("jwt secret is required")
		}
		key := []byte(secret)
		return &Authenticator{
			keyFunc: func(*jwt.Token) (any, error) { return key, nil },
			methods: []string{jwt.SigningMethodHS256.Alg()},
		}, nil
	}

	jwks, err := keyfunc.Get(jwksURL, keyfunc.Options{
		RefreshInterval:   jwksRefreshInterval,
		RefreshUnknownKID: true,
		RefreshErrorHandler: func(err error) {
			log.Warnf("jwks refresh failed: %v", err)
		},
	})
	if err != nil {
		return nil, fmt.Errorf("load jwks from %s: %w", jwksURL, err)
	}
	return &Authenticator{
		keyFunc: jwks.Keyfunc,
		methods: []string{jwt.SigningMethodRS256.Alg()},
		jwks:    jwks,
	}, nil
}

// RequireActiveUsers makes every request load the token subject from users
// and reject accounts that were deleted or deactivated after the token was
// issued.
func (a *Authenticator) RequireActiveUsers(users UserLookup) {
	a.users = users
}

// Close stops the JWKS refresh goroutine, if any.
func (a *Authenticator) Close() {
	if a.jwks != nil {
		a.jwks.EndBackground()
	}
}

// Middleware rejects requests without a valid bearer token and stores the
// token subject in the request context.
func (a *Authenticator) Middleware() echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		ParseTokenFunc: a.parseToken,
		ErrorHandler: func(c echo.Context, err error) error {
			var appErr *common.AppError
			if errors.As(err, &appErr) && appErr.Kind == common.KindInternal {
				return appErr
			}
			log.Debugf("rejected token: %v", err)
			return echo.NewHTTPError(http.StatusUnauthorized, "Could not validate credentials")
		},
	})
}

func (a *Authenticator) parseToken(c echo.Context, auth string) (any, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(auth, claims, a.keyFunc,
		jwt.WithValidMethods(a.methods),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, err
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, fmt.Errorf("invalid subject %q: %w", claims.Subject, err)
	}

	if err := a.checkActive(c.Request().Context(), userID); err != nil {
		return nil, err
	}

	ctx := common.WithUserID(c.Request().Context(), userID)
	c.SetRequest(c.Request().WithContext(ctx))
	return token, nil
}

func (a *Authenticator) checkActive(ctx context.Context, userID uuid.UUID) error {
	if a.users == nil {
		return nil
	}
	user, err := a.users.GetByID(ctx, userID)
	switch {
	case errors.Is(err, repositories.ErrNotFound):
		return errInactiveUser
	case err != nil:
		log.Errorf("failed to load user %s: %v", userID, err)
		return common.Internal("Failed to verify credentials", err)
	case !user.IsActive:
		return errInactiveUser
	}
	return nil
}
