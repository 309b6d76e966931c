package middleware

import (
	"errors"
	"net/http"
	"time"

	"pharmpal/internal/common"

	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
)

// AuditStockChanges logs every state-changing request together with the
// authenticated user and the resulting status, so stock movements can be
// traced back to a person. Reads are not logged.
func AuditStockChanges() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if c.Request().Method == http.MethodGet || c.Request().Method == http.MethodHead {
				return next(c)
			}

			start := time.Now()
			err := next(c)

			status := c.Response().Status
			if err != nil {
				var he *echo.HTTPError
				if errors.As(err, &he) {
					status = he.Code
				} else {
					status = common.KindOf(err).HTTPStatus()
				}
			}

			user := "anonymous"
			if userID, ok := common.GetUserIDFromContext(c.Request().Context()); ok {
				user = userID.String()
			}
			log.Infof("audit user=%s method=%s route=%s status=%d latency=%s",
				user, c.Request().Method, c.Path(), status, time.Since(start).Round(time.Millisecond))
			return err
		}
	}
}
