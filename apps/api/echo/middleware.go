package echoapi

import (
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/darasa/core/session"
)

const sessionContextKey = "session"

var errSessNotFoundInCtx = errors.New("session not found in echo.Context")

// sessionMiddleware resolves the persisted session once per request, verifies
// its token and hands it to the handlers via the request context.
func sessionMiddleware(store session.Store, secretKey []byte) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			sess, err := store.Get()
			if err != nil {
				return err
			}
			if err = sess.Verify(secretKey); err != nil {
				return err
			}
			ctx.Set(sessionContextKey, sess)
			return next(ctx)
		}
	}
}

func teacherMiddleware() echo.MiddlewareFunc {
	return roleMiddleware(session.RoleTeacher)
}

func studentMiddleware() echo.MiddlewareFunc {
	return roleMiddleware(session.RoleStudent)
}

func roleMiddleware(role string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			sess, err := getContextSession(ctx)
			if err != nil {
				return errors.Wrap(err, "getting context session")
			}
			if sess.Role != role {
				return errHttpForbidden
			}
			return next(ctx)
		}
	}
}

func getContextSession(ctx echo.Context) (session.Session, error) {
	if sess, ok := ctx.Get(sessionContextKey).(session.Session); ok {
		return sess, nil
	}
	return session.Session{}, errSessNotFoundInCtx
}
