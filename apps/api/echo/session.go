package echoapi

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/darasa/core/session"
)

type sessionApi struct {
	store session.Store
}

func registerSessionAPI(g *echo.Group, sessMW echo.MiddlewareFunc, store session.Store) {
	api := sessionApi{store: store}

	sg := g.Group("/session", sessMW)
	sg.GET("", api.retrieve)
	sg.DELETE("", api.destroy)
}

type SessionResponse struct {
	ID      string    `json:"id"`
	Name    string    `json:"name"`
	Email   string    `json:"email"`
	Role    string    `json:"role"`
	SavedAt time.Time `json:"saved_at"`
}

func (api *sessionApi) retrieve(ctx echo.Context) error {
	sess, err := getContextSession(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context session")
	}
	return ctx.JSON(http.StatusOK, SessionResponse{
		ID:      sess.ID,
		Name:    sess.Name,
		Email:   sess.Email,
		Role:    sess.Role,
		SavedAt: sess.SavedAt,
	})
}

func (api *sessionApi) destroy(ctx echo.Context) error {
	if err := api.store.Clear(); err != nil {
		return errors.Wrap(err, "clearing session")
	}
	return ctx.NoContent(http.StatusNoContent)
}
