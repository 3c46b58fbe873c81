package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/darasa/core/assignment"
	"github.com/trezcool/darasa/core/chat"
)

type studentApi struct {
	svc     assignment.ServiceInterface
	chatSvc chat.ServiceInterface
}

func registerStudentAPI(g *echo.Group, sessMW echo.MiddlewareFunc, svc assignment.ServiceInterface, chatSvc chat.ServiceInterface) {
	api := studentApi{svc: svc, chatSvc: chatSvc}

	sg := g.Group("/student", sessMW, studentMiddleware())

	sg.GET("/assignments", api.assignments)
	sg.GET("/assignments/:id", api.retrieveAssignment)

	cg := sg.Group("/chat")
	cg.GET("", api.chatMessages)
	cg.POST("/open", api.chatOpen)
	cg.POST("/send", api.chatSend)
	cg.POST("/reset", api.chatReset)
}

// Bindings

type (
	ChatOpenRequest struct {
		Title        string `json:"title"`
		AssignmentID string `json:"assignment_id"`
		QuestionID   string `json:"question_id"`
	}

	ChatSendRequest struct {
		Text string `json:"text"`
	}

	ChatResponse struct {
		Messages []chat.Message `json:"messages"`
	}
)

// Handlers

func (api *studentApi) assignments(ctx echo.Context) error {
	sess, err := getContextSession(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context session")
	}
	assignments, err := api.svc.StudentAssignments(ctx.Request().Context(), sess)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, assignments)
}

func (api *studentApi) retrieveAssignment(ctx echo.Context) error {
	sess, err := getContextSession(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context session")
	}
	a, err := api.svc.StudentAssignment(ctx.Request().Context(), sess, ctx.Param("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, a)
}

func (api *studentApi) chatMessages(ctx echo.Context) error {
	sess, err := getContextSession(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context session")
	}
	msgs, err := api.chatSvc.Messages(sess)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, ChatResponse{Messages: msgs})
}

func (api *studentApi) chatOpen(ctx echo.Context) error {
	sess, err := getContextSession(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context session")
	}
	var data ChatOpenRequest
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to ChatOpenRequest")
	}
	msgs := api.chatSvc.Open(sess, data.Title, data.AssignmentID, data.QuestionID)
	return ctx.JSON(http.StatusOK, ChatResponse{Messages: msgs})
}

func (api *studentApi) chatSend(ctx echo.Context) error {
	sess, err := getContextSession(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context session")
	}
	var data ChatSendRequest
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to ChatSendRequest")
	}
	msgs, err := api.chatSvc.Send(ctx.Request().Context(), sess, data.Text)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, ChatResponse{Messages: msgs})
}

func (api *studentApi) chatReset(ctx echo.Context) error {
	sess, err := getContextSession(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context session")
	}
	return ctx.JSON(http.StatusOK, ChatResponse{Messages: api.chatSvc.Reset(sess)})
}
