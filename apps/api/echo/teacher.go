package echoapi

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/assignment"
)

var errBadQuestionIndex = echo.NewHTTPError(http.StatusBadRequest, "invalid question index")

type teacherApi struct {
	svc assignment.ServiceInterface
}

func registerTeacherAPI(g *echo.Group, sessMW echo.MiddlewareFunc, svc assignment.ServiceInterface) {
	api := teacherApi{svc: svc}

	tg := g.Group("/teacher", sessMW, teacherMiddleware())

	tg.GET("/overview", api.overview)

	tg.GET("/notes", api.notes)
	tg.POST("/notes", api.uploadNote)
	tg.POST("/notes/:id/toggle", api.toggleNote)

	tg.POST("/assignments/generate", api.generate)
	tg.GET("/assignments", api.assignments)
	tg.GET("/classes", api.classes)
	tg.POST("/assignments/:id/open", api.openAssignment)
	tg.POST("/assignments/:id/assign/:classId", api.assignToClass)

	dg := tg.Group("/drafts/:id")
	dg.GET("", api.draft)
	dg.PUT("", api.setTitle)
	dg.POST("/questions", api.addQuestion)
	dg.PUT("/questions/:index", api.setQuestionText)
	dg.PUT("/questions/:index/score", api.setScore)
	dg.DELETE("/questions/:index", api.deleteQuestion)
	dg.POST("/publish", api.publish)
}

// Bindings

type (
	OverviewResponse struct {
		TotalStudents      int    `json:"total_students"`
		ActiveCourses      int    `json:"active_courses"`
		UpcomingSessions   int    `json:"upcoming_sessions"`
		AveragePerformance string `json:"average_performance"`
	}

	NotesResponse struct {
		Notes    []assignment.Note `json:"notes"`
		Selected []string          `json:"selected"`
	}

	SelectionResponse struct {
		Selected []string `json:"selected"`
	}

	SetTitleRequest struct {
		Title string `json:"title"`
	}

	SetQuestionTextRequest struct {
		Question string `json:"question"`
	}

	SetScoreRequest struct {
		Score string `json:"score"`
	}

	AddQuestionRequest struct {
		Topic string `json:"topic"`
	}
)

// Handlers

// overview serves the summary cards of the teacher dashboard. The numbers are
// the fixed showcase values the product ships with.
func (api *teacherApi) overview(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, OverviewResponse{
		TotalStudents:      156,
		ActiveCourses:      8,
		UpcomingSessions:   12,
		AveragePerformance: "85%",
	})
}

func (api *teacherApi) notes(ctx echo.Context) error {
	sess, err := getContextSession(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context session")
	}
	notes, selected, err := api.svc.Notes(ctx.Request().Context(), sess)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, NotesResponse{Notes: notes, Selected: selected})
}

func (api *teacherApi) uploadNote(ctx echo.Context) error {
	sess, err := getContextSession(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context session")
	}

	fh, err := ctx.FormFile("file")
	if err != nil {
		return core.NewValidationError(nil, core.FieldError{Field: "file", Error: "this field is required"})
	}
	src, err := fh.Open()
	if err != nil {
		return errors.Wrap(err, "opening uploaded file")
	}
	defer src.Close()

	up := assignment.NoteUpload{
		Subject:  ctx.FormValue("subject"),
		Topic:    ctx.FormValue("topic"),
		Filename: fh.Filename,
		File:     src,
	}
	if err = api.svc.UploadNote(ctx.Request().Context(), sess, up); err != nil {
		return err
	}
	return ctx.NoContent(http.StatusCreated)
}

func (api *teacherApi) toggleNote(ctx echo.Context) error {
	sess, err := getContextSession(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context session")
	}
	selected, err := api.svc.ToggleNote(ctx.Request().Context(), sess, ctx.Param("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, SelectionResponse{Selected: selected})
}

func (api *teacherApi) generate(ctx echo.Context) error {
	sess, err := getContextSession(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context session")
	}
	draft, err := api.svc.Generate(ctx.Request().Context(), sess)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, draft)
}

func (api *teacherApi) assignments(ctx echo.Context) error {
	sess, err := getContextSession(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context session")
	}
	assignments, err := api.svc.Assignments(ctx.Request().Context(), sess)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, assignments)
}

func (api *teacherApi) classes(ctx echo.Context) error {
	sess, err := getContextSession(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context session")
	}
	classes, err := api.svc.Classes(ctx.Request().Context(), sess)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, classes)
}

// openAssignment seeds an update-mode draft from a persisted assignment.
func (api *teacherApi) openAssignment(ctx echo.Context) error {
	sess, err := getContextSession(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context session")
	}
	draft, err := api.svc.OpenAssignment(ctx.Request().Context(), sess, ctx.Param("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, draft)
}

func (api *teacherApi) assignToClass(ctx echo.Context) error {
	sess, err := getContextSession(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context session")
	}
	if err = api.svc.AssignToClass(ctx.Request().Context(), sess, ctx.Param("id"), ctx.Param("classId")); err != nil {
		return err
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *teacherApi) draft(ctx echo.Context) error {
	draft, err := api.svc.Draft(ctx.Param("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, draft)
}

func (api *teacherApi) setTitle(ctx echo.Context) error {
	var data SetTitleRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to SetTitleRequest")
	}
	draft, err := api.svc.SetDraftTitle(ctx.Param("id"), data.Title)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, draft)
}

func (api *teacherApi) addQuestion(ctx echo.Context) error {
	var data AddQuestionRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to AddQuestionRequest")
	}
	draft, err := api.svc.AddQuestion(ctx.Param("id"), data.Topic)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, draft)
}

func (api *teacherApi) setQuestionText(ctx echo.Context) error {
	index, err := questionIndex(ctx)
	if err != nil {
		return err
	}
	var data SetQuestionTextRequest
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to SetQuestionTextRequest")
	}
	draft, err := api.svc.SetQuestionText(ctx.Param("id"), index, data.Question)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, draft)
}

func (api *teacherApi) setScore(ctx echo.Context) error {
	index, err := questionIndex(ctx)
	if err != nil {
		return err
	}
	var data SetScoreRequest
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to SetScoreRequest")
	}
	draft, err := api.svc.SetScore(ctx.Param("id"), index, data.Score)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, draft)
}

func (api *teacherApi) deleteQuestion(ctx echo.Context) error {
	index, err := questionIndex(ctx)
	if err != nil {
		return err
	}
	draft, err := api.svc.DeleteQuestion(ctx.Param("id"), index)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, draft)
}

func (api *teacherApi) publish(ctx echo.Context) error {
	sess, err := getContextSession(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context session")
	}
	draft, err := api.svc.Publish(ctx.Request().Context(), sess, ctx.Param("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, draft)
}

func questionIndex(ctx echo.Context) (int, error) {
	index, err := strconv.Atoi(ctx.Param("index"))
	if err != nil {
		return 0, errBadQuestionIndex
	}
	return index, nil
}
