package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/enic-kz/portal/internal/core/ports"
)

type QuestionHandler struct {
	service ports.QuestionService
}

func NewQuestionHandler(service ports.QuestionService) *QuestionHandler {
	return &QuestionHandler{service: service}
}

// List returns the caller's questions, or every question for staff.
//
// @Summary      List questions
// @Tags         questions
// @Produce      json
// @Success      200  {object}  questionsResponse
// @Failure      401  {object}  errorResponse
// @Security     BearerAuth
// @Router       /api/questions [get]
func (h *QuestionHandler) List(c echo.Context) error {
	qs, err := h.service.List(c.Request().Context(), actor(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, questionsResponse{Questions: qs})
}

// Ask submits a new question.
//
// @Summary      Ask a question
// @Tags         questions
// @Accept       json
// @Produce      json
// @Param        body  body      askRequest  true  "Question"
// @Success      201   {object}  domain.Question
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Security     BearerAuth
// @Router       /api/questions [post]
func (h *QuestionHandler) Ask(c echo.Context) error {
	var req askRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	q, err := h.service.Ask(c.Request().Context(), actor(c), req.Question)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, q)
}

// Answer stores a staff answer for a question.
//
// @Summary      Answer a question
// @Tags         questions
// @Accept       json
// @Produce      json
// @Param        id    path      string         true  "Question ID"
// @Param        body  body      answerRequest  true  "Answer"
// @Success      200   {object}  domain.Question
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Security     BearerAuth
// @Router       /api/questions/{id}/answer [post]
func (h *QuestionHandler) Answer(c echo.Context) error {
	var req answerRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	q, err := h.service.Answer(c.Request().Context(), actor(c), c.Param("id"), req.Answer)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, q)
}
