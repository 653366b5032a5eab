package user

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/lshigami/Quokka/internal/auth"
	"github.com/lshigami/Quokka/internal/controller"
	"github.com/lshigami/Quokka/internal/dto"
	"github.com/lshigami/Quokka/internal/model"
	"github.com/lshigami/Quokka/internal/service"
	"github.com/rs/zerolog/log"
)

type AttemptController struct {
	attemptService service.AttemptService
	resultService  service.ResultService
}

func NewAttemptController(as service.AttemptService, rs service.ResultService) *AttemptController {
	return &AttemptController{attemptService: as, resultService: rs}
}

// StartAttempt godoc
// @Summary Start or resume an attempt on a quiz
// @Description Returns the caller's in-progress attempt for the quiz, creating one if none exists, together with the next unanswered question.
// @Tags Attempts
// @Produce json
// @Security BearerAuth
// @Param quiz_id path string true "Quiz ID"
// @Success 200 {object} dto.StartAttemptDTO
// @Failure 400 {object} dto.ErrorResponse "Quiz unpublished, deleted or empty"
// @Failure 401 {object} dto.ErrorResponse
// @Router /quizzes/{quiz_id}/attempts [post]
func (c *AttemptController) StartAttempt(ctx *gin.Context) {
	principal, _ := auth.CurrentPrincipal(ctx)
	quizID, err := uuid.Parse(ctx.Param("quiz_id"))
	if err != nil {
		controller.BadRequest(ctx, "Invalid quiz id.")
		return
	}

	result, err := c.attemptService.StartOrResume(principal.ID, quizID)
	if err != nil {
		controller.RespondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, result)
}

// GetState godoc
// @Summary Get the current state of an attempt
// @Tags Attempts
// @Produce json
// @Security BearerAuth
// @Param attempt_id path string true "Attempt ID"
// @Success 200 {object} dto.AttemptStateDTO
// @Failure 404 {object} dto.ErrorResponse "Attempt not found or owned by someone else"
// @Router /attempts/{attempt_id} [get]
func (c *AttemptController) GetState(ctx *gin.Context) {
	principal, _ := auth.CurrentPrincipal(ctx)
	attemptID, err := uuid.Parse(ctx.Param("attempt_id"))
	if err != nil {
		controller.BadRequest(ctx, "Invalid attempt id.")
		return
	}

	state, err := c.attemptService.GetState(principal.ID, attemptID)
	if err != nil {
		controller.RespondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, state)
}

// SaveAnswer godoc
// @Summary Save the answer for one question
// @Description Records or overwrites the caller's answer and returns the next unanswered question. Expired attempts are force-completed and the save is rejected.
// @Tags Attempts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param attempt_id path string true "Attempt ID"
// @Param question_id path string true "Question ID"
// @Param answer body dto.SaveAnswerRequest true "Selected choices or submitted text"
// @Success 200 {object} dto.AttemptQuestionDTO
// @Failure 400 {object} dto.ErrorResponse "Malformed or invalid answer"
// @Failure 404 {object} dto.ErrorResponse "Attempt or question not found"
// @Failure 409 {object} dto.ErrorResponse "Attempt already completed"
// @Failure 410 {object} dto.ErrorResponse "Time budget elapsed"
// @Router /attempts/{attempt_id}/questions/{question_id}/answer [put]
func (c *AttemptController) SaveAnswer(ctx *gin.Context) {
	principal, _ := auth.CurrentPrincipal(ctx)
	attemptID, err := uuid.Parse(ctx.Param("attempt_id"))
	if err != nil {
		controller.BadRequest(ctx, "Invalid attempt id.")
		return
	}
	questionID, err := uuid.Parse(ctx.Param("question_id"))
	if err != nil {
		controller.BadRequest(ctx, "Invalid question id.")
		return
	}

	var req dto.SaveAnswerRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		log.Warn().Err(err).Msg("SaveAnswer: failed to bind JSON")
		controller.BadRequest(ctx, "Invalid request body.")
		return
	}

	next, err := c.attemptService.SaveAnswer(principal.ID, attemptID, questionID, req)
	if err != nil {
		controller.RespondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, next)
}

// Submit godoc
// @Summary Submit an attempt
// @Description Completes the attempt and finalizes its score. Submitting an already completed attempt returns the stored snapshot unchanged.
// @Tags Attempts
// @Produce json
// @Security BearerAuth
// @Param attempt_id path string true "Attempt ID"
// @Success 200 {object} dto.AttemptStateDTO
// @Failure 404 {object} dto.ErrorResponse
// @Router /attempts/{attempt_id}/submit [post]
func (c *AttemptController) Submit(ctx *gin.Context) {
	principal, _ := auth.CurrentPrincipal(ctx)
	attemptID, err := uuid.Parse(ctx.Param("attempt_id"))
	if err != nil {
		controller.BadRequest(ctx, "Invalid attempt id.")
		return
	}

	state, err := c.attemptService.Submit(principal.ID, attemptID)
	if err != nil {
		controller.RespondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, state)
}

// GetResultSummary godoc
// @Summary Get the score summary of an attempt
// @Tags Results
// @Produce json
// @Security BearerAuth
// @Param attempt_id path string true "Attempt ID"
// @Success 200 {object} dto.ResultSummaryDTO
// @Failure 404 {object} dto.ErrorResponse
// @Router /attempts/{attempt_id}/result [get]
func (c *AttemptController) GetResultSummary(ctx *gin.Context) {
	principal, _ := auth.CurrentPrincipal(ctx)
	attemptID, err := uuid.Parse(ctx.Param("attempt_id"))
	if err != nil {
		controller.BadRequest(ctx, "Invalid attempt id.")
		return
	}

	summary, err := c.resultService.GetSummary(principal, attemptID)
	if err != nil {
		controller.RespondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, summary)
}

// GetResultReview godoc
// @Summary Get the per-question review of an attempt
// @Description Shows each question with the caller's selections and the correct answers, including questions and choices deleted after the attempt.
// @Tags Results
// @Produce json
// @Security BearerAuth
// @Param attempt_id path string true "Attempt ID"
// @Success 200 {object} dto.ResultReviewDTO
// @Failure 404 {object} dto.ErrorResponse
// @Router /attempts/{attempt_id}/review [get]
func (c *AttemptController) GetResultReview(ctx *gin.Context) {
	principal, _ := auth.CurrentPrincipal(ctx)
	attemptID, err := uuid.Parse(ctx.Param("attempt_id"))
	if err != nil {
		controller.BadRequest(ctx, "Invalid attempt id.")
		return
	}

	review, err := c.resultService.GetReview(principal, attemptID)
	if err != nil {
		controller.RespondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, review)
}

// GetMyAttempts godoc
// @Summary List the caller's attempts
// @Tags Results
// @Produce json
// @Security BearerAuth
// @Param status query string false "Filter by status" Enums(in_progress, completed)
// @Param skip query int false "Offset" default(0)
// @Param take query int false "Page size" default(20)
// @Success 200 {object} dto.PagedDTO[dto.MyAttemptListItemDTO]
// @Router /me/attempts [get]
func (c *AttemptController) GetMyAttempts(ctx *gin.Context) {
	principal, _ := auth.CurrentPrincipal(ctx)

	var status *model.AttemptStatus
	switch ctx.Query("status") {
	case "":
	case string(model.AttemptInProgress):
		s := model.AttemptInProgress
		status = &s
	case string(model.AttemptCompleted):
		s := model.AttemptCompleted
		status = &s
	default:
		controller.BadRequest(ctx, "Invalid status filter.")
		return
	}

	skip, take := pagination(ctx, 20, 100)
	page, err := c.resultService.GetMyAttempts(principal.ID, status, skip, take)
	if err != nil {
		controller.RespondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, page)
}

func pagination(ctx *gin.Context, defaultTake, maxTake int) (int, int) {
	skip, err := strconv.Atoi(ctx.DefaultQuery("skip", "0"))
	if err != nil || skip < 0 {
		skip = 0
	}
	take, err := strconv.Atoi(ctx.DefaultQuery("take", strconv.Itoa(defaultTake)))
	if err != nil || take <= 0 {
		take = defaultTake
	}
	if take > maxTake {
		take = maxTake
	}
	return skip, take
}
