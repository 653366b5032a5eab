package admin

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/lshigami/Quokka/internal/auth"
	"github.com/lshigami/Quokka/internal/controller"
	"github.com/lshigami/Quokka/internal/dto"
	"github.com/lshigami/Quokka/internal/service"
	"github.com/rs/zerolog/log"
)

type AdminQuizController struct {
	quizAdminService service.QuizAdminService
}

func NewAdminQuizController(qas service.QuizAdminService) *AdminQuizController {
	return &AdminQuizController{quizAdminService: qas}
}

// CreateQuiz godoc
// @Summary (Admin) Create a quiz with its questions
// @Tags Admin - Quizzes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param quiz body dto.CreateQuizRequest true "Quiz with questions"
// @Success 201 {object} dto.QuizDTO
// @Failure 400 {object} dto.ErrorResponse "Invalid quiz or question shape"
// @Failure 403 {object} dto.ErrorResponse "Admin role required"
// @Router /admin/quizzes [post]
func (c *AdminQuizController) CreateQuiz(ctx *gin.Context) {
	principal, _ := auth.CurrentPrincipal(ctx)

	var req dto.CreateQuizRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		log.Warn().Err(err).Msg("CreateQuiz: failed to bind JSON")
		controller.BadRequest(ctx, "Invalid request body.")
		return
	}

	quiz, err := c.quizAdminService.CreateQuiz(principal.ID, req)
	if err != nil {
		controller.RespondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, quiz)
}

// PublishQuiz godoc
// @Summary (Admin) Publish a quiz
// @Tags Admin - Quizzes
// @Produce json
// @Security BearerAuth
// @Param quiz_id path string true "Quiz ID"
// @Success 200 {object} dto.QuizDTO
// @Failure 400 {object} dto.ErrorResponse "Quiz has no questions"
// @Failure 404 {object} dto.ErrorResponse
// @Router /admin/quizzes/{quiz_id}/publish [post]
func (c *AdminQuizController) PublishQuiz(ctx *gin.Context) {
	quizID, err := uuid.Parse(ctx.Param("quiz_id"))
	if err != nil {
		controller.BadRequest(ctx, "Invalid quiz id.")
		return
	}

	quiz, err := c.quizAdminService.PublishQuiz(quizID)
	if err != nil {
		controller.RespondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, quiz)
}

// DeleteQuiz godoc
// @Summary (Admin) Soft-delete a quiz
// @Description Completed attempts keep their review; the quiz stops serving new attempts and leaves leaderboards.
// @Tags Admin - Quizzes
// @Produce json
// @Security BearerAuth
// @Param quiz_id path string true "Quiz ID"
// @Success 204 "Deleted"
// @Failure 404 {object} dto.ErrorResponse
// @Router /admin/quizzes/{quiz_id} [delete]
func (c *AdminQuizController) DeleteQuiz(ctx *gin.Context) {
	quizID, err := uuid.Parse(ctx.Param("quiz_id"))
	if err != nil {
		controller.BadRequest(ctx, "Invalid quiz id.")
		return
	}

	if err := c.quizAdminService.DeleteQuiz(quizID); err != nil {
		controller.RespondError(ctx, err)
		return
	}
	ctx.Status(http.StatusNoContent)
}

// DeleteQuestion godoc
// @Summary (Admin) Soft-delete one question of a quiz
// @Tags Admin - Quizzes
// @Produce json
// @Security BearerAuth
// @Param quiz_id path string true "Quiz ID"
// @Param question_id path string true "Question ID"
// @Success 204 "Deleted"
// @Failure 404 {object} dto.ErrorResponse
// @Router /admin/quizzes/{quiz_id}/questions/{question_id} [delete]
func (c *AdminQuizController) DeleteQuestion(ctx *gin.Context) {
	quizID, err := uuid.Parse(ctx.Param("quiz_id"))
	if err != nil {
		controller.BadRequest(ctx, "Invalid quiz id.")
		return
	}
	questionID, err := uuid.Parse(ctx.Param("question_id"))
	if err != nil {
		controller.BadRequest(ctx, "Invalid question id.")
		return
	}

	if err := c.quizAdminService.DeleteQuestion(quizID, questionID); err != nil {
		controller.RespondError(ctx, err)
		return
	}
	ctx.Status(http.StatusNoContent)
}
