package user

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/lshigami/Quokka/internal/auth"
	"github.com/lshigami/Quokka/internal/controller"
	"github.com/lshigami/Quokka/internal/service"
)

type LeaderboardController struct {
	leaderboardService service.LeaderboardService
}

func NewLeaderboardController(ls service.LeaderboardService) *LeaderboardController {
	return &LeaderboardController{leaderboardService: ls}
}

// GetQuizLeaderboard godoc
// @Summary Leaderboard for one quiz
// @Description Ranks users by their best completed score on the quiz, earliest submission breaking ties. The caller's own rank is included when authenticated.
// @Tags Leaderboards
// @Produce json
// @Security BearerAuth
// @Param quiz_id path string true "Quiz ID"
// @Param period query string false "Time window" Enums(all, month, week) default(all)
// @Param take query int false "Page size" default(10)
// @Success 200 {object} dto.LeaderboardDTO
// @Failure 404 {object} dto.ErrorResponse "Quiz not found"
// @Router /quizzes/{quiz_id}/leaderboard [get]
func (c *LeaderboardController) GetQuizLeaderboard(ctx *gin.Context) {
	quizID, err := uuid.Parse(ctx.Param("quiz_id"))
	if err != nil {
		controller.BadRequest(ctx, "Invalid quiz id.")
		return
	}

	board, err := c.leaderboardService.GetQuizLeaderboard(
		currentUserID(ctx),
		quizID,
		ctx.DefaultQuery("period", "all"),
		takeParam(ctx),
	)
	if err != nil {
		controller.RespondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, board)
}

// GetGlobalLeaderboard godoc
// @Summary Global leaderboard across all quizzes
// @Description Ranks users by the sum of their best completed scores per quiz.
// @Tags Leaderboards
// @Produce json
// @Security BearerAuth
// @Param period query string false "Time window" Enums(all, month, week) default(all)
// @Param take query int false "Page size" default(10)
// @Success 200 {object} dto.GlobalLeaderboardDTO
// @Router /leaderboard [get]
func (c *LeaderboardController) GetGlobalLeaderboard(ctx *gin.Context) {
	board, err := c.leaderboardService.GetGlobalLeaderboard(
		currentUserID(ctx),
		ctx.DefaultQuery("period", "all"),
		takeParam(ctx),
	)
	if err != nil {
		controller.RespondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, board)
}

func currentUserID(ctx *gin.Context) *uuid.UUID {
	principal, ok := auth.CurrentPrincipal(ctx)
	if !ok {
		return nil
	}
	id := principal.ID
	return &id
}

func takeParam(ctx *gin.Context) int {
	take, err := strconv.Atoi(ctx.DefaultQuery("take", "0"))
	if err != nil {
		return 0
	}
	return take
}
