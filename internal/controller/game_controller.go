package controller

import (
	"ggsc_backend/internal/service"
	"ggsc_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type GameController struct {
	GameService *service.GameService
}

func NewGameController(gameService *service.GameService) *GameController {
	return &GameController{GameService: gameService}
}

// SubmitLevel godoc
// @Summary Record a level completion
// @Description Appends to the player's history. The email must be registered.
// @Tags game
// @Accept  json
// @Produce  json
// @Param   body body service.SubmitLevelRequest true "Level result"
// @Success 201 {object} object "message and data"
// @Failure 400 {object} util.ErrorResponse
// @Failure 404 {object} util.ErrorResponse "Email not found in registered users"
// @Router /api/game/submit-level [post]
func (c *GameController) SubmitLevel(ctx *gin.Context) {
	var req service.SubmitLevelRequest
	if !bindJSON(ctx, &req) {
		return
	}

	level, err := c.GameService.SubmitLevel(ctx.Request.Context(), req)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Created(ctx, gin.H{"message": "Level completion saved successfully", "data": level})
}

// GetResults godoc
// @Summary A player's level history
// @Tags game
// @Produce  json
// @Param   email path string true "Player email"
// @Success 200 {object} service.GameResults
// @Router /api/game/results/{email} [get]
func (c *GameController) GetResults(ctx *gin.Context) {
	res, err := c.GameService.GetResults(ctx.Request.Context(), ctx.Param("email"))
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, res)
}

// GetLeaderboard godoc
// @Summary Fastest 100 game completions
// @Tags game
// @Produce  json
// @Success 200 {object} service.GameLeaderboard
// @Router /api/game/leaderboard [get]
func (c *GameController) GetLeaderboard(ctx *gin.Context) {
	res, err := c.GameService.GetLeaderboard(ctx.Request.Context())
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, res)
}

// GetSubmissions godoc
// @Summary All level submissions
// @Tags game
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} service.GameSubmissions
// @Router /api/game/submissions [get]
func (c *GameController) GetSubmissions(ctx *gin.Context) {
	res, err := c.GameService.GetSubmissions(ctx.Request.Context())
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, res)
}

// DeleteSubmission godoc
// @Summary Delete a level submission
// @Tags game
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path string true "Submission ID"
// @Success 200 {object} object
// @Failure 404 {object} util.ErrorResponse
// @Router /api/game/submission/{id} [delete]
func (c *GameController) DeleteSubmission(ctx *gin.Context) {
	if err := c.GameService.DeleteSubmission(ctx.Request.Context(), ctx.Param("id")); err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"message": "Submission deleted successfully"})
}
