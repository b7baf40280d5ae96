package controller

import (
	"fmt"
	"ggsc_backend/internal/service"
	"ggsc_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ScoreController struct {
	ScoreService *service.ScoreService
}

func NewScoreController(scoreService *service.ScoreService) *ScoreController {
	return &ScoreController{ScoreService: scoreService}
}

type BatchUpdateRequest struct {
	Updates []service.ScoreUpdate `json:"updates"`
}

// UpdateScore godoc
// @Summary Set a team's score for one round
// @Tags scores
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body service.ScoreUpdate true "Score"
// @Success 200 {object} object "message and team"
// @Failure 400 {object} util.ErrorResponse
// @Failure 404 {object} util.ErrorResponse "Team not found"
// @Router /api/scores/update [post]
func (c *ScoreController) UpdateScore(ctx *gin.Context) {
	var req service.ScoreUpdate
	if !bindJSON(ctx, &req) {
		return
	}

	team, err := c.ScoreService.UpdateScore(ctx.Request.Context(), req)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{
		"message": fmt.Sprintf("Round %d score updated successfully", req.Round.Value),
		"team":    team,
	})
}

// BatchUpdate godoc
// @Summary Set several round scores
// @Description Items are applied one by one. Failures are reported per item and do not undo earlier items.
// @Tags scores
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body BatchUpdateRequest true "Updates"
// @Success 200 {object} service.BatchUpdateResult
// @Failure 400 {object} util.ErrorResponse
// @Router /api/scores/batch-update [post]
func (c *ScoreController) BatchUpdate(ctx *gin.Context) {
	var req BatchUpdateRequest
	if !bindJSON(ctx, &req) {
		return
	}

	res, err := c.ScoreService.BatchUpdate(ctx.Request.Context(), req.Updates)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, res)
}

// GetRoundLeaderboard godoc
// @Summary Team standings for one round
// @Tags scores
// @Produce  json
// @Param   round path int true "Round (1-3)"
// @Success 200 {object} service.RoundLeaderboard
// @Failure 400 {object} util.ErrorResponse "Invalid round number"
// @Router /api/scores/leaderboard/{round} [get]
func (c *ScoreController) GetRoundLeaderboard(ctx *gin.Context) {
	round, ok := util.ParseIntParam(ctx.Param("round"))
	if !ok {
		util.BadRequest(ctx, util.MsgInvalidRound)
		return
	}

	res, err := c.ScoreService.RoundLeaderboard(ctx.Request.Context(), round)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, res)
}

// GetOverallLeaderboard godoc
// @Summary Team standings by total score
// @Tags scores
// @Produce  json
// @Success 200 {object} service.OverallLeaderboard
// @Router /api/scores/leaderboard [get]
func (c *ScoreController) GetOverallLeaderboard(ctx *gin.Context) {
	res, err := c.ScoreService.OverallLeaderboard(ctx.Request.Context())
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, res)
}
