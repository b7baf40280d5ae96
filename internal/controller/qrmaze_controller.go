package controller

import (
	"ggsc_backend/internal/service"
	"ggsc_backend/internal/util"
	"net/http"

	"github.com/gin-gonic/gin"
)

type QrMazeController struct {
	QrMazeService *service.QrMazeService
	VerifyService *service.VerifyService
}

func NewQrMazeController(qrmazeService *service.QrMazeService, verifyService *service.VerifyService) *QrMazeController {
	return &QrMazeController{QrMazeService: qrmazeService, VerifyService: verifyService}
}

// setParam parses a set number path value. Non-numeric values are reported as an
// invalid set before anything reaches the store.
func setParam(ctx *gin.Context, name string) (int, bool) {
	n, ok := util.ParseIntParam(ctx.Param(name))
	if !ok {
		util.BadRequest(ctx, util.MsgInvalidSetNumber)
		return 0, false
	}
	return n, true
}

// VerifyEmail godoc
// @Summary Check that a player is registered before starting the maze
// @Tags qrmaze
// @Accept  json
// @Produce  json
// @Param   body body VerifyEmailRequest true "Email"
// @Success 200 {object} object "exists, message, user"
// @Failure 400 {object} object
// @Router /api/qrmaze/verify-email [post]
func (c *QrMazeController) VerifyEmail(ctx *gin.Context) {
	var req VerifyEmailRequest
	if !bindJSON(ctx, &req) {
		return
	}
	if req.Email == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Email is required", "exists": false})
		return
	}

	user, err := c.VerifyService.Lookup(ctx.Request.Context(), req.Email)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	if user == nil {
		util.Success(ctx, gin.H{"exists": false, "message": util.MsgEmailNotRegistered})
		return
	}
	user.MobileNumber = ""
	util.Success(ctx, gin.H{"exists": true, "message": "Email verified successfully", "user": user})
}

// SubmitScore godoc
// @Summary Submit a quiz-set score
// @Description One submission per email and set. Resubmission is rejected.
// @Tags qrmaze
// @Accept  json
// @Produce  json
// @Param   body body service.SubmitScoreRequest true "Score"
// @Success 201 {object} object "message and submission"
// @Failure 400 {object} util.ErrorResponse
// @Failure 404 {object} util.ErrorResponse "Email not found in registered users"
// @Failure 409 {object} util.ErrorResponse "Score already submitted for this set"
// @Router /api/qrmaze/submit-score [post]
func (c *QrMazeController) SubmitScore(ctx *gin.Context) {
	var req service.SubmitScoreRequest
	if !bindJSON(ctx, &req) {
		return
	}

	submission, err := c.QrMazeService.SubmitScore(ctx.Request.Context(), req)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Created(ctx, gin.H{"message": "Score submitted successfully", "submission": submission})
}

// GetUserProgress godoc
// @Summary A player's progress across sets
// @Tags qrmaze
// @Produce  json
// @Param   email path string true "Player email"
// @Success 200 {object} service.QrMazeProgress
// @Router /api/qrmaze/user/{email} [get]
func (c *QrMazeController) GetUserProgress(ctx *gin.Context) {
	res, err := c.QrMazeService.GetUserProgress(ctx.Request.Context(), ctx.Param("email"))
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, res)
}

// GetSetLeaderboard godoc
// @Summary Leaderboard for one set
// @Tags qrmaze
// @Produce  json
// @Param   setNumber path int true "Set number (1-5)"
// @Success 200 {object} service.QrMazeSetLeaderboard
// @Failure 400 {object} util.ErrorResponse "Invalid set number"
// @Router /api/qrmaze/leaderboard/{setNumber} [get]
func (c *QrMazeController) GetSetLeaderboard(ctx *gin.Context) {
	set, ok := setParam(ctx, "setNumber")
	if !ok {
		return
	}
	res, err := c.QrMazeService.GetSetLeaderboard(ctx.Request.Context(), set)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, res)
}

// GetOverallLeaderboard godoc
// @Summary Leaderboard across all sets
// @Tags qrmaze
// @Produce  json
// @Success 200 {object} service.QrMazeOverallLeaderboard
// @Router /api/qrmaze/leaderboard [get]
func (c *QrMazeController) GetOverallLeaderboard(ctx *gin.Context) {
	res, err := c.QrMazeService.GetOverallLeaderboard(ctx.Request.Context())
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, res)
}

// GetSetSubmissions godoc
// @Summary All submissions for one set
// @Tags qrmaze
// @Produce  json
// @Security ApiKeyAuth
// @Param   setNumber path int true "Set number (1-5)"
// @Success 200 {object} service.QrMazeSetSubmissions
// @Failure 400 {object} util.ErrorResponse
// @Router /api/qrmaze/set/{setNumber}/submissions [get]
func (c *QrMazeController) GetSetSubmissions(ctx *gin.Context) {
	set, ok := setParam(ctx, "setNumber")
	if !ok {
		return
	}
	res, err := c.QrMazeService.GetSetSubmissions(ctx.Request.Context(), set)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, res)
}

// UpdateScore godoc
// @Summary Correct a submitted score
// @Tags qrmaze
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body service.UpdateQrMazeScoreRequest true "Corrected score"
// @Success 200 {object} object "message and submission"
// @Failure 400 {object} util.ErrorResponse
// @Failure 404 {object} util.ErrorResponse "Submission not found"
// @Router /api/qrmaze/update-score [put]
func (c *QrMazeController) UpdateScore(ctx *gin.Context) {
	var req service.UpdateQrMazeScoreRequest
	if !bindJSON(ctx, &req) {
		return
	}

	submission, err := c.QrMazeService.UpdateScore(ctx.Request.Context(), req)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"message": "Score updated successfully", "submission": submission})
}

// DeleteSubmission godoc
// @Summary Delete a quiz submission
// @Tags qrmaze
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path string true "Submission ID"
// @Success 200 {object} object
// @Failure 404 {object} util.ErrorResponse
// @Router /api/qrmaze/submission/{id} [delete]
func (c *QrMazeController) DeleteSubmission(ctx *gin.Context) {
	if err := c.QrMazeService.DeleteSubmission(ctx.Request.Context(), ctx.Param("id")); err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"message": "Submission deleted successfully"})
}
