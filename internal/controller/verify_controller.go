package controller

import (
	"errors"
	"ggsc_backend/internal/service"
	"ggsc_backend/internal/util"
	"net/http"

	"github.com/gin-gonic/gin"
)

type VerifyController struct {
	VerifyService *service.VerifyService
}

func NewVerifyController(verifyService *service.VerifyService) *VerifyController {
	return &VerifyController{VerifyService: verifyService}
}

type VerifyEmailRequest struct {
	Email string `json:"email"`
}

type BulkVerifyRequest struct {
	Emails []string `json:"emails"`
}

// verifyFailure keeps the success/exists flags on every reply of this endpoint.
func verifyFailure(ctx *gin.Context, err error) {
	var appErr *util.AppError
	if !errors.As(err, &appErr) {
		util.LogInternalError(ctx, err)
		return
	}
	ctx.JSON(util.StatusFor(err), gin.H{"success": false, "exists": false, "error": appErr.Message})
}

// VerifyEmail godoc
// @Summary Check whether an email is registered
// @Tags verify
// @Accept  json
// @Produce  json
// @Param   body body VerifyEmailRequest true "Email"
// @Success 200 {object} object "success, exists, message, user"
// @Failure 400 {object} object
// @Router /api/verify-email [post]
func (c *VerifyController) VerifyEmail(ctx *gin.Context) {
	var req VerifyEmailRequest
	if !bindJSON(ctx, &req) {
		return
	}

	user, err := c.VerifyService.Check(ctx.Request.Context(), req.Email)
	if err != nil {
		verifyFailure(ctx, err)
		return
	}
	if user == nil {
		ctx.JSON(http.StatusOK, gin.H{
			"success": true,
			"exists":  false,
			"message": util.MsgEmailNotRegistered,
			"email":   util.NormalizeEmail(req.Email),
		})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{
		"success": true,
		"exists":  true,
		"message": "Email verified successfully",
		"user":    user,
	})
}

// VerifyBulk godoc
// @Summary Check up to 100 emails at once
// @Tags verify
// @Accept  json
// @Produce  json
// @Param   body body BulkVerifyRequest true "Emails"
// @Success 200 {object} service.BulkVerifyResult
// @Failure 400 {object} object
// @Router /api/verify-email/bulk [post]
func (c *VerifyController) VerifyBulk(ctx *gin.Context) {
	var req BulkVerifyRequest
	if !bindJSON(ctx, &req) {
		return
	}

	res, err := c.VerifyService.Bulk(ctx.Request.Context(), req.Emails)
	if err != nil {
		var appErr *util.AppError
		if errors.As(err, &appErr) {
			ctx.JSON(util.StatusFor(err), gin.H{"success": false, "error": appErr.Message})
			return
		}
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, res)
}
