package controller

import (
	"ggsc_backend/internal/service"
	"ggsc_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type AdminController struct {
	ExportService *service.ExportService
	EmailService  *service.EmailService
}

func NewAdminController(exportService *service.ExportService, emailService *service.EmailService) *AdminController {
	return &AdminController{ExportService: exportService, EmailService: emailService}
}

type TestEmailRequest struct {
	To string `json:"to"`
}

// Export godoc
// @Summary Export results as a spreadsheet
// @Description Builds an xlsx workbook and publishes it to the configured storage.
// @Tags admin
// @Produce  json
// @Security ApiKeyAuth
// @Param   kind path string true "game, qrmaze or teams"
// @Success 200 {object} service.ExportResult
// @Failure 400 {object} util.ErrorResponse
// @Router /api/admin/export/{kind} [get]
func (c *AdminController) Export(ctx *gin.Context) {
	res, err := c.ExportService.Export(ctx.Request.Context(), ctx.Param("kind"))
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, res)
}

// SendTestEmail godoc
// @Summary Send a test message through the configured SMTP server
// @Tags admin
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body TestEmailRequest true "Recipient"
// @Success 200 {object} object
// @Failure 400 {object} util.ErrorResponse
// @Router /api/admin/test-email [post]
func (c *AdminController) SendTestEmail(ctx *gin.Context) {
	var req TestEmailRequest
	if !bindJSON(ctx, &req) {
		return
	}
	to := util.NormalizeEmail(req.To)
	if to == "" {
		util.HandleError(ctx, util.MissingFields("to"))
		return
	}

	if err := c.EmailService.SendTestEmail(ctx.Request.Context(), to); err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"message": "Test email sent", "to": to})
}
