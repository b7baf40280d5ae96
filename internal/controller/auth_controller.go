package controller

import (
	"ggsc_backend/internal/service"
	"ggsc_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type AuthController struct {
	AuthService *service.AuthService
}

func NewAuthController(authService *service.AuthService) *AuthController {
	return &AuthController{AuthService: authService}
}

// Signup godoc
// @Summary Register a participant
// @Description Creates the account and sends a confirmation email. Mail failures do not fail registration.
// @Tags auth
// @Accept  json
// @Produce  json
// @Param   body body service.SignupRequest true "Registration form"
// @Success 201 {object} object "user and session"
// @Failure 400 {object} util.ErrorResponse "Missing required fields"
// @Failure 409 {object} util.ErrorResponse "Email already registered"
// @Failure 500 {object} util.ErrorResponse
// @Router /api/auth/signup [post]
func (c *AuthController) Signup(ctx *gin.Context) {
	var req service.SignupRequest
	if !bindJSON(ctx, &req) {
		return
	}

	res, err := c.AuthService.Signup(ctx.Request.Context(), req)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}

	util.Created(ctx, gin.H{
		"message": "User registered successfully",
		"user":    res.User,
		"session": res.Session,
	})
}

// Login godoc
// @Summary Log in
// @Tags auth
// @Accept  json
// @Produce  json
// @Param   body body service.LoginRequest true "Credentials"
// @Success 200 {object} object "user and session"
// @Failure 400 {object} util.ErrorResponse
// @Failure 401 {object} util.ErrorResponse
// @Router /api/auth/login [post]
func (c *AuthController) Login(ctx *gin.Context) {
	var req service.LoginRequest
	if !bindJSON(ctx, &req) {
		return
	}

	res, err := c.AuthService.Login(ctx.Request.Context(), req)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{
		"message": "Login successful",
		"user":    res.User,
		"session": res.Session,
	})
}

// Logout godoc
// @Summary Log out
// @Description Revokes the presented token.
// @Tags auth
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} object
// @Failure 401 {object} util.ErrorResponse
// @Router /api/auth/logout [post]
func (c *AuthController) Logout(ctx *gin.Context) {
	if err := c.AuthService.Logout(ctx.Request.Context(), util.GetUserFromContext(ctx)); err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"message": "Logout successful"})
}

// Me godoc
// @Summary Current user
// @Tags auth
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} object "user"
// @Failure 401 {object} util.ErrorResponse
// @Failure 404 {object} util.ErrorResponse "User profile not found"
// @Router /api/auth/me [get]
func (c *AuthController) Me(ctx *gin.Context) {
	user, err := c.AuthService.Me(ctx.Request.Context(), util.GetUserFromContext(ctx))
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"user": user})
}
