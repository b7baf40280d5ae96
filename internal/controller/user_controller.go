package controller

import (
	"ggsc_backend/internal/service"
	"ggsc_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// UserController serves the participant directory.
type UserController struct {
	UserService *service.UserService
}

func NewUserController(userService *service.UserService) *UserController {
	return &UserController{UserService: userService}
}

// GetUsers godoc
// @Summary List users
// @Tags users
// @Security ApiKeyAuth
// @Produce  json
// @Param   department query string false "Department filter"
// @Param   year query int false "Year filter"
// @Success 200 {object} object "users and count"
// @Router /api/users [get]
func (c *UserController) GetUsers(ctx *gin.Context) {
	users, err := c.UserService.ListUsers(ctx.Request.Context(), ctx.Query("department"), ctx.Query("year"))
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"users": users, "count": len(users)})
}

// GetUser godoc
// @Summary Get a user
// @Tags users
// @Security ApiKeyAuth
// @Produce  json
// @Param   id path string true "User ID"
// @Success 200 {object} object "user"
// @Failure 404 {object} util.ErrorResponse "User not found"
// @Router /api/users/{id} [get]
func (c *UserController) GetUser(ctx *gin.Context) {
	user, err := c.UserService.GetUser(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"user": user})
}

// UpdateUser godoc
// @Summary Update contact details
// @Description Only mobile_number, department and year can change.
// @Tags users
// @Security ApiKeyAuth
// @Accept  json
// @Produce  json
// @Param   id path string true "User ID"
// @Param   body body service.UpdateUserRequest true "Fields to change"
// @Success 200 {object} object "user"
// @Failure 404 {object} util.ErrorResponse
// @Router /api/users/{id} [patch]
func (c *UserController) UpdateUser(ctx *gin.Context) {
	var req service.UpdateUserRequest
	if !bindJSON(ctx, &req) {
		return
	}

	user, err := c.UserService.UpdateUser(ctx.Request.Context(), ctx.Param("id"), req)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"message": "User updated successfully", "user": user})
}
