package controller

import (
	"ggsc_backend/internal/service"
	"ggsc_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type TeamController struct {
	TeamService *service.TeamService
}

func NewTeamController(teamService *service.TeamService) *TeamController {
	return &TeamController{TeamService: teamService}
}

// GetTeams godoc
// @Summary List teams
// @Tags teams
// @Produce  json
// @Success 200 {object} service.TeamList
// @Router /api/teams [get]
func (c *TeamController) GetTeams(ctx *gin.Context) {
	res, err := c.TeamService.ListTeams(ctx.Request.Context())
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, res)
}

// GetTeam godoc
// @Summary Get a team by number
// @Tags teams
// @Produce  json
// @Param   teamNumber path int true "Team number"
// @Success 200 {object} object "team"
// @Failure 404 {object} util.ErrorResponse "Team not found"
// @Router /api/teams/{teamNumber} [get]
func (c *TeamController) GetTeam(ctx *gin.Context) {
	team, err := c.TeamService.GetTeam(ctx.Request.Context(), ctx.Param("teamNumber"))
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"team": team})
}

// CreateRandom godoc
// @Summary Shuffle participants into teams
// @Tags teams
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body service.CreateRandomTeamsRequest false "team_size (default 4), team_name_prefix (default Team)"
// @Success 201 {object} service.RandomTeamsResult
// @Failure 400 {object} util.ErrorResponse
// @Router /api/teams/create-random [post]
func (c *TeamController) CreateRandom(ctx *gin.Context) {
	var req service.CreateRandomTeamsRequest
	if !bindJSON(ctx, &req) {
		return
	}

	res, err := c.TeamService.CreateRandomTeams(ctx.Request.Context(), req)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Created(ctx, res)
}

// GetUserTeam godoc
// @Summary Find the team of a user
// @Tags teams
// @Produce  json
// @Param   identifier path string true "User ID or email"
// @Success 200 {object} service.UserTeam
// @Failure 404 {object} util.ErrorResponse "User not in any team"
// @Router /api/teams/user/{identifier} [get]
func (c *TeamController) GetUserTeam(ctx *gin.Context) {
	res, err := c.TeamService.GetUserTeam(ctx.Request.Context(), ctx.Param("identifier"))
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, res)
}

// ClearTeams godoc
// @Summary Remove every team membership
// @Tags teams
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} object
// @Router /api/teams/clear [delete]
func (c *TeamController) ClearTeams(ctx *gin.Context) {
	removed, err := c.TeamService.ClearAssignments(ctx.Request.Context())
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"message": "All team assignments cleared successfully", "removed": removed})
}
