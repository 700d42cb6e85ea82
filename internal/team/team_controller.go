package team

import (
	"net/http"

	"github.com/DhavalSuthar-24/cricbook/pkg/responses"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// TeamController handles team and player requests.
type TeamController struct {
	repo TeamRepository
}

func NewTeamController(repo TeamRepository) *TeamController {
	return &TeamController{repo: repo}
}

// CreateTeam godoc
// @Summary Create a team
// @Description Creates a team, or returns the existing team with the same name.
// @Tags Teams
// @Accept json
// @Produce json
// @Param team body CreateTeamRequest true "Team"
// @Success 201 {object} responses.SuccessResponse{data=Team} "Team created"
// @Success 200 {object} responses.SuccessResponse{data=Team} "Team already existed"
// @Failure 400 {object} responses.ErrorResponse "Invalid input"
// @Failure 403 {object} responses.ErrorResponse "Admin only"
// @Security BearerAuth
// @Router /teams [post]
func (tc *TeamController) CreateTeam(c *gin.Context) {
	var req CreateTeamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.ValidationError(c, err)
		return
	}

	team, created, err := tc.repo.FindOrCreateByName(c.Request.Context(), req.Name, Team{
		ShortName: req.ShortName,
		Logo:      req.Logo,
		Country:   req.Country,
		TeamType:  req.TeamType,
	})
	if err != nil {
		log.Error().Err(err).Str("name", req.Name).Msg("create team failed")
		responses.InternalServerError(c, "Failed to create team")
		return
	}
	if !created {
		responses.SendSuccess(c, http.StatusOK, "Team already exists", team)
		return
	}
	responses.SendSuccess(c, http.StatusCreated, "Team created successfully", team)
}

// GetTeamByID godoc
// @Summary Get a team
// @Tags Teams
// @Produce json
// @Param id path uint true "Team ID"
// @Success 200 {object} responses.SuccessResponse{data=Team}
// @Failure 404 {object} responses.ErrorResponse "Team not found"
// @Router /teams/{id} [get]
func (tc *TeamController) GetTeamByID(c *gin.Context) {
	teamID, ok := responses.ParamID(c, "id")
	if !ok {
		return
	}

	team, err := tc.repo.GetTeamByID(c.Request.Context(), teamID)
	if err != nil {
		responses.InternalServerError(c, "Failed to retrieve team")
		return
	}
	if team == nil {
		responses.NotFound(c, "Team")
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Team retrieved successfully", team)
}

// GetAllTeams godoc
// @Summary List teams
// @Tags Teams
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(20)
// @Param team_type query string false "national, franchise or club"
// @Param country query string false "Country"
// @Param q query string false "Name fragment"
// @Success 200 {object} responses.PaginatedResponse{data=[]Team}
// @Router /teams [get]
func (tc *TeamController) GetAllTeams(c *gin.Context) {
	page, limit := responses.PageParams(c)
	filter := TeamFilter{
		TeamType: c.Query("team_type"),
		Country:  c.Query("country"),
		Query:    c.Query("q"),
	}

	teams, total, err := tc.repo.ListTeams(c.Request.Context(), page, limit, filter)
	if err != nil {
		responses.InternalServerError(c, "Failed to retrieve teams")
		return
	}
	responses.SendPaginated(c, "Teams retrieved successfully", teams, total, page, limit)
}

// GetTeamPlayers godoc
// @Summary List a team's players
// @Tags Teams
// @Produce json
// @Param id path uint true "Team ID"
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(20)
// @Success 200 {object} responses.PaginatedResponse{data=[]Player}
// @Failure 404 {object} responses.ErrorResponse "Team not found"
// @Router /teams/{id}/players [get]
func (tc *TeamController) GetTeamPlayers(c *gin.Context) {
	teamID, ok := responses.ParamID(c, "id")
	if !ok {
		return
	}
	ctx := c.Request.Context()

	team, err := tc.repo.GetTeamByID(ctx, teamID)
	if err != nil {
		responses.InternalServerError(c, "Failed to retrieve team")
		return
	}
	if team == nil {
		responses.NotFound(c, "Team")
		return
	}

	page, limit := responses.PageParams(c)
	players, total, err := tc.repo.ListPlayers(ctx, teamID, page, limit)
	if err != nil {
		responses.InternalServerError(c, "Failed to retrieve players")
		return
	}
	responses.SendPaginated(c, "Players retrieved successfully", players, total, page, limit)
}

// CreatePlayer godoc
// @Summary Create a player
// @Description Creates a player. team_name is resolved or created when team_id is absent.
// @Tags Teams
// @Accept json
// @Produce json
// @Param player body CreatePlayerRequest true "Player"
// @Success 201 {object} responses.SuccessResponse{data=Player}
// @Failure 400 {object} responses.ErrorResponse "Invalid input"
// @Failure 404 {object} responses.ErrorResponse "Team not found"
// @Security BearerAuth
// @Router /players [post]
func (tc *TeamController) CreatePlayer(c *gin.Context) {
	var req CreatePlayerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.ValidationError(c, err)
		return
	}
	ctx := c.Request.Context()

	var team *Team
	var err error
	switch {
	case req.TeamID != nil:
		team, err = tc.repo.GetTeamByID(ctx, *req.TeamID)
		if err != nil {
			responses.InternalServerError(c, "Failed to retrieve team")
			return
		}
		if team == nil {
			responses.NotFound(c, "Team")
			return
		}
	case req.TeamName != "":
		team, _, err = tc.repo.FindOrCreateByName(ctx, req.TeamName, Team{Country: req.Country})
		if err != nil {
			responses.InternalServerError(c, "Failed to resolve team")
			return
		}
	}

	player := Player{
		Name:         req.Name,
		Image:        req.Image,
		Country:      req.Country,
		Role:         req.Role,
		BattingStyle: req.BattingStyle,
		BowlingStyle: req.BowlingStyle,
		DateOfBirth:  req.DateOfBirth,
	}
	if team != nil {
		player.TeamID = &team.ID
		player.Team = team
	}
	if err := tc.repo.CreatePlayer(ctx, &player); err != nil {
		log.Error().Err(err).Str("name", req.Name).Msg("create player failed")
		responses.InternalServerError(c, "Failed to create player")
		return
	}
	responses.SendSuccess(c, http.StatusCreated, "Player created successfully", player)
}
