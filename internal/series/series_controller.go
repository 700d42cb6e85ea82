package series

import (
	"net/http"

	"github.com/DhavalSuthar-24/cricbook/pkg/responses"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

type SeriesController struct {
	repo SeriesRepository
}

func NewSeriesController(repo SeriesRepository) *SeriesController {
	return &SeriesController{repo: repo}
}

// Create godoc
// @Summary Create a series
// @Tags Series
// @Accept json
// @Produce json
// @Param series body CreateSeriesRequest true "Series"
// @Success 201 {object} responses.SuccessResponse{data=Series}
// @Failure 400 {object} responses.ErrorResponse
// @Failure 409 {object} responses.ErrorResponse "Name already used"
// @Security BearerAuth
// @Router /series [post]
func (sc *SeriesController) Create(c *gin.Context) {
	var req CreateSeriesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.ValidationError(c, err)
		return
	}

	s, created, err := sc.repo.FindOrCreateByName(c.Request.Context(), req.Name, Series{
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
		Format:    req.Format,
	})
	if err != nil {
		log.Error().Err(err).Str("name", req.Name).Msg("create series failed")
		responses.InternalServerError(c, "Failed to create series")
		return
	}
	if !created {
		responses.SendError(c, http.StatusConflict, "A series with this name already exists")
		return
	}
	responses.SendSuccess(c, http.StatusCreated, "Series created successfully", s)
}

// Get godoc
// @Summary Get a series
// @Tags Series
// @Produce json
// @Param id path uint true "Series ID"
// @Success 200 {object} responses.SuccessResponse{data=Series}
// @Failure 404 {object} responses.ErrorResponse
// @Router /series/{id} [get]
func (sc *SeriesController) Get(c *gin.Context) {
	id, ok := responses.ParamID(c, "id")
	if !ok {
		return
	}
	s, err := sc.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		responses.InternalServerError(c, "Failed to retrieve series")
		return
	}
	if s == nil {
		responses.NotFound(c, "Series")
		return
	}
	responses.SendSuccess(c, http.StatusOK, "", s)
}

// List godoc
// @Summary List series
// @Description Newest first.
// @Tags Series
// @Produce json
// @Param format query string false "international, domestic or league"
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(20)
// @Success 200 {object} responses.PaginatedResponse{data=[]Series}
// @Router /series [get]
func (sc *SeriesController) List(c *gin.Context) {
	page, limit := responses.PageParams(c)
	items, total, err := sc.repo.List(c.Request.Context(), page, limit, c.Query("format"))
	if err != nil {
		responses.InternalServerError(c, "Failed to retrieve series")
		return
	}
	responses.SendPaginated(c, "", items, total, page, limit)
}
