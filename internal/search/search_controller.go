package search

import (
	"net/http"
	"strings"

	"github.com/DhavalSuthar-24/cricbook/pkg/responses"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

type Query struct {
	Q     string `form:"q" binding:"required,max=100"`
	Type  string `form:"type" binding:"omitempty,oneof=all users posts hashtags matches"`
	Limit int    `form:"limit" binding:"omitempty,min=1,max=50"`
}

type SearchController struct {
	service *Service
}

func NewSearchController(service *Service) *SearchController {
	return &SearchController{service: service}
}

// Search godoc
// @Summary Search users, posts, hashtags and matches
// @Description Matches are found by venue, city or the name of a playing team.
// @Tags Search
// @Produce json
// @Param q query string true "Search text"
// @Param type query string false "all, users, posts, hashtags or matches" default(all)
// @Param limit query int false "Results per type, at most 50" default(20)
// @Success 200 {object} responses.SuccessResponse{data=Results}
// @Failure 400 {object} responses.ErrorResponse
// @Router /search [get]
func (sc *SearchController) Search(c *gin.Context) {
	var query Query
	if err := c.ShouldBindQuery(&query); err != nil {
		responses.ValidationError(c, err)
		return
	}
	if strings.TrimSpace(query.Q) == "" {
		responses.BadRequest(c, "Query parameter q is required")
		return
	}
	if query.Type == "" {
		query.Type = TypeAll
	}
	if query.Limit == 0 {
		query.Limit = responses.DefaultPageSize
	}

	results, err := sc.service.Search(c.Request.Context(), query.Q, query.Type, query.Limit)
	if err != nil {
		log.Error().Err(err).Str("q", query.Q).Msg("search failed")
		responses.InternalServerError(c, "Search failed")
		return
	}
	responses.SendSuccess(c, http.StatusOK, "", results)
}
