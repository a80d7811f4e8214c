package projection

import (
	"errors"
	"log/slog"
	"net/http"

	httperr "github.com/aevon-lab/slsrpt-ingest/internal/core/errors"
	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers all projection API routes on the given router.
func (s *Service) RegisterRoutes(r gin.IRouter) {
	r.GET("/v1/summary", s.HandleQuerySummary)
}

// HandleQuerySummary handles GET /v1/summary
// Query parameters: period, branch, group_by
func (s *Service) HandleQuerySummary(c *gin.Context) {
	var req SummaryQueryRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, httperr.ErrorResponse{
			ErrorType: httperr.HttpInvalidQueryError,
			Message:   "Invalid query parameters",
			Details:   err.Error(),
		})
		return
	}

	resp, err := s.QuerySummary(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, ErrInvalidQuery) {
			c.JSON(http.StatusBadRequest, httperr.ErrorResponse{
				ErrorType: httperr.HttpInvalidQueryError,
				Message:   "Invalid summary query",
				Details:   err.Error(),
			})
			return
		}

		slog.Error("[Projection] Summary query failed", "period", req.Period, "error", err)
		c.JSON(http.StatusInternalServerError, httperr.ErrorResponse{
			ErrorType: httperr.HttpInternalError,
			Message:   "Failed to query summary",
		})
		return
	}

	c.JSON(http.StatusOK, resp)
}
