package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// handleSubmitBlock executes the submitted operations as the next block
func (s *Server) handleSubmitBlock(c *gin.Context) {
	var req SubmitBlockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request", Code: "INVALID_REQUEST", Details: err.Error()})
		return
	}

	res, err := s.app.ExecuteBlock(c.Request.Context(), req.Operations)
	if err != nil {
		s.logger.Error("block rejected", "operator", c.GetString("operator"), "err", err)
		c.JSON(http.StatusConflict, ErrorResponse{Error: "Block rejected", Code: "BLOCK_REJECTED", Details: err.Error()})
		return
	}

	s.logger.Info("block committed",
		"operator", c.GetString("operator"),
		"height", res.Height,
		"operations", len(res.Operations),
		"failed", res.Failed(),
	)
	c.JSON(http.StatusOK, res)
}
