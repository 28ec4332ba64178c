package handlers

import (
	"net/http"

	"github.com/andresuchdata/cesto-ai/backend-go/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// respondError maps service errors onto the {"error","details"} envelope.
func respondError(c *gin.Context, message string, err error) {
	status := http.StatusInternalServerError
	if errors.Is(err, service.ErrInvalidRequest) {
		status = http.StatusBadRequest
	} else {
		log.Error().Err(err).Str("path", c.Request.URL.Path).Msg(message)
	}
	c.JSON(status, gin.H{
		"error":   message,
		"details": err.Error(),
	})
}

func bindError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{
		"error":   "invalid request body",
		"details": err.Error(),
	})
}
