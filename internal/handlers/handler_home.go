package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// homeHandler godoc
// @Summary Service banner
// @Description Returns the service name, useful as a smoke check
// @Tags home
// @Produce json
// @Success 200 {object} map[string]string
// @Router / [get]
func homeHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"service": "estate-ledger"})
}
