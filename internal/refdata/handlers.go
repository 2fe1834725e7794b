package refdata

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	repo *ListRepository
}

// Register attaches the dropdown routes to the given router group.
func Register(rg *gin.RouterGroup, repo *ListRepository) {
	h := &Handler{repo: repo}
	rg.GET("/refdata/:kind", h.list)
}

func (h *Handler) list(c *gin.Context) {
	items, err := h.repo.List(c.Request.Context(), c.Param("kind"))
	if err != nil {
		if errors.Is(err, ErrUnknownKind) {
			c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "items": items})
}
