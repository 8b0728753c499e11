package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (h *Handler) me(c *gin.Context) {
	c.JSON(http.StatusOK, userToResponse(*currentUser(c)))
}

func (h *Handler) updateAvatar(c *gin.Context) {
	header, err := c.FormFile("file")
	if err != nil {
		respondDetail(c, http.StatusUnprocessableEntity, "file is required")
		return
	}
	file, err := header.Open()
	if err != nil {
		respondError(c, err)
		return
	}
	defer file.Close()

	user, err := h.users.UpdateAvatar(c.Request.Context(), currentUser(c), file)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, userToResponse(*user))
}
