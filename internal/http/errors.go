package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"contacts-api/internal/service"
)

var kindStatus = map[service.Kind]int{
	service.KindConflict:      http.StatusConflict,
	service.KindUnauthorized:  http.StatusUnauthorized,
	service.KindForbidden:     http.StatusForbidden,
	service.KindBadRequest:    http.StatusBadRequest,
	service.KindNotFound:      http.StatusNotFound,
	service.KindUnprocessable: http.StatusUnprocessableEntity,
}

// respondError writes a classified service error as {"detail": ...}.
// Anything unclassified is logged and reported as a bare 500.
func respondError(c *gin.Context, err error) {
	var se *service.Error
	if errors.As(err, &se) {
		if status, ok := kindStatus[se.Kind]; ok {
			if status == http.StatusUnauthorized {
				c.Header("WWW-Authenticate", "Bearer")
			}
			c.AbortWithStatusJSON(status, gin.H{"detail": se.Detail})
			return
		}
	}
	requestLog(c).WithError(err).Error("request failed")
	c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"detail": "internal server error"})
}

func respondDetail(c *gin.Context, status int, detail string) {
	c.AbortWithStatusJSON(status, gin.H{"detail": detail})
}
