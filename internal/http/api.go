package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"contacts-api/internal/service"
)

// Options tunes the router. Zero values fall back to defaults.
type Options struct {
	RateLimitRequests int
	RateLimitWindow   time.Duration
	// PublicBaseURL roots links sent to users. Empty derives it from the request.
	PublicBaseURL string
}

// Handler wires HTTP routes to domain services.
type Handler struct {
	auth     service.AuthService
	users    service.UserService
	contacts service.ContactService
	limiter  *rateLimiter
	baseURL  string
	logger   *logrus.Logger
}

func NewHandler(auth service.AuthService, users service.UserService, contacts service.ContactService, opts Options, logger *logrus.Logger) *Handler {
	if logger == nil {
		logger = logrus.New()
	}
	if opts.RateLimitRequests <= 0 {
		opts.RateLimitRequests = 2
	}
	if opts.RateLimitWindow <= 0 {
		opts.RateLimitWindow = 5 * time.Second
	}
	return &Handler{
		auth:     auth,
		users:    users,
		contacts: contacts,
		limiter:  newRateLimiter(opts.RateLimitRequests, opts.RateLimitWindow),
		baseURL:  normalizeBaseURL(opts.PublicBaseURL),
		logger:   logger,
	}
}

func (h *Handler) RegisterRoutes(router *gin.Engine) {
	router.Use(requestLogger(h.logger), corsMiddleware())

	api := router.Group("/api")
	{
		api.GET("/health", func(ctx *gin.Context) {
			ctx.JSON(http.StatusOK, gin.H{"ok": "ok"})
		})

		authGroup := api.Group("/auth")
		authGroup.POST("/signup", h.signup)
		authGroup.POST("/login", h.login)
		authGroup.GET("/refresh_token", h.refreshToken)
		authGroup.GET("/confirmed_email/:token", h.confirmedEmail)

		users := api.Group("/users", h.requireUser())
		users.GET("/me/", h.me)
		users.PATCH("/avatar", h.updateAvatar)

		contacts := api.Group("/contacts", h.requireUser(), h.limiter.middleware())
		contacts.GET("/", h.listContacts)
		contacts.POST("/", h.createContact)
		contacts.GET("/birthdays/", h.upcomingBirthdays)
		contacts.GET("/search/", h.searchContacts)
		contacts.GET("/:id", h.getContact)
		contacts.PATCH("/:id", h.updateContact)
		contacts.DELETE("/:id", h.deleteContact)
	}
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "*")
		c.Writer.Header().Set("Access-Control-Expose-Headers", "X-Request-ID")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
