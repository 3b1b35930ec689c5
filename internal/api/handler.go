package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/globetrotter/server/internal/config"
	"github.com/globetrotter/server/internal/models"
	"github.com/globetrotter/server/internal/service"
	"github.com/globetrotter/server/internal/utils"
)

// Handler serves the JSON API over a Service.
type Handler struct {
	service service.Service
	logger  *utils.Logger
	auth    config.AuthConfig
}

// NewHandler creates a new Handler. auth supplies the session cookie
// settings.
func NewHandler(svc service.Service, logger *utils.Logger, auth config.AuthConfig) *Handler {
	if logger == nil {
		logger = utils.NewLogger()
	}
	if auth.CookieName == "" {
		auth.CookieName = "gt_session"
	}
	useJSONFieldNames()

	return &Handler{
		service: svc,
		logger:  logger,
		auth:    auth,
	}
}

// SetupRoutes registers every route on router.
func (h *Handler) SetupRoutes(router *gin.Engine) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, models.StatusResponse{Status: "ok"})
	})

	api := router.Group("/api")
	api.Use(requireJSON())
	authRequired := AuthMiddleware(h.service, h.auth.CookieName)

	auth := api.Group("/auth")
	{
		auth.POST("/signup", h.SignUp)
		auth.POST("/login", h.Login)
		auth.POST("/logout", h.Logout)
		auth.GET("/me", authRequired, h.Me)
		auth.PATCH("/me", authRequired, h.UpdateProfile)
	}

	cities := api.Group("/cities")
	{
		cities.GET("", h.SearchCities)
		cities.GET("/popular", h.PopularCities)
		cities.GET("/:slug", h.GetCity)
	}

	activities := api.Group("/activities")
	{
		activities.GET("", h.ActivitiesByCity)
		activities.GET("/search", h.SearchActivities)
		activities.GET("/:id", h.GetActivity)
	}

	api.GET("/share/:slug", h.ResolveShare)

	owned := api.Group("", authRequired)
	{
		owned.POST("/trips", h.CreateTrip)
		owned.GET("/trips", h.ListTrips)
		owned.GET("/trips/:id", h.GetTrip)
		owned.PATCH("/trips/:id", h.UpdateTrip)
		owned.DELETE("/trips/:id", h.DeleteTrip)
		owned.POST("/trips/:id/visibility", h.TogglePublic)
		owned.GET("/trips/:id/calendar", h.GetCalendar)

		owned.GET("/trips/:id/costs", h.GetCostSummary)
		owned.POST("/trips/:id/costs", h.AddCost)
		owned.DELETE("/costs/:id", h.DeleteCost)

		owned.POST("/trips/:id/stops", h.AddStop)
		owned.PUT("/trips/:id/stops/order", h.ReorderStops)
		owned.PATCH("/stops/:id", h.UpdateStop)
		owned.DELETE("/stops/:id", h.DeleteStop)

		owned.POST("/stops/:id/activities", h.AddActivityToStop)
		owned.PUT("/stops/:id/activities/order", h.ReorderActivities)
		owned.PATCH("/trip-activities/:id", h.UpdateTripActivity)
		owned.DELETE("/trip-activities/:id", h.DeleteTripActivity)

		owned.GET("/trips/:id/share", h.GetShare)
		owned.POST("/trips/:id/share", h.Publish)
		owned.DELETE("/trips/:id/share", h.Unpublish)
	}
}

// bind decodes the JSON body into req and reports binding failures as
// validation errors. It returns false when a response has been written.
func (h *Handler) bind(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		respondError(c, h.logger, bindError(err))
		return false
	}
	return true
}

func (h *Handler) fail(c *gin.Context, err error) {
	respondError(c, h.logger, err)
}

func deleted(c *gin.Context, message string) {
	c.JSON(http.StatusOK, models.StatusResponse{Status: "success", Message: message})
}

// Authentication handlers

func (h *Handler) SignUp(c *gin.Context) {
	var req models.SignUpRequest
	if !h.bind(c, &req) {
		return
	}

	session, err := h.service.SignUp(c.Request.Context(), req)
	if err != nil {
		h.fail(c, err)
		return
	}

	h.setSessionCookie(c, session.Token)
	c.JSON(http.StatusCreated, session.User)
}

func (h *Handler) Login(c *gin.Context) {
	var req models.LoginRequest
	if !h.bind(c, &req) {
		return
	}

	session, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		h.fail(c, err)
		return
	}

	h.setSessionCookie(c, session.Token)
	c.JSON(http.StatusOK, session.User)
}

// Logout clears the session cookie. It succeeds without a session.
func (h *Handler) Logout(c *gin.Context) {
	h.clearSessionCookie(c)
	c.JSON(http.StatusOK, models.StatusResponse{Status: "success", Message: "logged out"})
}

func (h *Handler) Me(c *gin.Context) {
	profile, err := h.service.Me(c.Request.Context(), currentUserID(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

func (h *Handler) UpdateProfile(c *gin.Context) {
	var req models.UpdateProfileRequest
	if !h.bind(c, &req) {
		return
	}

	profile, err := h.service.UpdateProfile(c.Request.Context(), currentUserID(c), req)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

func (h *Handler) setSessionCookie(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.auth.CookieName, token, int(h.service.TokenDuration().Seconds()), "/", "", h.auth.CookieSecure, true)
}

func (h *Handler) clearSessionCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.auth.CookieName, "", -1, "/", "", h.auth.CookieSecure, true)
}
