package api

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/globetrotter/server/internal/models"
)

// Trip handlers. Every route here runs behind AuthMiddleware and the service
// checks that the caller owns the trip.

func (h *Handler) CreateTrip(c *gin.Context) {
	var req models.CreateTripRequest
	if !h.bind(c, &req) {
		return
	}

	trip, err := h.service.CreateTrip(c.Request.Context(), currentUserID(c), req)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, trip)
}

func (h *Handler) ListTrips(c *gin.Context) {
	trips, err := h.service.ListTrips(c.Request.Context(), currentUserID(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, trips)
}

func (h *Handler) GetTrip(c *gin.Context) {
	trip, err := h.service.GetTrip(c.Request.Context(), currentUserID(c), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, trip)
}

func (h *Handler) UpdateTrip(c *gin.Context) {
	var req models.UpdateTripRequest
	if !h.bind(c, &req) {
		return
	}

	trip, err := h.service.UpdateTrip(c.Request.Context(), currentUserID(c), c.Param("id"), req)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, trip)
}

func (h *Handler) DeleteTrip(c *gin.Context) {
	if err := h.service.DeleteTrip(c.Request.Context(), currentUserID(c), c.Param("id")); err != nil {
		h.fail(c, err)
		return
	}
	deleted(c, "trip deleted")
}

func (h *Handler) TogglePublic(c *gin.Context) {
	trip, err := h.service.TogglePublic(c.Request.Context(), currentUserID(c), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, trip)
}

func (h *Handler) GetCalendar(c *gin.Context) {
	cal, err := h.service.GetCalendar(c.Request.Context(), currentUserID(c), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, cal)
}

// Cost handlers

func (h *Handler) GetCostSummary(c *gin.Context) {
	summary, err := h.service.GetCostSummary(c.Request.Context(), currentUserID(c), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (h *Handler) AddCost(c *gin.Context) {
	var req models.AddCostRequest
	if !h.bind(c, &req) {
		return
	}

	item, err := h.service.AddCost(c.Request.Context(), currentUserID(c), c.Param("id"), req)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, item)
}

func (h *Handler) DeleteCost(c *gin.Context) {
	if err := h.service.DeleteCost(c.Request.Context(), currentUserID(c), c.Param("id")); err != nil {
		h.fail(c, err)
		return
	}
	deleted(c, "cost item deleted")
}

// Stop handlers

func (h *Handler) AddStop(c *gin.Context) {
	var req models.AddStopRequest
	if !h.bind(c, &req) {
		return
	}

	stop, err := h.service.AddStop(c.Request.Context(), currentUserID(c), c.Param("id"), req)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, stop)
}

func (h *Handler) ReorderStops(c *gin.Context) {
	var req models.ReorderRequest
	if !h.bind(c, &req) {
		return
	}

	stops, err := h.service.ReorderStops(c.Request.Context(), currentUserID(c), c.Param("id"), req.OrderedIDs)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, stops)
}

func (h *Handler) UpdateStop(c *gin.Context) {
	var req models.UpdateStopRequest
	if !h.bind(c, &req) {
		return
	}

	stop, err := h.service.UpdateStop(c.Request.Context(), currentUserID(c), c.Param("id"), req)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, stop)
}

func (h *Handler) DeleteStop(c *gin.Context) {
	if err := h.service.DeleteStop(c.Request.Context(), currentUserID(c), c.Param("id")); err != nil {
		h.fail(c, err)
		return
	}
	deleted(c, "stop deleted")
}

// Trip activity handlers

func (h *Handler) AddActivityToStop(c *gin.Context) {
	var req models.AddTripActivityRequest
	if !h.bind(c, &req) {
		return
	}

	tripActivity, err := h.service.AddActivityToStop(c.Request.Context(), currentUserID(c), c.Param("id"), req)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, tripActivity)
}

func (h *Handler) ReorderActivities(c *gin.Context) {
	var req models.ReorderRequest
	if !h.bind(c, &req) {
		return
	}

	activities, err := h.service.ReorderActivities(c.Request.Context(), currentUserID(c), c.Param("id"), req.OrderedIDs)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, activities)
}

func (h *Handler) UpdateTripActivity(c *gin.Context) {
	var req models.UpdateTripActivityRequest
	if !h.bind(c, &req) {
		return
	}

	tripActivity, err := h.service.UpdateTripActivity(c.Request.Context(), currentUserID(c), c.Param("id"), req)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, tripActivity)
}

func (h *Handler) DeleteTripActivity(c *gin.Context) {
	if err := h.service.DeleteTripActivity(c.Request.Context(), currentUserID(c), c.Param("id")); err != nil {
		h.fail(c, err)
		return
	}
	deleted(c, "trip activity deleted")
}

// Sharing handlers

func (h *Handler) GetShare(c *gin.Context) {
	share, err := h.service.GetShare(c.Request.Context(), currentUserID(c), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, share)
}

// Publish accepts an optional {"slug": "..."} body.
func (h *Handler) Publish(c *gin.Context) {
	var req models.PublishRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		h.fail(c, bindError(err))
		return
	}

	share, err := h.service.Publish(c.Request.Context(), currentUserID(c), c.Param("id"), req.Slug)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, share)
}

func (h *Handler) Unpublish(c *gin.Context) {
	if err := h.service.Unpublish(c.Request.Context(), currentUserID(c), c.Param("id")); err != nil {
		h.fail(c, err)
		return
	}
	deleted(c, "trip unpublished")
}

// ResolveShare serves a shared trip to anyone holding its slug.
func (h *Handler) ResolveShare(c *gin.Context) {
	shared, err := h.service.Resolve(c.Request.Context(), c.Param("slug"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, shared)
}
