package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// Catalog handlers. None of these require a session.

func (h *Handler) SearchCities(c *gin.Context) {
	cities, err := h.service.SearchCities(c.Request.Context(), c.Query("q"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, cities)
}

func (h *Handler) PopularCities(c *gin.Context) {
	// A missing or malformed limit falls back to the default page size.
	limit, _ := strconv.Atoi(c.Query("limit"))

	cities, err := h.service.PopularCities(c.Request.Context(), limit)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, cities)
}

func (h *Handler) GetCity(c *gin.Context) {
	city, err := h.service.GetCity(c.Request.Context(), c.Param("slug"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, city)
}

func (h *Handler) ActivitiesByCity(c *gin.Context) {
	activities, err := h.service.ActivitiesByCity(c.Request.Context(), c.Query("cityId"), c.Query("type"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, activities)
}

func (h *Handler) SearchActivities(c *gin.Context) {
	activities, err := h.service.SearchActivities(c.Request.Context(), c.Query("q"), c.Query("cityId"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, activities)
}

func (h *Handler) GetActivity(c *gin.Context) {
	activity, err := h.service.GetActivity(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, activity)
}
