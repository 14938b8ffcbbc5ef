package handlers

import (
	"net/http"

	"realestate-catalog/internal/models"

	"github.com/gin-gonic/gin"
)

type PlaceHandler struct {
	places PlaceManager
}

func NewPlaceHandler(places PlaceManager) *PlaceHandler {
	return &PlaceHandler{places: places}
}

func (h *PlaceHandler) GetPlaces(c *gin.Context) {
	places, err := h.places.GetByProperty(c, c.Param("propertyId"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, places)
}

// UpsertPlace writes one tagged place; an existing place with the same tag is replaced.
func (h *PlaceHandler) UpsertPlace(c *gin.Context) {
	var in models.PlaceInput
	if !bindJSON(c, &in) {
		return
	}
	place, err := h.places.Upsert(c, c.Param("propertyId"), &in)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, place)
}

func (h *PlaceHandler) DeletePlace(c *gin.Context) {
	if err := h.places.Delete(c, c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
