package handlers

import (
	"net/http"

	"realestate-catalog/internal/errors"
	"realestate-catalog/internal/models"
	"realestate-catalog/internal/transformers"
	"realestate-catalog/internal/utils"

	"github.com/gin-gonic/gin"
)

type PropertyHandler struct {
	search      PropertyReader
	properties  PropertyWriter
	transformer transformers.PropertyTransformer
}

func NewPropertyHandler(search PropertyReader, properties PropertyWriter, transformer transformers.PropertyTransformer) *PropertyHandler {
	return &PropertyHandler{search: search, properties: properties, transformer: transformer}
}

// SearchProperties godoc
// @Summary Search properties
// @Description Filter by name, address, price range, year, location and owner name, sorted and paginated
// @Tags Properties
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Page size" default(10)
// @Param sortBy query string false "name, price, address or createdAt"
// @Param sortDirection query string false "asc or desc"
// @Success 200 {object} models.PagedResult[transformers.PropertyResponse]
// @Failure 400 {object} map[string]interface{}
// @Router /properties [get]
func (h *PropertyHandler) SearchProperties(c *gin.Context) {
	var filter models.PropertyFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		fail(c, errors.Validation("query is invalid: %v", err))
		return
	}

	result, err := h.search.SearchProperties(c, filter)
	if err != nil {
		fail(c, err)
		return
	}

	page := models.PagedResult[transformers.PropertyResponse]{
		Items: h.transformer.ToResponses(result.Items),
		Meta:  result.Meta,
	}
	utils.SetPageLinks(&page.Meta, c.Request.URL.Path, c.Request.URL.Query())
	c.JSON(http.StatusOK, page)
}

// GetPropertyByID godoc
// @Summary Get property details
// @Description Property with owner, enabled images and location
// @Tags Properties
// @Produce json
// @Param id path string true "Property ID"
// @Success 200 {object} transformers.PropertyResponse
// @Failure 400 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /properties/{id} [get]
func (h *PropertyHandler) GetPropertyByID(c *gin.Context) {
	property, err := h.search.GetPropertyWithDetails(c, c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, h.transformer.ToResponse(property))
}

func (h *PropertyHandler) GetPropertiesByOwner(c *gin.Context) {
	properties, err := h.search.GetPropertiesByOwner(c, c.Param("ownerId"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, h.transformer.ToResponses(properties))
}

func (h *PropertyHandler) GetPropertiesByPriceRange(c *gin.Context) {
	minPrice, err := optionalFloat(c, "minPrice")
	if err != nil {
		fail(c, err)
		return
	}
	maxPrice, err := optionalFloat(c, "maxPrice")
	if err != nil {
		fail(c, err)
		return
	}

	properties, err := h.search.GetPropertiesByPriceRange(c, minPrice, maxPrice)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, h.transformer.ToResponses(properties))
}

// GetPropertiesByLocation matches properties whose city, state or country
// contains the given term.
func (h *PropertyHandler) GetPropertiesByLocation(c *gin.Context) {
	properties, err := h.search.GetPropertiesByLocation(c, c.Query("city"), c.Query("state"), c.Query("country"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, h.transformer.ToResponses(properties))
}

func (h *PropertyHandler) CodigoInternalExists(c *gin.Context) {
	exists, err := h.properties.ExistsByCodigoInternal(c, c.Param("codigo"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"exists": exists})
}

// CreateProperty godoc
// @Summary Create a property
// @Tags Properties
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 201 {object} transformers.PropertyResponse
// @Failure 400 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Failure 409 {object} map[string]interface{}
// @Router /properties [post]
func (h *PropertyHandler) CreateProperty(c *gin.Context) {
	var in models.PropertyInput
	if !bindJSON(c, &in) {
		return
	}
	property, err := h.properties.Create(c, &in)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, h.transformer.ToResponse(property))
}

func (h *PropertyHandler) UpdateProperty(c *gin.Context) {
	var in models.PropertyInput
	if !bindJSON(c, &in) {
		return
	}
	property, err := h.properties.Update(c, c.Param("id"), &in)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, h.transformer.ToResponse(property))
}

func (h *PropertyHandler) DeleteProperty(c *gin.Context) {
	if err := h.properties.Delete(c, c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
