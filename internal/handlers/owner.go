package handlers

import (
	"net/http"
	"strings"

	"realestate-catalog/internal/models"

	"github.com/gin-gonic/gin"
)

type OwnerHandler struct {
	owners OwnerManager
}

func NewOwnerHandler(owners OwnerManager) *OwnerHandler {
	return &OwnerHandler{owners: owners}
}

// GetOwners lists every owner, or the one with the given email.
func (h *OwnerHandler) GetOwners(c *gin.Context) {
	if email := strings.TrimSpace(c.Query("email")); email != "" {
		owner, err := h.owners.GetByEmail(c, email)
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, []models.Owner{*owner})
		return
	}

	owners, err := h.owners.GetAll(c)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, owners)
}

func (h *OwnerHandler) SearchOwners(c *gin.Context) {
	owners, err := h.owners.SearchByName(c, c.Query("name"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, owners)
}

// GetOwnerByID godoc
// @Summary Get an owner
// @Tags Owners
// @Produce json
// @Param id path string true "Owner ID"
// @Success 200 {object} models.Owner
// @Failure 400 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /owners/{id} [get]
func (h *OwnerHandler) GetOwnerByID(c *gin.Context) {
	owner, err := h.owners.GetByID(c, c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, owner)
}

func (h *OwnerHandler) CreateOwner(c *gin.Context) {
	var in models.OwnerInput
	if !bindJSON(c, &in) {
		return
	}
	owner, err := h.owners.Create(c, &in)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, owner)
}

func (h *OwnerHandler) UpdateOwner(c *gin.Context) {
	var in models.OwnerInput
	if !bindJSON(c, &in) {
		return
	}
	owner, err := h.owners.Update(c, c.Param("id"), &in)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, owner)
}

func (h *OwnerHandler) DeleteOwner(c *gin.Context) {
	if err := h.owners.Delete(c, c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
