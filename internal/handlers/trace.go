package handlers

import (
	"net/http"

	"realestate-catalog/internal/models"

	"github.com/gin-gonic/gin"
)

type TraceHandler struct {
	traces TraceManager
}

func NewTraceHandler(traces TraceManager) *TraceHandler {
	return &TraceHandler{traces: traces}
}

func (h *TraceHandler) GetTraces(c *gin.Context) {
	traces, err := h.traces.GetAll(c)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, traces)
}

// GetTracesByProperty godoc
// @Summary List the sale history of a property
// @Description Newest sale first
// @Tags Traces
// @Produce json
// @Param propertyId path string true "Property ID"
// @Success 200 {array} models.PropertyTrace
// @Failure 400 {object} map[string]interface{}
// @Router /traces/property/{propertyId} [get]
func (h *TraceHandler) GetTracesByProperty(c *gin.Context) {
	traces, err := h.traces.GetByProperty(c, c.Param("propertyId"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, traces)
}

func (h *TraceHandler) GetTraceByID(c *gin.Context) {
	trace, err := h.traces.GetByID(c, c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, trace)
}

func (h *TraceHandler) CreateTrace(c *gin.Context) {
	var in models.TraceInput
	if !bindJSON(c, &in) {
		return
	}
	trace, err := h.traces.Create(c, &in)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, trace)
}

func (h *TraceHandler) UpdateTrace(c *gin.Context) {
	var in models.TraceInput
	if !bindJSON(c, &in) {
		return
	}
	trace, err := h.traces.Update(c, c.Param("id"), &in)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, trace)
}

func (h *TraceHandler) DeleteTrace(c *gin.Context) {
	if err := h.traces.Delete(c, c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *TraceHandler) DeleteTracesByProperty(c *gin.Context) {
	deleted, err := h.traces.DeleteByProperty(c, c.Param("propertyId"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": deleted})
}
