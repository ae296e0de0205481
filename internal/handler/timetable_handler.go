package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mensah-labs/shs-timetable-api/internal/models"
	"github.com/mensah-labs/shs-timetable-api/internal/service"
	appErrors "github.com/mensah-labs/shs-timetable-api/pkg/errors"
	"github.com/mensah-labs/shs-timetable-api/pkg/response"
)

// TimetableHandler manages placement and grid endpoints.
type TimetableHandler struct {
	service *service.TimetableService
}

// NewTimetableHandler constructs handler.
func NewTimetableHandler(svc *service.TimetableService) *TimetableHandler {
	return &TimetableHandler{service: svc}
}

// Grid godoc
// @Summary Render the weekly grid for a class
// @Tags Timetable
// @Produce json
// @Param id path string true "Class ID"
// @Success 200 {object} response.Envelope
// @Router /classes/{id}/timetable [get]
func (h *TimetableHandler) Grid(c *gin.Context) {
	grid, err := h.service.ClassGrid(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, grid, nil)
}

// Validate godoc
// @Summary Check a placement without committing it
// @Tags Timetable
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body service.PlacementRequest true "Placement payload"
// @Success 200 {object} response.Envelope
// @Router /timetable/validate [post]
func (h *TimetableHandler) Validate(c *gin.Context) {
	var req service.PlacementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	result, err := h.service.ValidatePlacement(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// CreateEntry godoc
// @Summary Place a lesson on the timetable
// @Tags Timetable
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body service.PlacementRequest true "Placement payload"
// @Success 201 {object} response.Envelope
// @Router /timetable/entries [post]
func (h *TimetableHandler) CreateEntry(c *gin.Context) {
	var req service.PlacementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	entry, err := h.service.CreateEntry(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, entry)
}

// UpdateEntry godoc
// @Summary Move or reshape a placement
// @Tags Timetable
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Entry ID"
// @Param payload body service.PlacementRequest true "Placement payload"
// @Success 200 {object} response.Envelope
// @Router /timetable/entries/{id} [put]
func (h *TimetableHandler) UpdateEntry(c *gin.Context) {
	var req service.PlacementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	entry, err := h.service.UpdateEntry(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, entry, nil)
}

// DeleteEntry godoc
// @Summary Remove a placement
// @Tags Timetable
// @Produce json
// @Security BearerAuth
// @Param id path string true "Entry ID"
// @Success 204
// @Router /timetable/entries/{id} [delete]
func (h *TimetableHandler) DeleteEntry(c *gin.Context) {
	if err := h.service.DeleteEntry(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// BulkCreate godoc
// @Summary Place multiple lessons in one call
// @Tags Timetable
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body service.BulkPlacementRequest true "Bulk payload"
// @Success 200 {object} response.Envelope
// @Router /timetable/entries/bulk [post]
func (h *TimetableHandler) BulkCreate(c *gin.Context) {
	var req service.BulkPlacementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	result, err := h.service.BulkCreateEntries(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// CopyRequest names the source and target classes for a timetable copy.
type CopyRequest struct {
	FromClassID string `json:"from_class_id" binding:"required"`
	ToClassID   string `json:"to_class_id" binding:"required"`
}

// Copy godoc
// @Summary Copy one class's timetable onto another
// @Tags Timetable
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body handler.CopyRequest true "Copy payload"
// @Success 200 {object} response.Envelope
// @Router /timetable/copy [post]
func (h *TimetableHandler) Copy(c *gin.Context) {
	var req CopyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	result, err := h.service.CopyTimetable(c.Request.Context(), req.FromClassID, req.ToClassID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// TeacherDay godoc
// @Summary List a teacher's lessons for one weekday
// @Tags Timetable
// @Produce json
// @Param id path string true "Teacher ID"
// @Param weekday query int true "Weekday (1=Monday .. 5=Friday)"
// @Success 200 {object} response.Envelope
// @Router /teachers/{id}/schedule [get]
func (h *TimetableHandler) TeacherDay(c *gin.Context) {
	weekday, err := strconv.Atoi(c.Query("weekday"))
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "weekday must be a number between 1 and 5"))
		return
	}
	entries, err := h.service.TeacherDaySchedule(c.Request.Context(), c.Param("id"), models.Weekday(weekday))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, entries, nil)
}
