package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mensah-labs/shs-timetable-api/internal/service"
	appErrors "github.com/mensah-labs/shs-timetable-api/pkg/errors"
	"github.com/mensah-labs/shs-timetable-api/pkg/response"
)

// ClassSubjectHandler manages class-subject assignment endpoints.
type ClassSubjectHandler struct {
	service *service.ClassSubjectService
}

// NewClassSubjectHandler constructs handler.
func NewClassSubjectHandler(svc *service.ClassSubjectService) *ClassSubjectHandler {
	return &ClassSubjectHandler{service: svc}
}

// ListByClass godoc
// @Summary List a class's subjects with scheduled period tallies
// @Tags ClassSubjects
// @Produce json
// @Param id path string true "Class ID"
// @Success 200 {object} response.Envelope
// @Router /classes/{id}/subjects [get]
func (h *ClassSubjectHandler) ListByClass(c *gin.Context) {
	assignments, err := h.service.ListByClass(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, assignments, nil)
}

// ReassignTeacher godoc
// @Summary Swap the teacher of record for an assignment
// @Tags ClassSubjects
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Assignment ID"
// @Param payload body service.ReassignTeacherRequest true "Reassign payload"
// @Success 200 {object} response.Envelope
// @Router /class-subjects/{id}/teacher [put]
func (h *ClassSubjectHandler) ReassignTeacher(c *gin.Context) {
	var req service.ReassignTeacherRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	result, err := h.service.ReassignTeacher(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}
