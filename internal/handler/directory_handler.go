package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mensah-labs/shs-timetable-api/internal/service"
	"github.com/mensah-labs/shs-timetable-api/pkg/response"
)

// DirectoryHandler serves the reference lists the timetable editor needs.
type DirectoryHandler struct {
	service *service.DirectoryService
}

// NewDirectoryHandler constructs handler.
func NewDirectoryHandler(svc *service.DirectoryService) *DirectoryHandler {
	return &DirectoryHandler{service: svc}
}

// Classes godoc
// @Summary List active classes
// @Tags Directory
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /classes [get]
func (h *DirectoryHandler) Classes(c *gin.Context) {
	classes, err := h.service.Classes(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, classes, nil)
}

// Subjects godoc
// @Summary List active subjects
// @Tags Directory
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /subjects [get]
func (h *DirectoryHandler) Subjects(c *gin.Context) {
	subjects, err := h.service.Subjects(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, subjects, nil)
}

// Teachers godoc
// @Summary List active teachers
// @Tags Directory
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /teachers [get]
func (h *DirectoryHandler) Teachers(c *gin.Context) {
	teachers, err := h.service.Teachers(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, teachers, nil)
}

// Classrooms godoc
// @Summary List active classrooms
// @Tags Directory
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /classrooms [get]
func (h *DirectoryHandler) Classrooms(c *gin.Context) {
	classrooms, err := h.service.Classrooms(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, classrooms, nil)
}
