package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/hooplab/courtside/internal/dto"
	"github.com/hooplab/courtside/internal/middleware"
	"github.com/hooplab/courtside/internal/model"
	"github.com/hooplab/courtside/internal/service"
	"github.com/hooplab/courtside/pkg/response"
	"github.com/hooplab/courtside/pkg/validator"
)

type CourtHandler struct {
	courtService    service.CourtService
	activityService service.ActivityService
}

func NewCourtHandler(courtService service.CourtService, activityService service.ActivityService) *CourtHandler {
	return &CourtHandler{
		courtService:    courtService,
		activityService: activityService,
	}
}

func (h *CourtHandler) RegisterCourt(c *gin.Context) {
	var req dto.RegisterCourtRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	view, err := h.courtService.RegisterCourt(c.Request.Context(), middleware.GetActor(c), req)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusCreated, view)
}

func (h *CourtHandler) GetAllCourts(c *gin.Context) {
	views, err := h.courtService.GetAllCourts(c.Request.Context(), middleware.GetActor(c))
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	c.JSON(http.StatusOK, views)
}

func (h *CourtHandler) GetCourt(c *gin.Context) {
	courtID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	view, err := h.courtService.GetCourt(c.Request.Context(), middleware.GetActor(c), courtID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *CourtHandler) FindCourts(c *gin.Context) {
	var req dto.SearchCourtsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	views, err := h.courtService.FindCourts(c.Request.Context(), middleware.GetActor(c), req.Query)
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	c.JSON(http.StatusOK, views)
}

func (h *CourtHandler) UpdateCourt(c *gin.Context) {
	courtID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateCourtRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	view, err := h.courtService.UpdateCourt(c.Request.Context(), middleware.GetActor(c), courtID, req)
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *CourtHandler) SetCourtStatus(c *gin.Context) {
	courtID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.SetCourtStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	err := h.courtService.SetCourtStatus(c.Request.Context(), middleware.GetActor(c), courtID, model.CourtStatus(req.Status))
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "court status updated"})
}

// DeleteCourt soft-deletes: the court drops out of listings and the search
// index but the row is kept.
func (h *CourtHandler) DeleteCourt(c *gin.Context) {
	courtID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	err := h.courtService.SetCourtStatus(c.Request.Context(), middleware.GetActor(c), courtID, model.CourtStatusDeleted)
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "court deleted"})
}

func (h *CourtHandler) FollowCourt(c *gin.Context) {
	courtID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	result, err := h.courtService.Follow(c.Request.Context(), middleware.GetActor(c), courtID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *CourtHandler) UnfollowCourt(c *gin.Context) {
	courtID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	result, err := h.courtService.Unfollow(c.Request.Context(), middleware.GetActor(c), courtID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *CourtHandler) GetCourtBookings(c *gin.Context) {
	courtID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	bookings, err := h.courtService.GetCourtBookings(c.Request.Context(), courtID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	c.JSON(http.StatusOK, bookings)
}

func (h *CourtHandler) GetCourtActivities(c *gin.Context) {
	courtID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	feed, err := h.activityService.GetCourtFeed(c.Request.Context(), courtID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	c.JSON(http.StatusOK, feed)
}

func (h *CourtHandler) GetUserActivities(c *gin.Context) {
	userID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	feed, err := h.activityService.GetActorFeed(c.Request.Context(), userID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	c.JSON(http.StatusOK, feed)
}

func parseIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return uuid.Nil, false
	}
	return id, true
}
