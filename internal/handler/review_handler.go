package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hooplab/courtside/internal/dto"
	"github.com/hooplab/courtside/internal/middleware"
	"github.com/hooplab/courtside/internal/service"
	"github.com/hooplab/courtside/pkg/response"
	"github.com/hooplab/courtside/pkg/validator"
)

type ReviewHandler struct {
	reviewService service.ReviewService
}

func NewReviewHandler(reviewService service.ReviewService) *ReviewHandler {
	return &ReviewHandler{reviewService: reviewService}
}

func (h *ReviewHandler) GetReviews(c *gin.Context) {
	courtID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	reviews, err := h.reviewService.GetReviews(c.Request.Context(), courtID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	c.JSON(http.StatusOK, reviews)
}

func (h *ReviewHandler) SubmitReview(c *gin.Context) {
	courtID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.SubmitReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	resp, err := h.reviewService.SubmitReview(c.Request.Context(), middleware.GetActor(c), courtID, req)
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *ReviewHandler) GetReviewModal(c *gin.Context) {
	courtID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	modal, err := h.reviewService.GetReviewModal(c.Request.Context(), middleware.GetActor(c), courtID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	c.JSON(http.StatusOK, modal)
}
