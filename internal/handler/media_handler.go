package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hooplab/courtside/internal/middleware"
	"github.com/hooplab/courtside/internal/service"
	"github.com/hooplab/courtside/pkg/response"
)

type MediaHandler struct {
	mediaService service.MediaService
}

func NewMediaHandler(mediaService service.MediaService) *MediaHandler {
	return &MediaHandler{mediaService: mediaService}
}

func (h *MediaHandler) AddPhotos(c *gin.Context) {
	courtID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "multipart form required"})
		return
	}
	files := form.File["photos"]
	if len(files) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no photos provided"})
		return
	}

	resp, err := h.mediaService.AddPhotos(c.Request.Context(), middleware.GetActor(c), courtID, files)
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *MediaHandler) SetPrimaryPhoto(c *gin.Context) {
	courtID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	file, err := c.FormFile("photo")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "photo file required"})
		return
	}

	resp, err := h.mediaService.SetPrimaryPhoto(c.Request.Context(), middleware.GetActor(c), courtID, file)
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *MediaHandler) GetCourtPhotos(c *gin.Context) {
	courtID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	photos, err := h.mediaService.GetCourtPhotos(c.Request.Context(), courtID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	c.JSON(http.StatusOK, photos)
}

func (h *MediaHandler) DeletePhoto(c *gin.Context) {
	courtID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	photoID, ok := parseIDParam(c, "photo_id")
	if !ok {
		return
	}

	if err := h.mediaService.DeletePhoto(c.Request.Context(), middleware.GetActor(c), courtID, photoID); err != nil {
		response.ResponseError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "photo deleted"})
}

func (h *MediaHandler) AddVideo(c *gin.Context) {
	courtID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	file, err := c.FormFile("video")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "video file required"})
		return
	}

	resp, err := h.mediaService.AddVideo(c.Request.Context(), middleware.GetActor(c), courtID, file)
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *MediaHandler) GetCourtVideos(c *gin.Context) {
	courtID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	videos, err := h.mediaService.GetCourtVideos(c.Request.Context(), courtID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	c.JSON(http.StatusOK, videos)
}

func (h *MediaHandler) DeleteVideo(c *gin.Context) {
	courtID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	videoID, ok := parseIDParam(c, "video_id")
	if !ok {
		return
	}

	if err := h.mediaService.DeleteVideo(c.Request.Context(), middleware.GetActor(c), courtID, videoID); err != nil {
		response.ResponseError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "video deleted"})
}
