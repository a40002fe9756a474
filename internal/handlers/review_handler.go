package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tdsa-academy/academy-service/internal/services"
	"github.com/tdsa-academy/academy-service/internal/utils"
)

type ReviewHandler struct {
	BaseHandler
	reviewService services.ReviewService
}

func NewReviewHandler(reviewService services.ReviewService, logger utils.Logger) *ReviewHandler {
	return &ReviewHandler{
		BaseHandler:   NewBaseHandler(logger),
		reviewService: reviewService,
	}
}

func (h *ReviewHandler) ListForCourse(c *gin.Context) {
	courseID, ok := ParseStringIDParam(c, "courseId")
	if !ok {
		return
	}
	reviews, err := h.reviewService.ListForCourse(c.Request.Context(), courseID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, reviews)
}

func (h *ReviewHandler) AllAverages(c *gin.Context) {
	ratings, err := h.reviewService.AllAverages(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, ratings)
}

func (h *ReviewHandler) Create(c *gin.Context) {
	courseID, ok := ParseStringIDParam(c, "courseId")
	if !ok {
		return
	}
	var req services.ReviewRequest
	if !h.bindJSON(c, &req) {
		return
	}

	review, err := h.reviewService.Create(c.Request.Context(), courseID, accountID(c), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, review)
}

func (h *ReviewHandler) Delete(c *gin.Context) {
	id, ok := ParseStringIDParam(c, "reviewId")
	if !ok {
		return
	}
	if err := h.reviewService.Delete(c.Request.Context(), id); err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: "Review deleted"})
}
