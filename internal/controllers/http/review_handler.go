package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

func (h *Handler) AddReview(c *gin.Context) {
	productID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID"})
		return
	}

	var req CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	review, err := h.reviews.AddReview(c.Request.Context(), currentUserID(c), productID, req.Rating, req.Comment)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toReviewResponse(review))
}

func (h *Handler) ListProductReviews(c *gin.Context) {
	productID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID"})
		return
	}

	reviews, avg, err := h.reviews.ListProductReviews(c.Request.Context(), productID)
	if err != nil {
		respondError(c, err)
		return
	}

	out := ReviewListResponse{
		Items:         make([]ReviewResponse, 0, len(reviews)),
		AverageRating: avg,
	}
	for i := range reviews {
		out.Items = append(out.Items, toReviewResponse(&reviews[i]))
	}
	c.JSON(http.StatusOK, out)
}
