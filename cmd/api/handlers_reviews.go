package main

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/mercadero/storefront/internal/apperr"
	"github.com/mercadero/storefront/internal/httpx"
	"github.com/mercadero/storefront/internal/product"
	"github.com/mercadero/storefront/internal/review"
)

type createReviewRequest struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment,omitempty"`
}

// listReviewsHandler returns reviews for a product, newest first.
//
//	@Summary  List reviews
//	@Tags     catalog
//	@Produce  json
//	@Param    id path string true "product id"
//	@Success  200 {array} review.Review
//	@Router   /products/{id}/reviews [get]
func listReviewsHandler(reviews review.Repository, dev bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		out, err := reviews.ListByProduct(c.Request.Context(), c.Param("id"),
			intQuery(c, "limit", 20), intQuery(c, "offset", 0))
		if err != nil {
			httpx.Error(c, err, dev)
			return
		}
		if out == nil {
			out = []review.Review{}
		}
		c.JSON(http.StatusOK, out)
	}
}

// createReviewHandler adds a review; one per user per product.
//
//	@Summary  Create a review
//	@Tags     catalog
//	@Accept   json
//	@Produce  json
//	@Security BearerAuth
//	@Param    id     path string              true "product id"
//	@Param    review body createReviewRequest true "review"
//	@Success  201 {object} review.Review
//	@Failure  409 {object} httpx.HTTPError
//	@Router   /products/{id}/reviews [post]
func createReviewHandler(reviews review.Repository, products product.Repository, dev bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, _ := httpx.ClaimsFrom(c)
		var req createReviewRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			httpx.Error(c, apperr.Validation("invalid json: %v", err), dev)
			return
		}
		if req.Rating < 1 || req.Rating > 5 {
			httpx.Error(c, apperr.Validation("rating must be between 1 and 5"), dev)
			return
		}
		productID := c.Param("id")
		if _, err := products.GetByID(c.Request.Context(), productID); err != nil {
			httpx.Error(c, err, dev)
			return
		}
		rv := &review.Review{
			ID:        uuid.NewString(),
			ProductID: productID,
			UserID:    claims.UserID,
			Rating:    req.Rating,
			Comment:   req.Comment,
			CreatedAt: time.Now().UTC(),
		}
		if err := reviews.Create(c.Request.Context(), rv); err != nil {
			httpx.Error(c, err, dev)
			return
		}
		c.JSON(http.StatusCreated, rv)
	}
}

// deleteReviewHandler removes a review (admin).
//
//	@Summary  Delete a review
//	@Tags     admin
//	@Security BearerAuth
//	@Param    id path string true "review id"
//	@Success  204
//	@Failure  404 {object} httpx.HTTPError
//	@Router   /admin/reviews/{id} [delete]
func deleteReviewHandler(reviews review.Repository, dev bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		ok, err := reviews.Delete(c.Request.Context(), c.Param("id"))
		if err != nil {
			httpx.Error(c, err, dev)
			return
		}
		if !ok {
			httpx.Error(c, apperr.NotFound("review not found"), dev)
			return
		}
		c.Status(http.StatusNoContent)
	}
}
