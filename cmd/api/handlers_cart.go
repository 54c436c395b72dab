package main

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mercadero/storefront/internal/apperr"
	"github.com/mercadero/storefront/internal/cart"
	"github.com/mercadero/storefront/internal/httpx"
	"github.com/mercadero/storefront/internal/product"
)

type cartItemRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
	Size      string `json:"size,omitempty"`
	Color     string `json:"color,omitempty"`
}

// getCartHandler returns the caller's cart.
//
//	@Summary  Get cart
//	@Tags     cart
//	@Produce  json
//	@Security BearerAuth
//	@Success  200 {array} cart.Item
//	@Router   /cart [get]
func getCartHandler(carts cart.Store, dev bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, _ := httpx.ClaimsFrom(c)
		items, err := carts.Get(c.Request.Context(), claims.UserID)
		if err != nil {
			httpx.Error(c, err, dev)
			return
		}
		c.JSON(http.StatusOK, items)
	}
}

// putCartItemHandler adds or replaces one cart line; the product snapshot
// (name, price, image) is taken from the catalog at call time.
//
//	@Summary  Add or update a cart item
//	@Tags     cart
//	@Accept   json
//	@Produce  json
//	@Security BearerAuth
//	@Param    item body cartItemRequest true "item"
//	@Success  200 {object} cart.Item
//	@Failure  400 {object} httpx.HTTPError
//	@Router   /cart/items [put]
func putCartItemHandler(carts cart.Store, products product.Repository, dev bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, _ := httpx.ClaimsFrom(c)
		var req cartItemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			httpx.Error(c, apperr.Validation("invalid json: %v", err), dev)
			return
		}
		if req.ProductID == "" {
			httpx.Error(c, apperr.Validation("product_id is required"), dev)
			return
		}
		if req.Quantity <= 0 {
			httpx.Error(c, apperr.Validation("quantity must be positive"), dev)
			return
		}
		p, err := products.GetByID(c.Request.Context(), req.ProductID)
		if err != nil {
			httpx.Error(c, err, dev)
			return
		}
		it := cart.Item{
			ProductID: p.ID,
			Name:      p.Name,
			Price:     p.Price,
			Quantity:  req.Quantity,
			Size:      req.Size,
			Color:     req.Color,
			ImageURL:  p.ImageURL,
		}
		if err := carts.Put(c.Request.Context(), claims.UserID, it); err != nil {
			httpx.Error(c, err, dev)
			return
		}
		c.JSON(http.StatusOK, it)
	}
}

// deleteCartItemHandler removes one line by its variant key.
//
//	@Summary  Remove a cart item
//	@Tags     cart
//	@Security BearerAuth
//	@Param    key path string true "item key (productID[|size][|color])"
//	@Success  204
//	@Failure  404 {object} httpx.HTTPError
//	@Router   /cart/items/{key} [delete]
func deleteCartItemHandler(carts cart.Store, dev bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, _ := httpx.ClaimsFrom(c)
		if err := carts.Remove(c.Request.Context(), claims.UserID, c.Param("key")); err != nil {
			httpx.Error(c, err, dev)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

// clearCartHandler empties the caller's cart.
//
//	@Summary  Clear cart
//	@Tags     cart
//	@Security BearerAuth
//	@Success  204
//	@Router   /cart [delete]
func clearCartHandler(carts cart.Store, dev bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, _ := httpx.ClaimsFrom(c)
		if err := carts.Clear(c.Request.Context(), claims.UserID); err != nil {
			httpx.Error(c, err, dev)
			return
		}
		c.Status(http.StatusNoContent)
	}
}
