package main

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mercadero/storefront/internal/apperr"
	"github.com/mercadero/storefront/internal/httpx"
	"github.com/mercadero/storefront/internal/order"
)

// adminListOrdersHandler returns all orders, newest first.
//
//	@Summary  List all orders
//	@Tags     admin
//	@Produce  json
//	@Security BearerAuth
//	@Success  200 {array} order.Order
//	@Router   /admin/orders [get]
func adminListOrdersHandler(svc *order.Service, dev bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		out, err := svc.List(c.Request.Context(), intQuery(c, "limit", 20), intQuery(c, "offset", 0))
		if err != nil {
			httpx.Error(c, err, dev)
			return
		}
		if out == nil {
			out = []order.Order{}
		}
		c.JSON(http.StatusOK, out)
	}
}

// updateOrderStatusHandler applies a status transition as the
// authenticated administrator.
//
//	@Summary  Update order status
//	@Tags     admin
//	@Accept   json
//	@Produce  json
//	@Security BearerAuth
//	@Param    id     path string                    true "order id"
//	@Param    status body order.UpdateStatusRequest true "transition"
//	@Success  200 {object} order.Order
//	@Failure  400 {object} httpx.HTTPError
//	@Failure  404 {object} httpx.HTTPError
//	@Router   /admin/orders/{id}/status [put]
func updateOrderStatusHandler(svc *order.Service, dev bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, _ := httpx.ClaimsFrom(c)
		var req order.UpdateStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			httpx.Error(c, apperr.Validation("invalid json: %v", err), dev)
			return
		}
		o, err := svc.Transition(c.Request.Context(), c.Param("id"), &req, claims.UserID, claims.Email)
		if err != nil {
			httpx.Error(c, err, dev)
			return
		}
		c.JSON(http.StatusOK, o)
	}
}

type updateNotesRequest struct {
	Notes string `json:"notes"`
}

// updateOrderNotesHandler sets the free-text notes on an order.
//
//	@Summary  Update order notes
//	@Tags     admin
//	@Accept   json
//	@Security BearerAuth
//	@Param    id    path string             true "order id"
//	@Param    notes body updateNotesRequest true "notes"
//	@Success  204
//	@Failure  404 {object} httpx.HTTPError
//	@Router   /admin/orders/{id}/notes [patch]
func updateOrderNotesHandler(svc *order.Service, dev bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req updateNotesRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			httpx.Error(c, apperr.Validation("invalid json: %v", err), dev)
			return
		}
		if err := svc.UpdateNotes(c.Request.Context(), c.Param("id"), req.Notes); err != nil {
			httpx.Error(c, err, dev)
			return
		}
		c.Status(http.StatusNoContent)
	}
}
