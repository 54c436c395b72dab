package main

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mercadero/storefront/internal/apperr"
	"github.com/mercadero/storefront/internal/httpx"
	"github.com/mercadero/storefront/internal/order"
)

// createOrderHandler places an order for the authenticated user. The
// response is written before any email goes out; confirmation is
// dispatched in the background.
//
//	@Summary  Place an order
//	@Tags     orders
//	@Accept   json
//	@Produce  json
//	@Security BearerAuth
//	@Param    order body order.CreateOrderRequest true "checkout payload"
//	@Success  201 {object} order.Detail
//	@Failure  400 {object} httpx.HTTPError
//	@Router   /orders [post]
func createOrderHandler(svc *order.Service, dev bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, _ := httpx.ClaimsFrom(c)
		var req order.CreateOrderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			httpx.Error(c, apperr.Validation("invalid json: %v", err), dev)
			return
		}
		detail, err := svc.Create(c.Request.Context(), claims.UserID, &req)
		if err != nil {
			httpx.Error(c, err, dev)
			return
		}
		c.JSON(http.StatusCreated, detail)
	}
}

// listMyOrdersHandler returns the caller's orders, newest first.
//
//	@Summary  List my orders
//	@Tags     orders
//	@Produce  json
//	@Security BearerAuth
//	@Success  200 {array} order.Order
//	@Router   /orders [get]
func listMyOrdersHandler(svc *order.Service, dev bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, _ := httpx.ClaimsFrom(c)
		out, err := svc.ListByUser(c.Request.Context(), claims.UserID,
			intQuery(c, "limit", 20), intQuery(c, "offset", 0))
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

// getOrderHandler returns one order with lines and history, for its owner
// or an admin.
//
//	@Summary  Get an order
//	@Tags     orders
//	@Produce  json
//	@Security BearerAuth
//	@Param    id path string true "order id"
//	@Success  200 {object} order.Detail
//	@Failure  404 {object} httpx.HTTPError
//	@Router   /orders/{id} [get]
func getOrderHandler(svc *order.Service, dev bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, _ := httpx.ClaimsFrom(c)
		detail, err := svc.Get(c.Request.Context(), c.Param("id"))
		if err != nil {
			httpx.Error(c, err, dev)
			return
		}
		if detail.Order.UserID != claims.UserID && claims.Role != httpx.RoleAdmin {
			httpx.Error(c, apperr.Forbidden("this is not your order"), dev)
			return
		}
		c.JSON(http.StatusOK, detail)
	}
}

// trackOrderHandler is the public tracking lookup by order number and
// email. No authentication.
//
//	@Summary  Track an order
//	@Tags     orders
//	@Produce  json
//	@Param    orderNumber path  string true "order number"
//	@Param    email       query string true "email used for the order"
//	@Success  200 {object} order.Detail
//	@Failure  403 {object} httpx.HTTPError
//	@Failure  404 {object} httpx.HTTPError
//	@Router   /track/{orderNumber} [get]
func trackOrderHandler(svc *order.Service, dev bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		detail, err := svc.Track(c.Request.Context(), c.Param("orderNumber"), c.Query("email"))
		if err != nil {
			httpx.Error(c, err, dev)
			return
		}
		c.JSON(http.StatusOK, detail)
	}
}
