package main

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mercadero/storefront/internal/apperr"
	"github.com/mercadero/storefront/internal/httpx"
	"github.com/mercadero/storefront/internal/product"
)

func intQuery(c *gin.Context, key string, def int) int {
	if v, err := strconv.Atoi(c.Query(key)); err == nil {
		return v
	}
	return def
}

// listProductsHandler returns the paginated catalog.
//
//	@Summary  List products
//	@Tags     catalog
//	@Produce  json
//	@Param    q      query string false "search term"
//	@Param    limit  query int    false "page size"
//	@Param    offset query int    false "page offset"
//	@Success  200 {object} product.ListResponse
//	@Router   /products [get]
func listProductsHandler(products product.Repository, dev bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		q := product.Query{
			Q:      c.Query("q"),
			Limit:  intQuery(c, "limit", 20),
			Offset: intQuery(c, "offset", 0),
		}
		items, err := products.List(c.Request.Context(), q)
		if err != nil {
			httpx.Error(c, err, dev)
			return
		}
		if items == nil {
			items = []product.Product{}
		}
		c.JSON(http.StatusOK, product.ListResponse{Q: q.Q, Limit: q.Limit, Offset: q.Offset, Items: items})
	}
}

// getProductHandler returns one product.
//
//	@Summary  Get a product
//	@Tags     catalog
//	@Produce  json
//	@Param    id path string true "product id"
//	@Success  200 {object} product.Product
//	@Failure  404 {object} httpx.HTTPError
//	@Router   /products/{id} [get]
func getProductHandler(products product.Repository, dev bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, err := products.GetByID(c.Request.Context(), c.Param("id"))
		if err != nil {
			httpx.Error(c, err, dev)
			return
		}
		c.JSON(http.StatusOK, p)
	}
}

func validPrice(s string) bool {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	return err == nil && !d.IsNegative()
}

// createProductHandler adds a catalog entry (admin).
//
//	@Summary  Create a product
//	@Tags     admin
//	@Accept   json
//	@Produce  json
//	@Security BearerAuth
//	@Param    product body product.CreateProductRequest true "product"
//	@Success  201 {object} product.Product
//	@Failure  400 {object} httpx.HTTPError
//	@Router   /admin/products [post]
func createProductHandler(products product.Repository, dev bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req product.CreateProductRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			httpx.Error(c, apperr.Validation("invalid json: %v", err), dev)
			return
		}
		if strings.TrimSpace(req.Name) == "" {
			httpx.Error(c, apperr.Validation("name is required"), dev)
			return
		}
		if !validPrice(req.Price) {
			httpx.Error(c, apperr.Validation("invalid price %q", req.Price), dev)
			return
		}
		if req.Stock < 0 {
			httpx.Error(c, apperr.Validation("stock must not be negative"), dev)
			return
		}
		p := &product.Product{
			ID:          uuid.NewString(),
			Name:        req.Name,
			Description: req.Description,
			Price:       req.Price,
			Stock:       req.Stock,
			ImageURL:    req.ImageURL,
		}
		if err := products.Create(c.Request.Context(), p); err != nil {
			httpx.Error(c, err, dev)
			return
		}
		c.JSON(http.StatusCreated, p)
	}
}

// updateProductHandler partially updates a catalog entry (admin).
//
//	@Summary  Update a product
//	@Tags     admin
//	@Accept   json
//	@Produce  json
//	@Security BearerAuth
//	@Param    id      path string                       true "product id"
//	@Param    product body product.UpdateProductRequest true "fields to update"
//	@Success  200 {object} product.Product
//	@Router   /admin/products/{id} [put]
func updateProductHandler(products product.Repository, dev bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")
		var req product.UpdateProductRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			httpx.Error(c, apperr.Validation("invalid json: %v", err), dev)
			return
		}
		updatePrice := strings.TrimSpace(req.Price) != ""
		if updatePrice && !validPrice(req.Price) {
			httpx.Error(c, apperr.Validation("invalid price %q", req.Price), dev)
			return
		}
		if req.Stock < 0 {
			httpx.Error(c, apperr.Validation("stock must not be negative"), dev)
			return
		}
		if _, err := products.GetByID(c.Request.Context(), id); err != nil {
			httpx.Error(c, err, dev)
			return
		}
		p := &product.Product{
			ID:          id,
			Name:        req.Name,
			Description: req.Description,
			Price:       req.Price,
			Stock:       req.Stock,
			ImageURL:    req.ImageURL,
		}
		if err := products.Update(c.Request.Context(), p, updatePrice); err != nil {
			httpx.Error(c, err, dev)
			return
		}
		out, err := products.GetByID(c.Request.Context(), id)
		if err != nil {
			httpx.Error(c, err, dev)
			return
		}
		c.JSON(http.StatusOK, out)
	}
}

// deleteProductHandler removes a catalog entry (admin). Existing order
// lines keep their product snapshot.
//
//	@Summary  Delete a product
//	@Tags     admin
//	@Security BearerAuth
//	@Param    id path string true "product id"
//	@Success  204
//	@Failure  404 {object} httpx.HTTPError
//	@Router   /admin/products/{id} [delete]
func deleteProductHandler(products product.Repository, dev bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		ok, err := products.Delete(c.Request.Context(), c.Param("id"))
		if err != nil {
			httpx.Error(c, err, dev)
			return
		}
		if !ok {
			httpx.Error(c, apperr.NotFound("product not found"), dev)
			return
		}
		c.Status(http.StatusNoContent)
	}
}
