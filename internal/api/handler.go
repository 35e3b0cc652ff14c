package api

import (
	"net/http"
	"strconv"
	"time"

	"storefront-service/internal/models"
	"storefront-service/internal/promo"
	"storefront-service/internal/store"
	"storefront-service/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handler exposes the state core over HTTP.
type Handler struct {
	root *store.Root
}

// NewHandler creates a new HTTP handler
func NewHandler(root *store.Root) *Handler {
	return &Handler{root: root}
}

// SetupRoutes sets up HTTP routes
func (h *Handler) SetupRoutes(router *gin.Engine) {
	router.Use(gin.Recovery())
	router.Use(prometheusMiddleware())
	router.Use(gin.Logger())

	router.GET("/health", h.healthCheck)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/api/v1")
	{
		v1.GET("/products", h.listProducts)
		v1.GET("/products/categories", h.listCategories)
		v1.GET("/products/:id", h.getProduct)
		v1.POST("/products/refresh", h.refreshProducts)

		v1.GET("/cart", h.getCart)
		v1.POST("/cart/items", h.addToCart)
		v1.PUT("/cart/items/:productId", h.updateQuantity)
		v1.DELETE("/cart/items/:productId", h.removeFromCart)
		v1.DELETE("/cart", h.clearCart)
		v1.GET("/cart/promo/codes", h.listPromoCodes)
		v1.POST("/cart/promo", h.applyPromo)
		v1.DELETE("/cart/promo", h.removePromo)

		v1.GET("/favorites", h.listFavorites)
		v1.POST("/favorites/:productId/toggle", h.toggleFavorite)
		v1.DELETE("/favorites", h.clearFavorites)
	}
}

// healthCheck handles health check requests
func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"time":   time.Now().Unix(),
	})
}

// listProducts applies filter query params, then returns the filtered view.
func (h *Handler) listProducts(c *gin.Context) {
	products := h.root.Products

	if q, ok := c.GetQuery("q"); ok {
		products.SetSearchQuery(q)
	}
	if category, ok := c.GetQuery("category"); ok {
		products.SetSelectedCategory(category)
	}
	minStr, hasMin := c.GetQuery("min_price")
	maxStr, hasMax := c.GetQuery("max_price")
	if hasMin || hasMax {
		snapshot := products.Snapshot()
		min, max := snapshot.PriceRange.Min, snapshot.PriceRange.Max
		if hasMin {
			if v, err := strconv.ParseFloat(minStr, 64); err == nil {
				min = v
			}
		}
		if hasMax {
			if v, err := strconv.ParseFloat(maxStr, 64); err == nil {
				max = v
			}
		}
		products.SetPriceRange(min, max)
	}
	if c.Query("clear_filters") == "true" {
		products.ClearFilters()
	}

	snapshot := products.Snapshot()
	c.JSON(http.StatusOK, gin.H{
		"products": store.FilteredProducts(snapshot),
		"loading":  snapshot.Loading,
		"error":    snapshot.Error,
		"cachedAt": snapshot.CachedAt,
	})
}

// listCategories returns the distinct catalog categories
func (h *Handler) listCategories(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"categories": h.root.Products.Categories(),
	})
}

// getProduct returns one product from the catalog snapshot
func (h *Handler) getProduct(c *gin.Context) {
	id := c.Param("id")
	product := store.ProductByID(h.root.Products.Snapshot(), id)
	if product == nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Product not found",
		})
		return
	}
	c.JSON(http.StatusOK, product)
}

// refreshProducts triggers a fresh catalog fetch
func (h *Handler) refreshProducts(c *gin.Context) {
	snapshot, err := h.root.Products.FetchProducts(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{
			"error":   "Failed to fetch catalog",
			"details": snapshot.Error,
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"products": len(snapshot.Items),
		"cachedAt": snapshot.CachedAt,
	})
}

func cartResponse(s models.CartState) gin.H {
	total := store.CartTotal(s)
	return gin.H{
		"items":        s.Items,
		"itemsCount":   store.CartItemsCount(s),
		"subtotal":     store.CartSubtotal(s),
		"promoCode":    s.PromoCode,
		"discount":     s.Discount,
		"total":        total,
		"totalDisplay": models.FormatPrice(total, "$"),
	}
}

// getCart returns the cart with derived totals
func (h *Handler) getCart(c *gin.Context) {
	c.JSON(http.StatusOK, cartResponse(h.root.Cart.Snapshot()))
}

// AddToCartRequest is the add-to-cart payload. The product must exist in
// the current catalog; only the id travels over the wire.
type AddToCartRequest struct {
	ProductID string `json:"product_id" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required,min=1"`
}

// addToCart adds a catalog product to the cart
func (h *Handler) addToCart(c *gin.Context) {
	var req AddToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	product := store.ProductByID(h.root.Products.Snapshot(), req.ProductID)
	if product == nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Product not found",
		})
		return
	}

	snapshot := h.root.Cart.AddToCart(c.Request.Context(), *product, req.Quantity)
	c.JSON(http.StatusOK, cartResponse(snapshot))
}

// UpdateQuantityRequest sets a cart line's quantity.
type UpdateQuantityRequest struct {
	Quantity int `json:"quantity" binding:"required"`
}

// updateQuantity sets a line quantity, clamped to a minimum of 1
func (h *Handler) updateQuantity(c *gin.Context) {
	var req UpdateQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	snapshot := h.root.Cart.UpdateQuantity(c.Request.Context(), c.Param("productId"), req.Quantity)
	c.JSON(http.StatusOK, cartResponse(snapshot))
}

// removeFromCart removes a cart line
func (h *Handler) removeFromCart(c *gin.Context) {
	snapshot := h.root.Cart.RemoveFromCart(c.Request.Context(), c.Param("productId"))
	c.JSON(http.StatusOK, cartResponse(snapshot))
}

// clearCart empties the cart
func (h *Handler) clearCart(c *gin.Context) {
	snapshot := h.root.Cart.ClearCart(c.Request.Context())
	c.JSON(http.StatusOK, cartResponse(snapshot))
}

// ApplyPromoRequest carries a promo code.
type ApplyPromoRequest struct {
	Code string `json:"code" binding:"required"`
}

// listPromoCodes returns the recognized promo codes
func (h *Handler) listPromoCodes(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"codes": promo.Codes(),
	})
}

// applyPromo validates the code before dispatching it to the cart
func (h *Handler) applyPromo(c *gin.Context) {
	var req ApplyPromoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	if !promo.Validate(req.Code) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error": "Unrecognized promo code",
		})
		return
	}

	snapshot, _ := h.root.Cart.ApplyPromoCode(c.Request.Context(), req.Code)
	c.JSON(http.StatusOK, cartResponse(snapshot))
}

// removePromo clears the applied promo code
func (h *Handler) removePromo(c *gin.Context) {
	snapshot := h.root.Cart.RemovePromoCode(c.Request.Context())
	c.JSON(http.StatusOK, cartResponse(snapshot))
}

// listFavorites joins the favorites set against the catalog
func (h *Handler) listFavorites(c *gin.Context) {
	favorites := h.root.Favorites.Snapshot()
	c.JSON(http.StatusOK, gin.H{
		"productIds": favorites.ProductIDs,
		"count":      len(favorites.ProductIDs),
		"products":   h.root.FavoriteProducts(),
	})
}

// toggleFavorite flips a product's favorite status
func (h *Handler) toggleFavorite(c *gin.Context) {
	snapshot := h.root.Favorites.ToggleFavorite(c.Request.Context(), c.Param("productId"))
	c.JSON(http.StatusOK, gin.H{
		"productIds": snapshot.ProductIDs,
		"count":      len(snapshot.ProductIDs),
	})
}

// clearFavorites empties the favorites set
func (h *Handler) clearFavorites(c *gin.Context) {
	snapshot := h.root.Favorites.ClearFavorites(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{
		"productIds": snapshot.ProductIDs,
		"count":      len(snapshot.ProductIDs),
	})
}

// prometheusMiddleware collects HTTP metrics
func prometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Writer.Status())

		util.HTTPRequestDuration.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Observe(duration)

		util.HTTPRequestsTotal.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Inc()
	}
}
