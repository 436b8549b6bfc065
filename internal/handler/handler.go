package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Hobbit71/cloudshop/internal/dto"
	"github.com/Hobbit71/cloudshop/internal/service"
)

type Handler struct {
	analytics service.AnalyticsServicer
	router    *gin.Engine
	log       *zap.Logger
}

func NewHandler(analytics service.AnalyticsServicer, log *zap.Logger) *Handler {
	h := &Handler{
		analytics: analytics,
		router:    gin.Default(),
		log:       log,
	}

	h.registerRoutes()

	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.router.ServeHTTP(w, r)
}

func (h *Handler) registerRoutes() {
	h.router.GET("/health", h.healthCheck)
	h.router.POST("/events", h.publishEvent)
	h.router.GET("/events", h.getEvents)
	h.router.GET("/metrics/sales", h.getSalesMetrics)
	h.router.GET("/metrics/customers", h.getCustomerMetrics)
	h.router.GET("/metrics/products", h.getProductPerformance)
	h.router.GET("/metrics/revenue", h.getRevenueMetrics)
}

// healthCheck handles health check requests
func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
	})
}

// publishEvent handles POST /events
func (h *Handler) publishEvent(c *gin.Context) {
	var req dto.PublishEventRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Warn("Invalid publish event request", zap.Error(err))
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "validation_error",
			Message: err.Error(),
		})
		return
	}

	if err := h.analytics.PublishEvent(c.Request.Context(), &req); err != nil {
		h.log.Error("Failed to publish event",
			zap.String("event_type", req.EventType),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{
			Error:   "internal_error",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusAccepted, dto.PublishEventResponse{
		EventType: req.EventType,
		Status:    "accepted",
	})
}

// getEvents handles GET /events
func (h *Handler) getEvents(c *gin.Context) {
	var req dto.GetEventsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "validation_error",
			Message: err.Error(),
		})
		return
	}

	events, err := h.analytics.GetEvents(c.Request.Context(), &req)
	if err != nil {
		h.respondQueryError(c, "events", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"events": events})
}

// getSalesMetrics handles GET /metrics/sales
func (h *Handler) getSalesMetrics(c *gin.Context) {
	var req dto.GetSalesMetricsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "validation_error",
			Message: err.Error(),
		})
		return
	}

	metrics, err := h.analytics.GetSalesMetrics(c.Request.Context(), &req)
	if err != nil {
		h.respondQueryError(c, "sales metrics", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"metrics": metrics})
}

// getCustomerMetrics handles GET /metrics/customers
func (h *Handler) getCustomerMetrics(c *gin.Context) {
	var req dto.GetCustomerMetricsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "validation_error",
			Message: err.Error(),
		})
		return
	}

	metrics, err := h.analytics.GetCustomerMetrics(c.Request.Context(), &req)
	if err != nil {
		h.respondQueryError(c, "customer metrics", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"metrics": metrics})
}

// getProductPerformance handles GET /metrics/products
func (h *Handler) getProductPerformance(c *gin.Context) {
	var req dto.GetProductPerformanceRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "validation_error",
			Message: err.Error(),
		})
		return
	}

	metrics, err := h.analytics.GetProductPerformance(c.Request.Context(), &req)
	if err != nil {
		h.respondQueryError(c, "product performance", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"metrics": metrics})
}

// getRevenueMetrics handles GET /metrics/revenue
func (h *Handler) getRevenueMetrics(c *gin.Context) {
	var req dto.GetRevenueMetricsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "validation_error",
			Message: err.Error(),
		})
		return
	}

	metrics, err := h.analytics.GetRevenueMetrics(c.Request.Context(), &req)
	if err != nil {
		h.respondQueryError(c, "revenue metrics", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"metrics": metrics})
}

func (h *Handler) respondQueryError(c *gin.Context, what string, err error) {
	h.log.Error("Query failed", zap.String("resource", what), zap.Error(err))
	c.JSON(http.StatusBadRequest, dto.ErrorResponse{
		Error:   "query_error",
		Message: err.Error(),
	})
}
