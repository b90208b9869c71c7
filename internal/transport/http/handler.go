// Package http provides the HTTP API for the shopping assistant.
package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/FahadImdad/khaadi-ai-chat-store/internal/catalog"
	"github.com/FahadImdad/khaadi-ai-chat-store/internal/chat"
	"github.com/FahadImdad/khaadi-ai-chat-store/internal/domain"
	"github.com/FahadImdad/khaadi-ai-chat-store/internal/store"
)

// Handler handles HTTP requests.
type Handler struct {
	manager *chat.Manager
	catalog *catalog.Catalog
	orders  store.OrderStore
	metrics *prometheus.Registry
	log     zerolog.Logger
}

// NewHandler creates a new handler.
func NewHandler(manager *chat.Manager, cat *catalog.Catalog, orders store.OrderStore, reg *prometheus.Registry, log zerolog.Logger) *Handler {
	return &Handler{
		manager: manager,
		catalog: cat,
		orders:  orders,
		metrics: reg,
		log:     log,
	}
}

// RegisterRoutes registers routes with the echo server.
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.POST("/v1/sessions", h.CreateSession)
	e.GET("/v1/sessions/:session_id", h.GetSession)
	e.GET("/v1/sessions/:session_id/messages", h.GetSessionMessages)
	e.POST("/v1/sessions/:session_id/messages", h.PostMessage)
	e.POST("/v1/sessions/:session_id/actions", h.PostAction)
	e.POST("/v1/sessions/:session_id/ask-product", h.AskProduct)
	e.POST("/v1/sessions/:session_id/location", h.PostLocation)
	e.GET("/v1/sessions/:session_id/orders", h.GetSessionOrders)
	e.DELETE("/v1/sessions/:session_id", h.DeleteSession)

	e.GET("/v1/products", h.ListProducts)

	e.GET("/health", h.Health)
	if h.metrics != nil {
		e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(h.metrics, promhttp.HandlerOpts{})))
	}
}

// Health returns health status.
func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status":  "healthy",
		"version": "0.1.0",
	})
}

// errorResponse maps chat errors to HTTP statuses.
func errorResponse(c echo.Context, err error) error {
	switch {
	case errors.Is(err, chat.ErrSessionNotFound):
		return c.JSON(http.StatusNotFound, map[string]string{"error": "session not found"})
	case errors.Is(err, chat.ErrStreamInProgress):
		return c.JSON(http.StatusConflict, map[string]string{"error": "a reply is still streaming"})
	case errors.Is(err, chat.ErrSessionClosed):
		return c.JSON(http.StatusGone, map[string]string{"error": "session closed"})
	default:
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
}

// CreateSession starts a new chat session.
// POST /v1/sessions
func (h *Handler) CreateSession(c echo.Context) error {
	s := h.manager.Create(c.Request().Context())
	state := s.Snapshot()
	return c.JSON(http.StatusCreated, state)
}

// GetSession returns the session state snapshot.
// GET /v1/sessions/:session_id
func (h *Handler) GetSession(c echo.Context) error {
	state, err := h.manager.State(c.Request().Context(), c.Param("session_id"))
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, state)
}

// GetSessionMessages returns the session transcript and state.
// GET /v1/sessions/:session_id/messages
func (h *Handler) GetSessionMessages(c echo.Context) error {
	state, err := h.manager.State(c.Request().Context(), c.Param("session_id"))
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, state)
}

type postMessageRequest struct {
	Content string `json:"content"`
}

// PostMessage submits a user turn.
// POST /v1/sessions/:session_id/messages
func (h *Handler) PostMessage(c echo.Context) error {
	var req postMessageRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	if req.Content == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "content is required"})
	}

	state, err := h.manager.SendMessage(c.Request().Context(), c.Param("session_id"), req.Content)
	if err != nil {
		h.log.Error().Err(err).Str("session_id", c.Param("session_id")).Msg("failed to handle message")
		return errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, state)
}

// PostAction dispatches a structured quick action.
// POST /v1/sessions/:session_id/actions
func (h *Handler) PostAction(c echo.Context) error {
	var action domain.Action
	if err := c.Bind(&action); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	if action.Type == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "type is required"})
	}

	state, err := h.manager.HandleAction(c.Request().Context(), c.Param("session_id"), action)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, state)
}

type askProductRequest struct {
	ProductID string `json:"product_id"`
}

// AskProduct sends the canned product question on the user's behalf.
// POST /v1/sessions/:session_id/ask-product
func (h *Handler) AskProduct(c echo.Context) error {
	var req askProductRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	if req.ProductID == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "product_id is required"})
	}

	state, err := h.manager.AskAboutProduct(c.Request().Context(), c.Param("session_id"), req.ProductID)
	if err != nil {
		if errors.Is(err, chat.ErrProductNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "product not found"})
		}
		return errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, state)
}

type postLocationRequest struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

// PostLocation stores browser-provided coordinates for the session. Clients
// that cannot resolve coordinates simply skip this call; the first weather
// query then asks for a city.
// POST /v1/sessions/:session_id/location
func (h *Handler) PostLocation(c echo.Context) error {
	var req postLocationRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	if req.Latitude == nil || req.Longitude == nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "latitude and longitude are required"})
	}

	state, err := h.manager.SetLocation(c.Request().Context(), c.Param("session_id"), *req.Latitude, *req.Longitude)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, state)
}

// GetSessionOrders lists orders placed in a session.
// GET /v1/sessions/:session_id/orders
func (h *Handler) GetSessionOrders(c echo.Context) error {
	if h.orders == nil {
		return c.JSON(http.StatusOK, map[string]interface{}{"orders": []domain.Order{}})
	}
	orders, err := h.orders.ListOrdersBySession(c.Request().Context(), c.Param("session_id"))
	if err != nil {
		h.log.Error().Err(err).Msg("failed to list orders")
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to list orders"})
	}
	if orders == nil {
		orders = []domain.Order{}
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"orders": orders})
}

// DeleteSession closes a session and discards its state.
// DELETE /v1/sessions/:session_id
func (h *Handler) DeleteSession(c echo.Context) error {
	if err := h.manager.Close(c.Request().Context(), c.Param("session_id")); err != nil {
		return errorResponse(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// ListProducts returns the product catalog, optionally filtered by category.
// GET /v1/products
func (h *Handler) ListProducts(c echo.Context) error {
	category := c.QueryParam("category")
	var products []domain.Product
	if category != "" {
		products = h.catalog.ByCategory(category)
	} else {
		products = h.catalog.All()
	}
	if products == nil {
		products = []domain.Product{}
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"products":     products,
		"color_values": catalog.ColorLegend(products),
	})
}
