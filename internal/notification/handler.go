package notification

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"reserva/internal/domain"
	"reserva/internal/pkg/response"
)

// SubscriptionStore persists push registrations.
type SubscriptionStore interface {
	Upsert(ctx context.Context, sub *domain.PushSubscription) error
	DeleteByEndpoint(ctx context.Context, endpoint string) error
}

type SubscribeRequest struct {
	Endpoint string `json:"endpoint" binding:"required,url"`
	Keys     struct {
		P256DH string `json:"p256dh" binding:"required"`
		Auth   string `json:"auth" binding:"required"`
	} `json:"keys" binding:"required"`
}

type UnsubscribeRequest struct {
	Endpoint string `json:"endpoint" binding:"required,url"`
}

// Handler serves push registration and the live websocket feed.
type Handler struct {
	store          SubscriptionStore
	hub            *Hub
	vapidPublicKey string
	upgrader       websocket.Upgrader
}

func NewHandler(store SubscriptionStore, hub *Hub, vapidPublicKey string) *Handler {
	return &Handler{
		store:          store,
		hub:            hub,
		vapidPublicKey: vapidPublicKey,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Cross-origin policy is enforced by the CORS middleware upstream.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

func (h *Handler) RegisterProtectedRoutes(protected *gin.RouterGroup) {
	group := protected.Group("/push")
	{
		group.GET("/vapid-key", h.VapidKey)
		group.POST("/subscribe", h.Subscribe)
		group.POST("/unsubscribe", h.Unsubscribe)
	}
	protected.GET("/ws", h.WebSocket)
}

func (h *Handler) VapidKey(c *gin.Context) {
	response.Success(c, http.StatusOK, gin.H{"public_key": h.vapidPublicKey})
}

func (h *Handler) Subscribe(c *gin.Context) {
	userID := c.GetInt64("user_id")

	var req SubscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid subscription payload")
		return
	}

	sub := &domain.PushSubscription{
		Endpoint:  req.Endpoint,
		UserID:    userID,
		P256DH:    req.Keys.P256DH,
		Auth:      req.Keys.Auth,
		CreatedAt: time.Now(),
	}
	if err := h.store.Upsert(c.Request.Context(), sub); err != nil {
		response.Error(c, http.StatusInternalServerError, "SUBSCRIBE_FAILED", "Failed to store subscription")
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"endpoint": sub.Endpoint})
}

func (h *Handler) Unsubscribe(c *gin.Context) {
	var req UnsubscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	if err := h.store.DeleteByEndpoint(c.Request.Context(), req.Endpoint); err != nil {
		response.Error(c, http.StatusInternalServerError, "UNSUBSCRIBE_FAILED", "Failed to remove subscription")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"endpoint": req.Endpoint})
}

// WebSocket upgrades the connection and parks it on the hub. The read loop
// exists only to notice the close; the feed is write-only.
func (h *Handler) WebSocket(c *gin.Context) {
	userID := c.GetInt64("user_id")
	isAdmin := c.GetString("role") == string(domain.RoleAdmin)

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("websocket upgrade failed for user %d: %v", userID, err)
		return
	}

	cl := h.hub.Register(userID, isAdmin, conn)

	go func() {
		defer h.hub.Unregister(cl)
		_ = conn.SetReadDeadline(time.Now().Add(pongWait))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(pongWait))
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}
