package handler

import (
	"crypto/sha256"
	"encoding/hex"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	gorillaws "github.com/gorilla/websocket"

	"github.com/yourusername/survivor-fantasy-api/internal/domain/repository"
	"github.com/yourusername/survivor-fantasy-api/internal/websocket"
	"github.com/yourusername/survivor-fantasy-api/pkg/auth"
)

// WSHandler обрабатывает WebSocket-подключения
type WSHandler struct {
	hub        *websocket.Hub
	jwtService *auth.JWTService
	cacheRepo  repository.CacheRepository
	upgrader   gorillaws.Upgrader
}

// NewWSHandler создает новый обработчик WebSocket
func NewWSHandler(hub *websocket.Hub, jwtService *auth.JWTService, cacheRepo repository.CacheRepository) *WSHandler {
	return &WSHandler{
		hub:        hub,
		jwtService: jwtService,
		cacheRepo:  cacheRepo,
		upgrader: gorillaws.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// CORS для рукопожатия проверяет сам тикет, Origin не ограничиваем
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// HandleConnection апгрейдит соединение после проверки одноразового тикета.
// Тикет передаётся в query-параметре, потому что браузерный WebSocket
// не умеет ставить Authorization-заголовок.
func (h *WSHandler) HandleConnection(c *gin.Context) {
	ticket := c.Query("ticket")
	if ticket == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "ws ticket is required"})
		return
	}

	claims, err := h.jwtService.ParseWSTicket(ticket)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired ws ticket"})
		return
	}

	// Тикет одноразовый: SetNX не пройдёт при повторном использовании
	digest := sha256.Sum256([]byte(ticket))
	usedKey := "ws:ticket:used:" + hex.EncodeToString(digest[:])
	ok, err := h.cacheRepo.SetNX(usedKey, 1, 5*time.Minute)
	if err != nil {
		log.Printf("[WSHandler] Ошибка проверки одноразовости тикета: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "ws ticket already used"})
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("[WSHandler] Ошибка апгрейда соединения user=%d: %v", claims.UserID, err)
		return
	}

	client := websocket.NewClient(h.hub, conn, claims.UserID)
	client.StartPumps()
}
