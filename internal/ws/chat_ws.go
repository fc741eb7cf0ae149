package ws

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"matchchat/internal/auth"
	"matchchat/internal/models"
	"matchchat/internal/observability"
	"matchchat/internal/rabbitmq"
	"matchchat/internal/repositories"
)

// IdentityResolver maps verified claims to a concrete identity.
type IdentityResolver interface {
	Resolve(ctx context.Context, claims *auth.Claims) (models.Identity, error)
}

// SocketHandler owns the chat websocket endpoint: it authenticates the
// handshake, upgrades the connection, and runs the per-connection loops.
type SocketHandler struct {
	hub         *Hub
	presence    *Presence
	verifier    auth.Verifier
	resolver    IdentityResolver
	connections repositories.ConnectionRepository
	chats       repositories.ChatRepository
	publisher   rabbitmq.Publisher
	logger      *zap.Logger
}

// NewSocketHandler constructs a SocketHandler.
func NewSocketHandler(
	hub *Hub,
	presence *Presence,
	verifier auth.Verifier,
	resolver IdentityResolver,
	connections repositories.ConnectionRepository,
	chats repositories.ChatRepository,
	publisher rabbitmq.Publisher,
	logger *zap.Logger,
) *SocketHandler {
	return &SocketHandler{
		hub:         hub,
		presence:    presence,
		verifier:    verifier,
		resolver:    resolver,
		connections: connections,
		chats:       chats,
		publisher:   publisher,
		logger:      logger,
	}
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Handle authenticates and upgrades the connection. Authentication happens
// before the upgrade: a connection that cannot present a valid credential is
// refused with no state created anywhere.
func (h *SocketHandler) Handle(c *gin.Context) {
	ctx, span := otel.Tracer("matchchat/ws").Start(c.Request.Context(), "ws.handshake",
		trace.WithSpanKind(trace.SpanKindServer))
	defer span.End()

	token := bearerToken(c)
	if token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required", "code": CodeAuthRequired})
		return
	}

	claims, err := h.verifier.Verify(token)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token", "code": CodeAuthRequired})
		return
	}

	id, err := h.resolver.Resolve(ctx, claims)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found", "code": CodeAuthRequired})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}

	session := newWSSession(conn)
	h.presence.Connect(id.ID, session)

	observability.IncWSActive()
	observability.IncWSEvent("ws_connect")
	h.logger.Info("websocket connected",
		zap.String("user_id", id.ID),
		zap.String("session_id", session.ID()),
		zap.String("kind", string(id.Kind)))
	_ = h.publisher.Publish(ctx, "ws_events.chats", rabbitmq.NewEnvelope("ws_events", "ws_connect", map[string]any{
		"user_id":    id.ID,
		"session_id": session.ID(),
	}))

	cl := &client{h: h, session: session, identity: id}

	// The read loop is the connection's event dispatcher; detaching it from
	// the request context keeps publishes alive past the handshake span.
	loopCtx := context.WithoutCancel(ctx)
	done := make(chan struct{})
	go h.pingLoop(session, done)
	go h.readLoop(loopCtx, conn, cl, done)
}

func (h *SocketHandler) readLoop(ctx context.Context, conn *websocket.Conn, cl *client, done chan struct{}) {
	defer func() {
		close(done)
		cl.disconnect(ctx)
		conn.Close()
	}()

	conn.SetReadLimit(maxMessageSize)
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				h.logger.Info("websocket closed",
					zap.String("user_id", cl.identity.ID),
					zap.Error(err))
			}
			return
		}
		cl.handle(ctx, raw)
	}
}

func (h *SocketHandler) pingLoop(session *wsSession, done chan struct{}) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			if err := session.ping(); err != nil {
				return
			}
		case <-done:
			return
		}
	}
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
			return parts[1]
		}
		return ""
	}
	return c.Query("token")
}
