package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/rocketscienceinc/duel-backend/internal/config"
	"github.com/rocketscienceinc/duel-backend/internal/registry"
	"github.com/rocketscienceinc/duel-backend/pkg/validation"
)

const (
	msgMalformed   = "Malformed message"
	msgUnknownType = "Unknown type"

	shutdownTimeout = 5 * time.Second
)

type caroSession interface {
	Connect(transport registry.Transport) uuid.UUID
	Join(ctx context.Context, id uuid.UUID, username string) error
	Move(ctx context.Context, id uuid.UUID, row, col int) error
	Reset(ctx context.Context, id uuid.UUID) error
	Chat(ctx context.Context, id uuid.UUID, message string) error
	Disconnect(ctx context.Context, id uuid.UUID)
	ReportError(id uuid.UUID, message string)
}

type Server struct {
	logger   *slog.Logger
	session  caroSession
	upgrader websocket.Upgrader
	validate *validator.Validate

	readLimit    int64
	writeTimeout time.Duration

	handlers map[string]func(ctx context.Context, id uuid.UUID, data []byte) error
}

func New(logger *slog.Logger, session caroSession, conf config.WebSocket) *Server {
	server := &Server{
		logger:  logger.With("component", "websocket"),
		session: session,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		validate:     validation.New(),
		readLimit:    conf.ReadLimit,
		writeTimeout: conf.WriteTimeout,

		handlers: make(map[string]func(context.Context, uuid.UUID, []byte) error),
	}

	server.handlers["join"] = server.handleJoin
	server.handlers["move"] = server.handleMove
	server.handlers["reset"] = server.handleReset
	server.handlers["chat"] = server.handleChat

	return server
}

// Handler - routes for the board relay. The client id in the path is informational only.
func (that *Server) Handler(ctx context.Context) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		that.upgradeToWebSocket(ctx, w, r)
	})
	mux.HandleFunc("/ws/caro/{clientID}", func(w http.ResponseWriter, r *http.Request) {
		that.upgradeToWebSocket(ctx, w, r)
	})

	return mux
}

// Start - starts WebSocket server and stops it when ctx is done.
func (that *Server) Start(ctx context.Context, port string) error {
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           that.Handler(ctx),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			that.logger.Error("failed to shut down server", "error", err)
		}
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// upgradeToWebSocket - upgrades the connection and serves it until the client goes away.
func (that *Server) upgradeToWebSocket(ctx context.Context, writer http.ResponseWriter, req *http.Request) {
	log := that.logger.With("method", "upgradeToWebSocket")

	conn, err := that.upgrader.Upgrade(writer, req, nil)
	if err != nil {
		log.Error("failed to upgrade connection", "error", err)
		return
	}

	conn.SetReadLimit(that.readLimit)

	id := that.session.Connect(&transport{conn: conn, writeTimeout: that.writeTimeout})

	log.Info("WebSocket connection established", "connection", id, "client", req.PathValue("clientID"))

	that.handleMessages(ctx, id, conn)

	that.session.Disconnect(context.WithoutCancel(ctx), id)
}

// handleMessages - processes messages from the client until the read side fails.
func (that *Server) handleMessages(ctx context.Context, id uuid.UUID, conn *websocket.Conn) {
	log := that.logger.With("method", "handleMessages", "connection", id)

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Warn("connection lost", "error", err)
			}
			return
		}

		var message Message
		if err = json.Unmarshal(data, &message); err != nil {
			that.session.ReportError(id, msgMalformed)
			continue
		}

		handler, ok := that.handlers[message.Type]
		if !ok {
			that.session.ReportError(id, msgUnknownType)
			continue
		}

		if err = handler(ctx, id, data); err != nil {
			log.Debug("message rejected", "type", message.Type, "error", err)
		}
	}
}
