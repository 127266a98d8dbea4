package socket

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/rocketscienceinc/duel-backend/internal/config"
	"github.com/rocketscienceinc/duel-backend/internal/registry"
	"github.com/rocketscienceinc/duel-backend/pkg/validation"
)

const (
	msgExpectedJoin = "Expected join"
	msgMalformed    = "Malformed message"
	msgUnknownType  = "Unknown type"

	typeJoin = "join"
	typeMove = "move"
	typeQuit = "quit"

	minFrameSize = 64
)

var ErrFrameTooLarge = errors.New("frame exceeds the size limit")

var errQuit = errors.New("client quit")

type rpsSession interface {
	Connect(transport registry.Transport) uuid.UUID
	Join(ctx context.Context, id uuid.UUID, name string) error
	Move(ctx context.Context, id uuid.UUID, move string) error
	Disconnect(ctx context.Context, id uuid.UUID)
	Reject(id uuid.UUID, message string)
	ReportError(id uuid.UUID, message string)
}

// Server speaks newline-delimited JSON over TCP, one object per line.
type Server struct {
	logger   *slog.Logger
	session  rpsSession
	validate *validator.Validate

	maxFrameSize int
	writeTimeout time.Duration

	handlers map[string]func(ctx context.Context, id uuid.UUID, data json.RawMessage) error
}

func New(logger *slog.Logger, session rpsSession, conf config.RPS) *Server {
	maxFrameSize := conf.MaxFrameSize
	if maxFrameSize < minFrameSize {
		maxFrameSize = minFrameSize
	}

	server := &Server{
		logger:       logger.With("component", "socket"),
		session:      session,
		validate:     validation.New(),
		maxFrameSize: maxFrameSize,
		writeTimeout: conf.WriteTimeout,

		handlers: make(map[string]func(context.Context, uuid.UUID, json.RawMessage) error),
	}

	server.handlers[typeJoin] = server.handleJoin
	server.handlers[typeMove] = server.handleMove
	server.handlers[typeQuit] = server.handleQuit

	return server
}

// Start - listens on port and serves until ctx is done.
func (that *Server) Start(ctx context.Context, port string) error {
	var lc net.ListenConfig

	listener, err := lc.Listen(ctx, "tcp", ":"+port)
	if err != nil {
		return fmt.Errorf("failed to listen: %w", err)
	}

	return that.Serve(ctx, listener)
}

// Serve - accepts connections from listener, one goroutine each. The listener is closed
// when ctx is done.
func (that *Server) Serve(ctx context.Context, listener net.Listener) error {
	log := that.logger.With("method", "Serve")

	go func() {
		<-ctx.Done()
		_ = listener.Close()
	}()

	for {
		conn, err := listener.Accept()
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				return nil
			}
			return fmt.Errorf("failed to accept connection: %w", err)
		}

		log.Info("connection accepted", "remote", conn.RemoteAddr().String())

		go that.handleConnection(ctx, conn)
	}
}

func (that *Server) handleConnection(ctx context.Context, conn net.Conn) {
	log := that.logger.With("method", "handleConnection", "remote", conn.RemoteAddr().String())

	id := that.session.Connect(&transport{conn: conn, writeTimeout: that.writeTimeout})
	reader := bufio.NewReaderSize(conn, that.maxFrameSize)

	defer that.session.Disconnect(context.WithoutCancel(ctx), id)

	if !that.handshake(ctx, id, reader) {
		return
	}

	for {
		frame, err := readFrame(reader)
		if err != nil {
			if !errors.Is(err, io.EOF) && !errors.Is(err, net.ErrClosed) {
				log.Warn("connection lost", "connection", id, "error", err)
			}
			return
		}

		if len(frame) == 0 {
			continue
		}

		var message envelope
		if err = json.Unmarshal(frame, &message); err != nil {
			that.session.ReportError(id, msgMalformed)
			continue
		}

		handler, ok := that.handlers[message.Type]
		if !ok {
			that.session.ReportError(id, msgUnknownType)
			continue
		}

		if err = handler(ctx, id, message.Data); err != nil {
			if errors.Is(err, errQuit) {
				return
			}
			log.Debug("message rejected", "connection", id, "type", message.Type, "error", err)
		}
	}
}

// handshake - the first frame must be a join. Anything else closes the connection.
func (that *Server) handshake(ctx context.Context, id uuid.UUID, reader *bufio.Reader) bool {
	frame, err := readFrame(reader)
	for err == nil && len(frame) == 0 {
		frame, err = readFrame(reader)
	}

	if err != nil {
		return false
	}

	var message envelope
	if err = json.Unmarshal(frame, &message); err != nil || message.Type != typeJoin {
		that.session.Reject(id, msgExpectedJoin)
		return false
	}

	var payload joinPayload
	if len(message.Data) > 0 {
		if err = json.Unmarshal(message.Data, &payload); err != nil {
			that.session.Reject(id, msgExpectedJoin)
			return false
		}
	}

	if err = that.validate.Struct(payload); err != nil {
		that.session.Reject(id, validation.Describe(err))
		return false
	}

	return that.session.Join(ctx, id, strings.TrimSpace(payload.Name)) == nil
}

func (that *Server) handleJoin(ctx context.Context, id uuid.UUID, data json.RawMessage) error {
	var payload joinPayload
	if len(data) > 0 {
		if err := json.Unmarshal(data, &payload); err != nil {
			that.session.ReportError(id, msgMalformed)
			return fmt.Errorf("failed to unmarshal payload: %w", err)
		}
	}

	if err := that.validate.Struct(payload); err != nil {
		that.session.ReportError(id, validation.Describe(err))
		return fmt.Errorf("failed to validate payload: %w", err)
	}

	if err := that.session.Join(ctx, id, strings.TrimSpace(payload.Name)); err != nil {
		return fmt.Errorf("failed to join: %w", err)
	}

	return nil
}

func (that *Server) handleMove(ctx context.Context, id uuid.UUID, data json.RawMessage) error {
	var payload movePayload
	if len(data) > 0 {
		if err := json.Unmarshal(data, &payload); err != nil {
			that.session.ReportError(id, msgMalformed)
			return fmt.Errorf("failed to unmarshal payload: %w", err)
		}
	}

	if err := that.session.Move(ctx, id, payload.Move); err != nil {
		return fmt.Errorf("failed to move: %w", err)
	}

	return nil
}

func (that *Server) handleQuit(context.Context, uuid.UUID, json.RawMessage) error {
	return errQuit
}

// readFrame returns one line without its terminator. A line longer than the reader's
// buffer, or a final line with no newline, is an error.
func readFrame(reader *bufio.Reader) ([]byte, error) {
	line, err := reader.ReadSlice('\n')
	if err != nil {
		if errors.Is(err, bufio.ErrBufferFull) {
			return nil, ErrFrameTooLarge
		}
		if errors.Is(err, io.EOF) && len(line) > 0 {
			return nil, io.ErrUnexpectedEOF
		}
		return nil, err
	}

	line = line[:len(line)-1]

	return bytes.TrimSuffix(line, []byte{'\r'}), nil
}
