package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"nhooyr.io/websocket"

	"github.com/rocketscienceinc/tictactoe-timetravel/internal/entity"
)

const shutdownTimeout = 5 * time.Second

var (
	errUnknownAction    = errors.New("unknown action")
	errMalformedMessage = errors.New("malformed message")
)

type sessionUseCase interface {
	NewSession(ctx context.Context) (*entity.GameView, error)
	GetSession(ctx context.Context, id string) (*entity.GameView, error)
	PlayMove(ctx context.Context, id string, cell int) (*entity.GameView, error)
	JumpTo(ctx context.Context, id string, position int) (*entity.GameView, error)
	Restart(ctx context.Context, id string) (*entity.GameView, error)
}

type handlerFunc func(ctx context.Context, payload *Payload) (*entity.GameView, error)

type Server struct {
	logger   *slog.Logger
	sessions sessionUseCase

	handlers map[string]handlerFunc
}

func New(logger *slog.Logger, sessions sessionUseCase) *Server {
	server := &Server{
		logger:   logger.With("component", "websocket"),
		sessions: sessions,

		handlers: make(map[string]handlerFunc),
	}

	server.handlers[actionSessionNew] = server.handleNewSession
	server.handlers[actionSessionResume] = server.handleResume
	server.handlers[actionGamePlay] = server.handlePlay
	server.handlers[actionGameJump] = server.handleJump
	server.handlers[actionGameRestart] = server.handleRestart

	return server
}

// Handler - returns the http handler serving the /ws endpoint.
func (that *Server) Handler() http.Handler {
	router := mux.NewRouter()
	router.HandleFunc("/ws", that.serveWS).Methods(http.MethodGet)

	return router
}

// Start - starts WebSocket server and stops it when ctx is canceled.
func (that *Server) Start(ctx context.Context, port string) error {
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           that.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       30 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		_ = srv.Shutdown(shutdownCtx) //nolint: contextcheck // parent is already canceled
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// serveWS - upgrades the connection and processes messages until the client leaves.
func (that *Server) serveWS(writer http.ResponseWriter, req *http.Request) {
	log := that.logger.With("method", "serveWS")

	conn, err := websocket.Accept(writer, req, &websocket.AcceptOptions{InsecureSkipVerify: true})
	if err != nil {
		log.Error("failed to accept connection", "error", err)
		return
	}

	defer conn.Close(websocket.StatusInternalError, "unexpected server error")

	log.Info("WebSocket connection established")

	err = that.handleMessages(req.Context(), conn)

	switch websocket.CloseStatus(err) {
	case websocket.StatusNormalClosure, websocket.StatusGoingAway:
		log.Info("WebSocket connection closed")
		conn.Close(websocket.StatusNormalClosure, "")
	default:
		if req.Context().Err() == nil {
			log.Error("error handling messages", "error", err)
		}
	}
}

// handleMessages - processes messages from the client. A frame that is not a valid message gets an
// error reply and the connection stays open.
func (that *Server) handleMessages(ctx context.Context, conn *websocket.Conn) error {
	log := that.logger.With("method", "handleMessages")

	for {
		_, data, err := conn.Read(ctx)
		if err != nil {
			return fmt.Errorf("failed to read message: %w", err)
		}

		var message Message
		var response *Payload

		if err = json.Unmarshal(data, &message); err != nil {
			log.Warn("failed to unmarshal message", "error", err)
			response = &Payload{Error: errMalformedMessage.Error()}
		} else {
			response = that.process(ctx, &message)
		}

		if response.Error != "" {
			log.Debug("action failed", "action", message.Action, "error", response.Error)
		}

		reply, err := encodeReply(message.Action, response)
		if err != nil {
			return err
		}

		if err = conn.Write(ctx, websocket.MessageText, reply); err != nil {
			return fmt.Errorf("failed to write message: %w", err)
		}
	}
}

func (that *Server) process(ctx context.Context, message *Message) *Payload {
	handler, ok := that.handlers[message.Action]
	if !ok {
		return &Payload{Error: fmt.Sprintf("%s: %q", errUnknownAction, message.Action)}
	}

	var payload Payload
	if len(message.Payload) > 0 {
		if err := json.Unmarshal(message.Payload, &payload); err != nil {
			return &Payload{Error: "malformed payload"}
		}
	}

	game, err := handler(ctx, &payload)
	if err != nil {
		return &Payload{SessionID: payload.SessionID, Error: errorMessage(err)}
	}

	return &Payload{SessionID: game.SessionID, Game: game}
}

func encodeReply(action string, response *Payload) ([]byte, error) {
	payload, err := json.Marshal(response)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payload: %w", err)
	}

	reply, err := json.Marshal(Message{Action: action, Payload: payload})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal message: %w", err)
	}

	return reply, nil
}
