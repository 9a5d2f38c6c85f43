package rest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/rocketscienceinc/tictactoe-timetravel/internal/entity"
)

const shutdownTimeout = 5 * time.Second

type sessionUseCase interface {
	NewSession(ctx context.Context) (*entity.GameView, error)
	GetSession(ctx context.Context, id string) (*entity.GameView, error)
	PlayMove(ctx context.Context, id string, cell int) (*entity.GameView, error)
	JumpTo(ctx context.Context, id string, position int) (*entity.GameView, error)
	Restart(ctx context.Context, id string) (*entity.GameView, error)
	DeleteSession(ctx context.Context, id string) error
}

// NewRouter - registers the ping and session routes.
func NewRouter(logger *slog.Logger, sessions sessionUseCase) http.Handler {
	h := &handlers{
		logger:   logger.With("component", "rest"),
		sessions: sessions,
	}

	router := mux.NewRouter()
	router.HandleFunc("/ping", pingHandler).Methods(http.MethodGet)

	api := router.PathPrefix("/sessions").Subrouter()
	api.HandleFunc("", h.newSession).Methods(http.MethodPost)
	api.HandleFunc("/{id}", h.getSession).Methods(http.MethodGet)
	api.HandleFunc("/{id}", h.deleteSession).Methods(http.MethodDelete)
	api.HandleFunc("/{id}/moves", h.playMove).Methods(http.MethodPost)
	api.HandleFunc("/{id}/jump", h.jumpTo).Methods(http.MethodPost)
	api.HandleFunc("/{id}/restart", h.restart).Methods(http.MethodPost)

	return router
}

// Start - serves handler on port until ctx is canceled.
func Start(ctx context.Context, port string, handler http.Handler) error {
	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      handler,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  30 * time.Second,
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
