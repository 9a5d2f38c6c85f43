package rest

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-timetravel/internal/entity"
	"github.com/rocketscienceinc/tictactoe-timetravel/internal/repository"
	"github.com/rocketscienceinc/tictactoe-timetravel/internal/usecase"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	sessions := usecase.NewSessionManager(logger, repository.NewMemorySessionRepository())

	server := httptest.NewServer(NewRouter(logger, sessions))
	t.Cleanup(server.Close)

	return server
}

func do(t *testing.T, method, url, body string) (*http.Response, []byte) {
	t.Helper()

	req, err := http.NewRequest(method, url, strings.NewReader(body))
	require.NoError(t, err)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	return resp, payload
}

func decodeView(t *testing.T, payload []byte) entity.GameView {
	t.Helper()

	var view entity.GameView
	require.NoError(t, json.Unmarshal(payload, &view))

	return view
}

func createSession(t *testing.T, server *httptest.Server) string {
	t.Helper()

	resp, payload := do(t, http.MethodPost, server.URL+"/sessions", "")
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	view := decodeView(t, payload)
	require.NotEmpty(t, view.SessionID)

	return view.SessionID
}

func TestPing(t *testing.T) {
	server := newTestServer(t)

	// When: the ping endpoint is called
	resp, payload := do(t, http.MethodGet, server.URL+"/ping", "")

	// Then: it answers pong
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "pong", string(payload))
}

func TestSessions_PlayAndTimeTravel(t *testing.T) {
	server := newTestServer(t)
	id := createSession(t, server)
	base := server.URL + "/sessions/" + id

	// When: X wins the top row
	var view entity.GameView
	for _, cell := range []string{"0", "4", "1", "3", "2"} {
		resp, payload := do(t, http.MethodPost, base+"/moves", `{"cell": `+cell+`}`)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		view = decodeView(t, payload)
	}

	// Then: the winner is reported
	assert.Equal(t, entity.MarkX, view.Winner)
	assert.Equal(t, "Winner: X", view.Status)
	assert.Len(t, view.Moves, 6)

	// When: jumping back to move 2 and playing cell 3
	resp, _ := do(t, http.MethodPost, base+"/jump", `{"position": 2}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, payload := do(t, http.MethodPost, base+"/moves", `{"cell": 3}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// Then: the later moves were discarded
	view = decodeView(t, payload)
	assert.Len(t, view.Moves, 4)
	assert.Equal(t, entity.MarkNone, view.Winner)

	// When: fetching the session
	resp, payload = do(t, http.MethodGet, base, "")

	// Then: the same state is returned
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, view, decodeView(t, payload))
}

func TestSessions_Errors(t *testing.T) {
	server := newTestServer(t)
	id := createSession(t, server)
	base := server.URL + "/sessions/" + id

	t.Run("Jump out of range", func(t *testing.T) {
		resp, payload := do(t, http.MethodPost, base+"/jump", `{"position": 99}`)

		assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
		assert.Contains(t, string(payload), "out of range")
	})

	t.Run("Invalid cell", func(t *testing.T) {
		resp, _ := do(t, http.MethodPost, base+"/moves", `{"cell": 9}`)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("Missing cell", func(t *testing.T) {
		resp, _ := do(t, http.MethodPost, base+"/moves", `{}`)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("Malformed jump body", func(t *testing.T) {
		resp, _ := do(t, http.MethodPost, base+"/jump", `position`)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("Unknown session", func(t *testing.T) {
		resp, _ := do(t, http.MethodGet, server.URL+"/sessions/unknown", "")

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("Occupied cell is silently ignored", func(t *testing.T) {
		resp, _ := do(t, http.MethodPost, base+"/moves", `{"cell": 4}`)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		resp, payload := do(t, http.MethodPost, base+"/moves", `{"cell": 4}`)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		view := decodeView(t, payload)
		assert.Equal(t, 1, view.Position)
		assert.Equal(t, entity.MarkO, view.Turn)
	})
}

func TestSessions_RestartAndDelete(t *testing.T) {
	server := newTestServer(t)
	id := createSession(t, server)
	base := server.URL + "/sessions/" + id

	resp, _ := do(t, http.MethodPost, base+"/moves", `{"cell": 0}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// When: restarting
	resp, payload := do(t, http.MethodPost, base+"/restart", "")

	// Then: the empty board is back
	require.Equal(t, http.StatusOK, resp.StatusCode)
	view := decodeView(t, payload)
	assert.Equal(t, entity.Board{}, view.Board)
	assert.Len(t, view.Moves, 1)

	// When: deleting the session
	resp, _ = do(t, http.MethodDelete, base, "")

	// Then: it is gone
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, _ = do(t, http.MethodGet, base, "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
