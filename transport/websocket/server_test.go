package websocket

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"

	"github.com/rocketscienceinc/tictactoe-timetravel/internal/entity"
	"github.com/rocketscienceinc/tictactoe-timetravel/internal/repository"
	"github.com/rocketscienceinc/tictactoe-timetravel/internal/usecase"
)

func dial(t *testing.T) (context.Context, *websocket.Conn) {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	sessions := usecase.NewSessionManager(logger, repository.NewMemorySessionRepository())

	server := httptest.NewServer(New(logger, sessions).Handler())
	t.Cleanup(server.Close)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	t.Cleanup(cancel)

	conn, _, err := websocket.Dial(ctx, "ws"+strings.TrimPrefix(server.URL, "http")+"/ws", nil)
	require.NoError(t, err)
	t.Cleanup(func() {
		conn.Close(websocket.StatusNormalClosure, "")
	})

	return ctx, conn
}

func send(ctx context.Context, t *testing.T, conn *websocket.Conn, action string, payload *Payload) *Payload {
	t.Helper()

	raw, err := json.Marshal(payload)
	require.NoError(t, err)

	require.NoError(t, wsjson.Write(ctx, conn, Message{Action: action, Payload: raw}))

	var reply Message
	require.NoError(t, wsjson.Read(ctx, conn, &reply))
	require.Equal(t, action, reply.Action)

	var response Payload
	require.NoError(t, json.Unmarshal(reply.Payload, &response))

	return &response
}

func intPtr(v int) *int {
	return &v
}

func TestServer_GameFlow(t *testing.T) {
	ctx, conn := dial(t)

	// Given: a new session
	created := send(ctx, t, conn, actionSessionNew, &Payload{})
	require.Empty(t, created.Error)
	require.NotNil(t, created.Game)
	id := created.SessionID
	require.NotEmpty(t, id)

	// When: X wins the top row
	var response *Payload
	for _, cell := range []int{0, 4, 1, 3, 2} {
		response = send(ctx, t, conn, actionGamePlay, &Payload{SessionID: id, Cell: intPtr(cell)})
		require.Empty(t, response.Error)
	}

	// Then: the winner is reported
	assert.Equal(t, entity.MarkX, response.Game.Winner)

	// When: jumping back and playing a new branch
	response = send(ctx, t, conn, actionGameJump, &Payload{SessionID: id, Position: intPtr(2)})
	require.Empty(t, response.Error)
	assert.Equal(t, 2, response.Game.Position)

	response = send(ctx, t, conn, actionGamePlay, &Payload{SessionID: id, Cell: intPtr(3)})
	require.Empty(t, response.Error)

	// Then: the history was truncated
	assert.Len(t, response.Game.Moves, 4)

	// When: resuming the session
	resumed := send(ctx, t, conn, actionSessionResume, &Payload{SessionID: id})

	// Then: the same game is returned
	require.Empty(t, resumed.Error)
	assert.Equal(t, response.Game, resumed.Game)

	// When: restarting
	restarted := send(ctx, t, conn, actionGameRestart, &Payload{SessionID: id})

	// Then: the board is empty again
	require.Empty(t, restarted.Error)
	assert.Equal(t, entity.Board{}, restarted.Game.Board)
}

func TestServer_Errors(t *testing.T) {
	ctx, conn := dial(t)

	created := send(ctx, t, conn, actionSessionNew, nil)
	id := created.SessionID

	t.Run("Jump out of range", func(t *testing.T) {
		response := send(ctx, t, conn, actionGameJump, &Payload{SessionID: id, Position: intPtr(99)})

		assert.Contains(t, response.Error, "out of range")
		assert.Nil(t, response.Game)
	})

	t.Run("Missing cell", func(t *testing.T) {
		response := send(ctx, t, conn, actionGamePlay, &Payload{SessionID: id})

		assert.Equal(t, errCellRequired.Error(), response.Error)
	})

	t.Run("Missing session", func(t *testing.T) {
		response := send(ctx, t, conn, actionGameRestart, &Payload{})

		assert.Equal(t, errSessionRequired.Error(), response.Error)
	})

	t.Run("Unknown session", func(t *testing.T) {
		response := send(ctx, t, conn, actionSessionResume, &Payload{SessionID: "unknown"})

		assert.Equal(t, repository.ErrSessionNotFound.Error(), response.Error)
	})

	t.Run("Unknown action keeps the connection open", func(t *testing.T) {
		response := send(ctx, t, conn, "game:undo", &Payload{})
		assert.Contains(t, response.Error, "unknown action")

		again := send(ctx, t, conn, actionSessionResume, &Payload{SessionID: id})
		assert.Empty(t, again.Error)
	})

	t.Run("Malformed frame keeps the connection open", func(t *testing.T) {
		// Given: a text frame that is not a JSON message
		require.NoError(t, conn.Write(ctx, websocket.MessageText, []byte("not json")))

		// When: reading the reply
		var reply Message
		require.NoError(t, wsjson.Read(ctx, conn, &reply))

		var response Payload
		require.NoError(t, json.Unmarshal(reply.Payload, &response))

		// Then: an error is reported and the session is still reachable
		assert.Equal(t, errMalformedMessage.Error(), response.Error)

		again := send(ctx, t, conn, actionSessionNew, nil)
		assert.Empty(t, again.Error)
		assert.NotEmpty(t, again.SessionID)
	})
}

func TestEncodeReply(t *testing.T) {
	// Given: a response carrying an error
	response := &Payload{SessionID: "session-1", Error: "boom"}

	// When: encoding it as a reply
	raw, err := encodeReply(actionGamePlay, response)

	// Then: the envelope and payload decode back
	require.NoError(t, err)

	var reply Message
	require.NoError(t, json.Unmarshal(raw, &reply))
	assert.Equal(t, actionGamePlay, reply.Action)

	var decoded Payload
	require.NoError(t, json.Unmarshal(reply.Payload, &decoded))
	assert.Equal(t, *response, decoded)
}

func TestServer_HandlerRejectsNonGet(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	server := httptest.NewServer(New(logger, nil).Handler())
	t.Cleanup(server.Close)

	// When: posting to the websocket endpoint
	resp, err := http.Post(server.URL+"/ws", "application/json", strings.NewReader("{}"))
	require.NoError(t, err)
	defer resp.Body.Close()

	// Then: the router refuses the method
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}
