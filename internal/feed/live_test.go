package feed

import (
	"net/http/httptest"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
)

func newLiveTestServer(t *testing.T, handlerDone chan struct{}) *httptest.Server {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/feed/live", func(c *gin.Context) {
		c.Set("user_id", "viewer")
		LiveFeed(c)
		if handlerDone != nil {
			close(handlerDone)
		}
	})
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv
}

func dialLive(t *testing.T, srv *httptest.Server) *websocket.Conn {
	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/feed/live"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	assert.NoError(t, err)
	return conn
}

func TestLiveFeedStopsReadingAfterClientDrop(t *testing.T) {
	orig := source
	source = newTestSource()
	defer func() { source = orig }()

	handlerDone := make(chan struct{})
	srv := newLiveTestServer(t, handlerDone)

	before := runtime.NumGoroutine()

	conn := dialLive(t, srv)

	var state liveState
	assert.NoError(t, conn.ReadJSON(&state))
	assert.Len(t, state.Items, 2)

	// Commandes en rafale puis coupure brutale : la goroutine de lecture ne
	// doit pas rester bloquée sur une commande jamais consommée.
	for i := 0; i < 8; i++ {
		_ = conn.WriteJSON(liveCommand{Action: "refresh"})
	}
	assert.NoError(t, conn.Close())

	select {
	case <-handlerDone:
	case <-time.After(2 * time.Second):
		t.Fatal("LiveFeed ne s'est pas terminé après la coupure du client")
	}

	assert.Eventually(t, func() bool {
		return runtime.NumGoroutine() <= before+1
	}, 2*time.Second, 50*time.Millisecond, "goroutine de lecture toujours vivante")
}

func TestLiveFeedRemoveCommand(t *testing.T) {
	orig := source
	source = newTestSource()
	defer func() { source = orig }()

	srv := newLiveTestServer(t, nil)
	conn := dialLive(t, srv)
	defer conn.Close()

	var state liveState
	assert.NoError(t, conn.ReadJSON(&state))
	assert.Len(t, state.Items, 2)

	assert.NoError(t, conn.WriteJSON(liveCommand{Action: "remove", PostID: "post-1"}))

	assert.NoError(t, conn.ReadJSON(&state))
	assert.Len(t, state.Items, 1)
	assert.Equal(t, "post-2", state.Items[0].Post.ID)
}
