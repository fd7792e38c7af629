package api

import (
	"bufio"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ndtdash/internal"
)

func TestEventStreamOutlivesWriteTimeout(t *testing.T) {
	gin.SetMode(gin.TestMode)
	hub := NewEventHub(internal.NewLogger(internal.LogLevelError))
	hub.keepAlive = 40 * time.Millisecond

	router := gin.New()
	router.GET("/events", hub.HandleEvents)

	srv := httptest.NewUnstartedServer(router)
	srv.Config.WriteTimeout = 150 * time.Millisecond
	srv.Start()
	defer func() {
		srv.CloseClientConnections()
		srv.Close()
	}()

	resp, err := http.Get(srv.URL + "/events")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(resp.Body)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
	}()

	start := time.Now()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case line, ok := <-lines:
			require.True(t, ok, "stream closed after %s", time.Since(start))
			if strings.HasPrefix(line, "event:ping") && time.Since(start) > 400*time.Millisecond {
				return
			}
		case <-deadline:
			t.Fatal("no ping received past the write timeout")
		}
	}
}

func TestNotifyLoadReachesSubscribers(t *testing.T) {
	hub := NewEventHub(internal.NewLogger(internal.LogLevelError))
	client := hub.Subscribe()
	defer hub.Unsubscribe(client)

	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, 5*time.Millisecond)

	pair := fixturePair()
	hub.NotifyLoad(pair.Info())

	select {
	case event := <-client:
		assert.Equal(t, "refresh", event.EventType)
		assert.Equal(t, pair.LoadID.String(), event.LoadID)
	case <-time.After(time.Second):
		t.Fatal("no event delivered")
	}
}
