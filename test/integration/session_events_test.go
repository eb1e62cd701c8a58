//go:build integration

package integration

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/NordCoder/sessiongate/internal/domain/session"
)

// Requires a running session-gateway with events.enable=true and the default
// admin seed user.
func TestLoginPublishesSessionEvent(t *testing.T) {
	cfg := LoadCfg()
	WaitTCP(t, "kafka", cfg.KafkaBootstrap, 30*time.Second)
	WaitTCP(t, "session-gateway", strings.TrimPrefix(cfg.GatewayBase, "http://"), 30*time.Second)

	body, _ := json.Marshal(map[string]string{"identifier": "admin", "secret": "password123"})
	reqID := "it-" + time.Now().Format("150405.000000")
	req, _ := http.NewRequest(http.MethodPost, cfg.GatewayBase+"/api/auth/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", reqID)

	resp, err := (&http.Client{Timeout: 10 * time.Second}).Do(req)
	require.NoError(t, err)
	_ = resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	ev, ok := ReadJSON(t, cfg.KafkaBootstrap, cfg.EventsTopic, "it-"+reqID, 30*time.Second,
		func(e session.Event) bool { return e.RequestID == reqID })
	require.True(t, ok, "no session event for request %s", reqID)
	require.Equal(t, session.EventLogin, ev.Type)
	require.Equal(t, uint32(1), ev.SubjectID)
}
