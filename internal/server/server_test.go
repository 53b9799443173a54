package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	cws "github.com/coder/websocket"
	"github.com/habitflash/habitflash/common"
	"github.com/habitflash/habitflash/internal/api"
	"github.com/habitflash/habitflash/internal/clock"
	"github.com/habitflash/habitflash/internal/eventloop"
	"github.com/habitflash/habitflash/internal/group"
	"github.com/habitflash/habitflash/internal/settings"
)

const testSecret = "server-test-secret"

type memGroups struct{ saved []group.ReminderGroup }

func (m *memGroups) Load() ([]group.ReminderGroup, error) { return m.saved, nil }

func (m *memGroups) Save(g []group.ReminderGroup) error {
	m.saved = g
	return nil
}

type memSettings struct{}

func (memSettings) Load() (settings.Settings, error) { return settings.Defaults(), nil }

func (memSettings) Save(settings.Settings) error { return nil }

// startServer runs the engine on a real event loop with a fake clock and
// serves it through httptest.
func startServer(t *testing.T) (*Server, string) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	loop := eventloop.New(nil, 64)
	a := api.NewApi(nil, api.Options{
		Clock:    clock.NewFake(time.Date(2026, 10, 12, 9, 0, 0, 0, time.UTC)),
		Exec:     loop,
		Groups:   &memGroups{},
		Settings: memSettings{},
		Version:  common.VersionResult{Version: "1.0.0-test", Commit: "abc123"},
	})
	s := New(nil, a, testSecret)
	go loop.Run(ctx)
	go s.notifier.Run(ctx)
	if err := a.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(func() {
		ts.Close()
		s.notifier.Close()
		s.bridge.Close()
		cancel()
	})
	return s, ts.URL
}

type rpcResponse struct {
	Result json.RawMessage `json:"result"`
	Error  *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func rpcPost(t *testing.T, url, token, method string, params any) (int, rpcResponse) {
	t.Helper()
	body := map[string]any{"jsonrpc": "2.0", "method": method, "id": 1}
	if params != nil {
		body["params"] = params
	}
	data, _ := json.Marshal(body)
	req, _ := http.NewRequest(http.MethodPost, url+common.RouteRPC, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("HTTP request failed: %v", err)
	}
	defer resp.Body.Close()
	raw, _ := io.ReadAll(resp.Body)
	var out rpcResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		t.Fatalf("unmarshal: %v (body: %s)", err, raw)
	}
	return resp.StatusCode, out
}

func TestValidToken(t *testing.T) {
	tests := []struct {
		secret, header string
		want           bool
	}{
		{"s3cret", "Bearer s3cret", true},
		{"s3cret", "Bearer wrong", false},
		{"s3cret", "s3cret", false},
		{"s3cret", "", false},
		{"", "Bearer ", false},
	}
	for _, tt := range tests {
		if got := validToken(tt.secret, tt.header); got != tt.want {
			t.Errorf("validToken(%q, %q) = %v, want %v", tt.secret, tt.header, got, tt.want)
		}
	}
}

func TestRPC_Unauthorized(t *testing.T) {
	_, url := startServer(t)
	for _, token := range []string{"", "wrong"} {
		status, resp := rpcPost(t, url, token, common.MethodVersion, nil)
		if status != http.StatusUnauthorized {
			t.Fatalf("status = %d, want 401", status)
		}
		if resp.Error == nil || resp.Error.Code != -32600 {
			t.Fatalf("error = %+v", resp.Error)
		}
	}
}

func TestRPC_Version(t *testing.T) {
	_, url := startServer(t)
	status, resp := rpcPost(t, url, testSecret, common.MethodVersion, nil)
	if status != http.StatusOK || resp.Error != nil {
		t.Fatalf("status %d, error %+v", status, resp.Error)
	}
	var v common.VersionResult
	if err := json.Unmarshal(resp.Result, &v); err != nil {
		t.Fatal(err)
	}
	if v.Version != "1.0.0-test" || v.Commit != "abc123" {
		t.Fatalf("version = %+v", v)
	}
}

func TestRPC_GroupLifecycle(t *testing.T) {
	_, url := startServer(t)

	_, resp := rpcPost(t, url, testSecret, common.MethodGroupAdd, map[string]any{
		"reminders": []string{"Drink water"},
		"interval":  map[string]any{"count": 20, "unit": "Minutes"},
	})
	if resp.Error != nil {
		t.Fatalf("add: %+v", resp.Error)
	}
	var g group.ReminderGroup
	if err := json.Unmarshal(resp.Result, &g); err != nil {
		t.Fatal(err)
	}
	if g.ID == "" || g.Interval.Count != 20 || g.Reminders[0] != "Drink water" {
		t.Fatalf("group = %+v", g)
	}

	_, resp = rpcPost(t, url, testSecret, common.MethodGroupList, nil)
	var list common.GroupListResult
	if err := json.Unmarshal(resp.Result, &list); err != nil {
		t.Fatal(err)
	}
	if len(list.Groups) != 1 {
		t.Fatalf("groups = %+v", list.Groups)
	}

	_, resp = rpcPost(t, url, testSecret, common.MethodSchedulePending, nil)
	var pending common.PendingResult
	if err := json.Unmarshal(resp.Result, &pending); err != nil {
		t.Fatal(err)
	}
	if len(pending.Pending) != 1 || pending.Pending[0].GroupID != g.ID {
		t.Fatalf("pending = %+v", pending)
	}

	_, resp = rpcPost(t, url, testSecret, common.MethodGroupPreview, common.GroupIDParams{ID: g.ID})
	if resp.Error != nil || !strings.Contains(string(resp.Result), "Drink water") {
		t.Fatalf("preview: %s %+v", resp.Result, resp.Error)
	}

	_, resp = rpcPost(t, url, testSecret, common.MethodGroupRemove, common.GroupIDParams{ID: g.ID})
	if resp.Error != nil {
		t.Fatalf("remove: %+v", resp.Error)
	}
	_, resp = rpcPost(t, url, testSecret, common.MethodGroupGet, common.GroupIDParams{ID: g.ID})
	if resp.Error == nil || resp.Error.Code != int(codeNotFound) {
		t.Fatalf("get removed: %+v", resp.Error)
	}
}

func TestRPC_InvalidParams(t *testing.T) {
	_, url := startServer(t)
	tests := []struct {
		method string
		params any
	}{
		{common.MethodGroupRemove, common.GroupIDParams{}},
		{common.MethodGroupAdd, map[string]any{"days": map[string]any{"funday": map[string]any{"enabled": true}}}},
		{common.MethodSettingsSet, common.SettingsSetParams{Name: "volume", Value: "loud"}},
		{common.MethodSettingsSet, common.SettingsSetParams{Name: "nope", Value: "1"}},
		{common.MethodFlashShow, common.FlashShowParams{}},
	}
	for _, tt := range tests {
		t.Run(tt.method, func(t *testing.T) {
			_, resp := rpcPost(t, url, testSecret, tt.method, tt.params)
			if resp.Error == nil || resp.Error.Code != int(codeInvalidParams) {
				t.Fatalf("error = %+v, want %d", resp.Error, codeInvalidParams)
			}
		})
	}
}

func TestRPC_Settings(t *testing.T) {
	_, url := startServer(t)
	_, resp := rpcPost(t, url, testSecret, common.MethodSettingsSet, common.SettingsSetParams{Name: "volume", Value: "3"})
	if resp.Error != nil {
		t.Fatalf("set: %+v", resp.Error)
	}
	var res common.SettingsResult
	if err := json.Unmarshal(resp.Result, &res); err != nil {
		t.Fatal(err)
	}
	if res.Settings.Volume != 1 {
		t.Fatalf("volume = %v, want clamped to 1", res.Settings.Volume)
	}
}

func TestHealth(t *testing.T) {
	_, url := startServer(t)
	resp, err := http.Get(url + common.RouteHealth)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	var h healthResult
	if err := json.NewDecoder(resp.Body).Decode(&h); err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK || h.Status != "ok" || h.Version != "1.0.0-test" {
		t.Fatalf("health = %d %+v", resp.StatusCode, h)
	}
}

func TestMetrics(t *testing.T) {
	_, url := startServer(t)
	resp, err := http.Get(url + common.RouteMetrics)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), "habitflash_rpc_pushes_dropped_total") {
		t.Fatal("metrics missing push counter")
	}
}

func TestWebSocket_Unauthorized(t *testing.T) {
	_, url := startServer(t)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_, resp, err := cws.Dial(ctx, "ws"+strings.TrimPrefix(url, "http")+common.RouteRPCWS, nil)
	if err == nil {
		t.Fatal("expected error for unauthorized WebSocket connection")
	}
	if resp != nil && resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", resp.StatusCode)
	}
}

func TestWebSocket_Push(t *testing.T) {
	s, url := startServer(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn, _, err := cws.Dial(ctx, "ws"+strings.TrimPrefix(url, "http")+common.RouteRPCWS, &cws.DialOptions{
		HTTPHeader: http.Header{"Authorization": []string{"Bearer " + testSecret}},
	})
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close(cws.StatusNormalClosure, "")

	for s.notifier.Count() == 0 {
		select {
		case <-ctx.Done():
			t.Fatal("client never registered")
		case <-time.After(10 * time.Millisecond):
		}
	}

	req, _ := json.Marshal(map[string]any{
		"jsonrpc": "2.0", "method": common.MethodFlashShow, "id": 7,
		"params": common.FlashShowParams{Text: "Look away"},
	})
	if err := conn.Write(ctx, cws.MessageText, req); err != nil {
		t.Fatalf("write: %v", err)
	}

	seen := map[string]bool{}
	for !(seen["response"] && seen[common.PushFlashUpdate] && seen[common.PushReminderFired]) {
		_, data, err := conn.Read(ctx)
		if err != nil {
			t.Fatalf("read: %v (seen %v)", err, seen)
		}
		var msg struct {
			ID     json.RawMessage `json:"id"`
			Method string          `json:"method"`
			Params json.RawMessage `json:"params"`
		}
		if err := json.Unmarshal(data, &msg); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if msg.Method == "" {
			seen["response"] = true
			continue
		}
		if !strings.Contains(string(msg.Params), "Look away") {
			t.Fatalf("push %s params = %s", msg.Method, msg.Params)
		}
		seen[msg.Method] = true
	}
}
