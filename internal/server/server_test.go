package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/danmuck/ircwire/internal/protocol"
	"github.com/danmuck/ircwire/internal/protocol/frame"
	"github.com/danmuck/ircwire/internal/testutil/testlog"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	testlog.Start(t)
	gin.SetMode(gin.TestMode)
	return New(Options{Name: "ircwire_test", Addr: "127.0.0.1:0", Limits: frame.DefaultLimits()})
}

func do(t *testing.T, s *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if strings.HasPrefix(body, "{") {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	rec := do(t, s, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "ircwire_test", body["service"])
}

func TestDecodeRoute(t *testing.T) {
	s := newTestServer(t)
	rec := do(t, s, http.MethodPost, "/decode", ":irc.example.net 001 alice :Welcome to IRC\r\n")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var out MessageJSON
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.Equal(t, MessageJSON{
		Source:  "irc.example.net",
		Verb:    "001",
		Numeric: true,
		Params:  []string{"alice", "Welcome to IRC"},
	}, out)
}

func TestDecodeRouteFailures(t *testing.T) {
	s := newTestServer(t)
	cases := []struct {
		name      string
		line      string
		kind      string
		remainder string
	}{
		{name: "unknown", line: "NICK2 alice", kind: protocol.KindUnknownCommand, remainder: "NICK2 alice"},
		{name: "malformed source", line: ":lonely", kind: protocol.KindMalformedSource, remainder: ":lonely"},
		{name: "empty", line: "\r\n", kind: protocol.KindEmptyInput},
		{name: "invalid utf8", line: "PRIVMSG #a :\xff", kind: protocol.KindInvalidEncoding},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := do(t, s, http.MethodPost, "/decode", tc.line)
			require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

			var body map[string]string
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tc.kind, body["kind"])
			assert.Equal(t, tc.remainder, body["remainder"])
			assert.NotEmpty(t, body["error"])
		})
	}
}

func TestDecodeRouteRejectsOversizedBody(t *testing.T) {
	s := newTestServer(t)
	rec := do(t, s, http.MethodPost, "/decode", "PRIVMSG #a :"+strings.Repeat("x", 600))
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestEncodeRoute(t *testing.T) {
	s := newTestServer(t)
	rec := do(t, s, http.MethodPost, "/encode", `{"source":"WiZ!jto@tolsun.oulu.fi","verb":"TOPIC","params":["#test","New topic "]}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, ":WiZ!jto@tolsun.oulu.fi TOPIC #test :New topic ", body["line"])
}

func TestEncodeRouteRejects(t *testing.T) {
	s := newTestServer(t)
	cases := map[string]string{
		"unknown verb":     `{"verb":"NICK2","params":["a"]}`,
		"numeric mismatch": `{"verb":"PING","numeric":true}`,
		"space in middle":  `{"verb":"MODE","params":["a b","c"]}`,
		"not json":         `{"verb":`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			rec := do(t, s, http.MethodPost, "/encode", body)
			assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
		})
	}
}

func TestJSONRoundTrip(t *testing.T) {
	testlog.Start(t)
	msg, err := protocol.DecodeString("CAP * LS :multi-prefix sasl")
	require.NoError(t, err)

	back, err := FromJSON(ToJSON(msg))
	require.NoError(t, err)
	assert.True(t, back.Equal(msg), "got=%s want=%s", back, msg)
}

func TestMetricsRoute(t *testing.T) {
	s := newTestServer(t)
	do(t, s, http.MethodPost, "/decode", "PING :x")
	rec := do(t, s, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "ircwire_codec_lines_total")
}
