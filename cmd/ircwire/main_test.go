package main

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"net"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/danmuck/ircwire/internal/logging"
	"github.com/danmuck/ircwire/internal/server"
	"github.com/danmuck/ircwire/internal/testutil/testlog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	t.Setenv(logging.EnvLogBypass, "true")
	var out, errOut bytes.Buffer
	a := newApp(strings.NewReader(stdin), &out, &errOut)
	err := a.command().Run(context.Background(), append([]string{"ircwire"}, args...))
	return out.String(), errOut.String(), err
}

func TestDecodeJSON(t *testing.T) {
	testlog.Start(t)
	input := ":irc.example.net 001 alice :Welcome\r\n\r\nPING :tick\n"
	out, _, err := run(t, input, "decode")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)

	var first server.MessageJSON
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &first))
	assert.Equal(t, "irc.example.net", first.Source)
	assert.Equal(t, "001", first.Verb)
	assert.True(t, first.Numeric)
	assert.Equal(t, []string{"alice", "Welcome"}, first.Params)
}

func TestDecodeTextReportsFailures(t *testing.T) {
	testlog.Start(t)
	input := "NICK2 oops\r\nQUIT :bye\r\n:lonely\r\n"
	out, errOut, err := run(t, input, "decode", "--format", "text")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "2 of 3 lines")
	assert.Equal(t, "Source [] Verb [QUIT] Params[\"bye\"]\n", out)
	assert.Contains(t, errOut, "line 1: unknown_command")
	assert.Contains(t, errOut, "line 3: malformed_source")
}

func TestDecodeFileArgument(t *testing.T) {
	testlog.Start(t)
	path := filepath.Join(t.TempDir(), "capture.txt")
	require.NoError(t, os.WriteFile(path, []byte("CAP * LS :sasl\r\n"), 0o644))

	out, _, err := run(t, "", "decode", path)
	require.NoError(t, err)
	assert.Contains(t, out, `"verb":"CAP"`)
}

func TestDecodeRejectsUnknownFormat(t *testing.T) {
	testlog.Start(t)
	_, _, err := run(t, "", "decode", "--format", "yaml")
	require.Error(t, err)
}

func TestEncode(t *testing.T) {
	testlog.Start(t)
	cases := []struct {
		name string
		args []string
		want string
	}{
		{name: "source and spaced trailing", args: []string{":WiZ!jto@tolsun.oulu.fi", "TOPIC", "#test", "New topic "}, want: ":WiZ!jto@tolsun.oulu.fi TOPIC #test :New topic \n"},
		{name: "trailing with inner space", args: []string{"USER", "alice", "0", "*", "Alice A"}, want: "USER alice 0 * :Alice A\n"},
		{name: "empty trailing", args: []string{"PRIVMSG", "#a", ""}, want: "PRIVMSG #a :\n"},
		{name: "leading space trailing", args: []string{"PRIVMSG", "#a", " hi"}, want: "PRIVMSG #a : hi\n"},
		{name: "explicit separator", args: []string{"--", "PING", " x "}, want: "PING : x \n"},
		{name: "numeric", args: []string{":irc.example.net", "001", "alice", "Welcome"}, want: ":irc.example.net 001 alice :Welcome\n"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			out, _, err := run(t, "", append([]string{"encode"}, tc.args...)...)
			require.NoError(t, err)
			assert.Equal(t, tc.want, out)
		})
	}
}

func TestEncodeRoundTripsThroughDecode(t *testing.T) {
	testlog.Start(t)
	out, _, err := run(t, "", "encode", "PRIVMSG", "#a", "  padded  ")
	require.NoError(t, err)

	decoded, _, err := run(t, strings.TrimSuffix(out, "\n")+"\r\n", "decode")
	require.NoError(t, err)
	var msg server.MessageJSON
	require.NoError(t, json.Unmarshal([]byte(decoded), &msg))
	assert.Equal(t, []string{"#a", "  padded  "}, msg.Params)
}

func TestEncodeRejects(t *testing.T) {
	testlog.Start(t)
	cases := map[string][]string{
		"no verb":         {},
		"source only":     {":nick"},
		"empty source":    {":", "PING"},
		"unknown verb":    {"NICK2", "a"},
		"space in middle": {"MODE", "a b", "c"},
		"empty middle":    {"PRIVMSG", "", "hi"},
	}
	for name, args := range cases {
		t.Run(name, func(t *testing.T) {
			_, _, err := run(t, "", append([]string{"encode"}, args...)...)
			assert.Error(t, err)
		})
	}
}

func TestDecodeSkipsOversizedLine(t *testing.T) {
	testlog.Start(t)
	input := "PING :a\r\nPRIVMSG #x :" + strings.Repeat("z", 600) + "\r\nPING :after\r\n"
	out, errOut, err := run(t, input, "decode", "--format", "text")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 3 lines")
	assert.Equal(t, "Source [] Verb [PING] Params[\"a\"]\nSource [] Verb [PING] Params[\"after\"]\n", out)
	assert.Contains(t, errOut, "line 2: frame: line exceeds limit")
}

func TestConfigInitAndCheck(t *testing.T) {
	testlog.Start(t)
	path := filepath.Join(t.TempDir(), "ircwire.toml")
	out, _, err := run(t, "", "config", "init", path)
	require.NoError(t, err)
	assert.Contains(t, out, path)

	_, _, err = run(t, "", "config", "init", path)
	require.Error(t, err)
	_, _, err = run(t, "", "config", "init", "--force", path)
	require.NoError(t, err)

	out, _, err = run(t, "", "config", "check", path)
	require.NoError(t, err)
	assert.Contains(t, out, "ok")

	out, _, err = run(t, "", "--config", path, "encode", "PING", "x")
	require.NoError(t, err)
	assert.Equal(t, "PING :x\n", out)
}

func TestExampleConfigLoads(t *testing.T) {
	testlog.Start(t)
	_, _, err := run(t, "", "config", "check", "ex.config.toml")
	require.NoError(t, err)
}

func TestTapSendsScriptAndPrints(t *testing.T) {
	testlog.Start(t)
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	received := make(chan []string, 1)
	go func() {
		c, err := ln.Accept()
		if err != nil {
			return
		}
		defer c.Close()
		r := bufio.NewReader(c)
		var got []string
		for i := 0; i < 3; i++ {
			line, err := r.ReadString('\n')
			if err != nil {
				break
			}
			got = append(got, line)
		}
		received <- got
		_, _ = c.Write([]byte(":irc.example.net 001 alice :Welcome\r\nBOGUS x\r\nPING :tick\r\n"))
	}()

	script := "NICK alice\r\n\r\nPRIVMSG #a : hi there \r\nTOPIC #b :\n"
	out, errOut, err := run(t, script, "tap", "--addr", ln.Addr().String(), "--script", "-")
	require.NoError(t, err)

	assert.Equal(t, []string{
		"NICK :alice\r\n",
		"PRIVMSG #a : hi there \r\n",
		"TOPIC #b :\r\n",
	}, <-received)
	assert.Equal(t,
		"Source [irc.example.net] Verb [001] Params[\"alice\" \"Welcome\"]\n"+
			"Source [] Verb [PING] Params[\"tick\"]\n",
		out)
	assert.Contains(t, errOut, "unknown_command")
}

func TestTapRejectsBadScriptLine(t *testing.T) {
	testlog.Start(t)
	_, _, err := run(t, "PING :ok\r\nNICK2 a\r\n", "tap", "--addr", "127.0.0.1:1", "--script", "-")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "script line 2")
}
