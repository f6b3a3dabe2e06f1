package observability

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/danmuck/ircwire/internal/logging"
	"github.com/danmuck/ircwire/internal/protocol"
	"github.com/danmuck/ircwire/internal/testutil/testlog"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func TestRegisterMetricsAndRecordersAreSafe(t *testing.T) {
	testlog.Start(t)
	RegisterMetrics()
	RegisterMetrics()

	RecordHTTPRequest("ircwire", "POST", "/decode", 200, 12*time.Millisecond)
	RecordEncode(12)
	log.Debug().Msg("observability/metrics: registration idempotent and recording paths executed")
}

func TestRecordDecodeLabelsByErrorKind(t *testing.T) {
	testlog.Start(t)
	okBefore := testutil.ToFloat64(codecLines.WithLabelValues(DirectionDecode, resultOK))
	unknownBefore := testutil.ToFloat64(codecLines.WithLabelValues(DirectionDecode, protocol.KindUnknownCommand))

	RecordDecode(10, nil)
	_, err := protocol.DecodeString("NICK2 x")
	RecordDecode(7, err)

	if got := testutil.ToFloat64(codecLines.WithLabelValues(DirectionDecode, resultOK)); got != okBefore+1 {
		t.Fatalf("ok counter: got %v want %v", got, okBefore+1)
	}
	if got := testutil.ToFloat64(codecLines.WithLabelValues(DirectionDecode, protocol.KindUnknownCommand)); got != unknownBefore+1 {
		t.Fatalf("unknown_command counter: got %v want %v", got, unknownBefore+1)
	}
}

func TestInitLoggerWritesFile(t *testing.T) {
	prev := log.Logger
	prevLevel := zerolog.GlobalLevel()
	t.Cleanup(func() {
		log.Logger = prev
		zerolog.SetGlobalLevel(prevLevel)
	})

	t.Setenv(logging.EnvLogLevel, "")
	path := filepath.Join(t.TempDir(), "ircwire.log")
	logger := InitLogger("ircwire-test", LogConfig{Level: zerolog.InfoLevel, File: path, NoColor: true})
	logger.Info().Str("line", "PING :x").Msg("decoded")

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(data), `"app":"ircwire-test"`) {
		t.Fatalf("missing app field in %q", data)
	}
}
