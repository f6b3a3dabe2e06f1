package session

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/danmuck/ircwire/internal/observability"
	"github.com/danmuck/ircwire/internal/protocol"
	"github.com/danmuck/ircwire/internal/protocol/frame"
)

var ErrNilStream = errors.New("session: nil reader or writer")

type readDeadliner interface {
	SetReadDeadline(t time.Time) error
}

type writeDeadliner interface {
	SetWriteDeadline(t time.Time) error
}

// Conn reads and writes protocol lines. Reads must come from one goroutine;
// writes are serialized internally.
type Conn struct {
	cfg    Config
	r      *bufio.Reader
	w      io.Writer
	rd     readDeadliner
	wd     writeDeadliner
	wmu    sync.Mutex
	outbox *Outbox
}

// NewConn wraps a bidirectional stream such as a net.Conn.
func NewConn(rw io.ReadWriter, cfg Config) (*Conn, error) {
	if rw == nil {
		return nil, ErrNilStream
	}
	return NewConnPair(rw, rw, cfg)
}

// NewConnPair wraps separate read and write halves.
func NewConnPair(r io.Reader, w io.Writer, cfg Config) (*Conn, error) {
	if r == nil || w == nil {
		return nil, ErrNilStream
	}
	c := &Conn{
		cfg:    cfg,
		r:      bufio.NewReader(r),
		w:      w,
		outbox: NewOutbox(),
	}
	c.rd, _ = r.(readDeadliner)
	c.wd, _ = w.(writeDeadliner)
	return c, nil
}

// ReadLine returns the next raw line, terminator included.
func (c *Conn) ReadLine() ([]byte, error) {
	if err := c.armReadDeadline(); err != nil {
		return nil, err
	}
	return frame.ReadLine(c.r, c.cfg.Limits)
}

// readLineContext is ReadLine for a cancellable loop. Arming the per-read
// deadline can overwrite the past deadline a cancel just set, so ctx is
// checked again once the deadline is in place.
func (c *Conn) readLineContext(ctx context.Context) ([]byte, error) {
	if err := c.armReadDeadline(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return frame.ReadLine(c.r, c.cfg.Limits)
}

func (c *Conn) armReadDeadline() error {
	if c.rd == nil || c.cfg.ReadTimeout <= 0 {
		return nil
	}
	if err := c.rd.SetReadDeadline(time.Now().Add(c.cfg.ReadTimeout)); err != nil {
		return fmt.Errorf("session: set read deadline: %w", err)
	}
	return nil
}

// ReadMessage reads and decodes the next line. Decode failures, including
// protocol.ErrEmptyInput for blank lines, are returned as-is.
func (c *Conn) ReadMessage() (protocol.Message, error) {
	line, err := c.ReadLine()
	if err != nil && !(errors.Is(err, frame.ErrShortLine) && len(line) > 0) {
		return protocol.Message{}, err
	}
	msg, derr := protocol.Decode(line)
	observability.RecordDecode(len(line), derr)
	if derr != nil {
		return protocol.Message{}, derr
	}
	return msg, nil
}

// WriteMessage encodes msg and writes it with a CRLF terminator.
func (c *Conn) WriteMessage(msg protocol.Message) error {
	c.wmu.Lock()
	defer c.wmu.Unlock()
	return c.writeLocked(msg)
}

// Queue adds msgs to the outbox for a later Flush.
func (c *Conn) Queue(msgs ...protocol.Message) {
	c.outbox.Push(msgs...)
}

func (c *Conn) Pending() int {
	return c.outbox.Len()
}

// Flush writes every queued message in order. On a write error the failed
// message and everything after it are requeued.
func (c *Conn) Flush() error {
	c.wmu.Lock()
	defer c.wmu.Unlock()
	pending := c.outbox.Drain()
	for i, msg := range pending {
		if err := c.writeLocked(msg); err != nil {
			c.outbox.Requeue(pending[i:])
			return err
		}
	}
	return nil
}

func (c *Conn) writeLocked(msg protocol.Message) error {
	if err := msg.Validate(); err != nil {
		return err
	}
	if c.wd != nil && c.cfg.WriteTimeout > 0 {
		if err := c.wd.SetWriteDeadline(time.Now().Add(c.cfg.WriteTimeout)); err != nil {
			return fmt.Errorf("session: set write deadline: %w", err)
		}
	}
	line := protocol.AppendEncode(make([]byte, 0, 128), msg)
	if err := frame.WriteLine(c.w, line, c.cfg.Limits); err != nil {
		return err
	}
	observability.RecordEncode(len(line))
	return nil
}
