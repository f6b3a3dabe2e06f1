package session

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/danmuck/ircwire/internal/observability"
	"github.com/danmuck/ircwire/internal/protocol"
	"github.com/danmuck/ircwire/internal/protocol/frame"
	"github.com/rs/zerolog/log"
)

// Handler receives the outcome of every non-blank line.
type Handler interface {
	HandleMessage(msg protocol.Message)
	// HandleError gets the raw line (nil for oversized lines) and the decode
	// or framing failure.
	HandleError(line []byte, err error)
}

// HandlerFuncs adapts plain functions to Handler. Nil funcs are skipped.
type HandlerFuncs struct {
	OnMessage func(msg protocol.Message)
	OnError   func(line []byte, err error)
}

func (h HandlerFuncs) HandleMessage(msg protocol.Message) {
	if h.OnMessage != nil {
		h.OnMessage(msg)
	}
}

func (h HandlerFuncs) HandleError(line []byte, err error) {
	if h.OnError != nil {
		h.OnError(line, err)
	}
}

// Dispatch reads lines from conn until EOF, a transport error, or ctx is
// done. Blank lines are skipped. Decode failures go to h.HandleError and the
// loop continues. A clean EOF returns nil.
func Dispatch(ctx context.Context, conn *Conn, h Handler) error {
	if conn.rd != nil {
		stop := context.AfterFunc(ctx, func() {
			_ = conn.rd.SetReadDeadline(time.Unix(1, 0))
		})
		defer stop()
	}

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		line, err := conn.readLineContext(ctx)
		switch {
		case err == nil:
		case errors.Is(err, frame.ErrShortLine):
			dispatchLine(line, h)
			return nil
		case errors.Is(err, frame.ErrLineTooLong):
			observability.RecordDecode(0, err)
			log.Warn().Err(err).Msg("session.Dispatch oversized line dropped")
			h.HandleError(nil, err)
			continue
		case errors.Is(err, io.EOF):
			return nil
		default:
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			return err
		}
		dispatchLine(line, h)
	}
}

func dispatchLine(line []byte, h Handler) {
	msg, err := protocol.Decode(line)
	observability.RecordDecode(len(line), err)
	switch {
	case err == nil:
		h.HandleMessage(msg)
	case errors.Is(err, protocol.ErrEmptyInput):
		log.Trace().Msg("session.Dispatch blank line skipped")
	default:
		event := log.Warn().Err(err).Str("kind", protocol.ErrorKind(err))
		if rest, ok := protocol.Remainder(err); ok {
			event = event.Str("remainder", rest)
		}
		event.Msg("session.Dispatch decode failed")
		h.HandleError(line, err)
	}
}
