// Package frame delimits protocol lines on a byte stream. Readers hand back
// each raw line with its terminator untouched; writers always append CRLF.
package frame

import (
	"bufio"
	"bytes"
	"errors"
	"io"
)

const (
	// DefaultMaxLineBytes is the classic line limit, CRLF included.
	DefaultMaxLineBytes = 512

	Terminator = "\r\n"
)

var (
	ErrLineTooLong     = errors.New("frame: line exceeds limit")
	ErrShortLine       = errors.New("frame: unterminated final line")
	ErrEmbeddedNewline = errors.New("frame: line contains CR or LF")
)

// Limits constrains line size in both directions. Zero means unlimited.
type Limits struct {
	MaxLineBytes int
}

func DefaultLimits() Limits {
	return Limits{MaxLineBytes: DefaultMaxLineBytes}
}

// ReadLine returns the next line including its "\n" (and any "\r").
// An oversized line is consumed through its terminator and reported as
// ErrLineTooLong so the stream stays aligned. A trailing fragment without a
// terminator is returned together with ErrShortLine.
func ReadLine(r *bufio.Reader, limits Limits) ([]byte, error) {
	var line []byte
	for {
		chunk, err := r.ReadSlice('\n')
		line = append(line, chunk...)
		if limits.MaxLineBytes > 0 && len(line) > limits.MaxLineBytes {
			if err == nil || errors.Is(err, io.EOF) {
				return nil, ErrLineTooLong
			}
			if derr := discardLine(r); derr != nil && !errors.Is(derr, io.EOF) {
				return nil, derr
			}
			return nil, ErrLineTooLong
		}
		switch {
		case err == nil:
			return line, nil
		case errors.Is(err, bufio.ErrBufferFull):
			continue
		case errors.Is(err, io.EOF):
			if len(line) == 0 {
				return nil, io.EOF
			}
			return line, ErrShortLine
		default:
			return nil, err
		}
	}
}

func discardLine(r *bufio.Reader) error {
	for {
		_, err := r.ReadSlice('\n')
		if err == nil {
			return nil
		}
		if !errors.Is(err, bufio.ErrBufferFull) {
			return err
		}
	}
}

// WriteLine writes line followed by CRLF in a single Write call.
func WriteLine(w io.Writer, line []byte, limits Limits) error {
	if bytes.ContainsAny(line, Terminator) {
		return ErrEmbeddedNewline
	}
	if limits.MaxLineBytes > 0 && len(line)+len(Terminator) > limits.MaxLineBytes {
		return ErrLineTooLong
	}
	buf := make([]byte, 0, len(line)+len(Terminator))
	buf = append(buf, line...)
	buf = append(buf, Terminator...)
	_, err := w.Write(buf)
	return err
}
