package protocol

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Message is one protocol line in structured form.
type Message struct {
	// Source is the sender identity, e.g. "nick!user@host". Empty means the
	// line had no source.
	Source string

	Verb Verb

	// Params are positional; the last one is the trailing parameter and is
	// always written with the trailing marker.
	Params []string
}

// NewMessage builds a Message without a source.
func NewMessage(verb Verb, params ...string) Message {
	return Message{Verb: verb, Params: params}
}

func (m Message) HasSource() bool {
	return m.Source != ""
}

// Param returns the i-th parameter.
func (m Message) Param(i int) (string, bool) {
	if i < 0 || i >= len(m.Params) {
		return "", false
	}
	return m.Params[i], true
}

// Trailing returns the last parameter.
func (m Message) Trailing() (string, bool) {
	return m.Param(len(m.Params) - 1)
}

// SourceNick returns the nickname portion of the source, if any.
func (m Message) SourceNick() string {
	return ParseSource(m.Source).Nick
}

// Equal compares two messages field by field. Nil and empty Params are equal.
func (m Message) Equal(other Message) bool {
	if m.Source != other.Source || m.Verb != other.Verb || len(m.Params) != len(other.Params) {
		return false
	}
	for i := range m.Params {
		if m.Params[i] != other.Params[i] {
			return false
		}
	}
	return true
}

func (m Message) String() string {
	return fmt.Sprintf("Source [%s] Verb [%s] Params%q", m.Source, m.Verb, m.Params)
}

// Validate reports whether m survives Encode, line framing and Decode
// unchanged. Encode itself accepts any Message.
func (m Message) Validate() error {
	if !m.Verb.Valid() {
		return fmt.Errorf("%w: invalid verb %q", ErrInvalidMessage, m.Verb.String())
	}
	if m.Source != "" {
		if !utf8.ValidString(m.Source) {
			return fmt.Errorf("%w: source is not utf-8", ErrInvalidMessage)
		}
		if strings.ContainsAny(m.Source, " \r\n") {
			return fmt.Errorf("%w: source %q contains a separator", ErrInvalidMessage, m.Source)
		}
	}
	last := len(m.Params) - 1
	for i, p := range m.Params {
		if !utf8.ValidString(p) {
			return fmt.Errorf("%w: param %d is not utf-8", ErrInvalidMessage, i)
		}
		if strings.ContainsAny(p, "\r\n") {
			return fmt.Errorf("%w: param %d contains a line break", ErrInvalidMessage, i)
		}
		if i == last {
			continue
		}
		if p == "" {
			return fmt.Errorf("%w: param %d is empty", ErrInvalidMessage, i)
		}
		if strings.ContainsAny(p, " :") {
			return fmt.Errorf("%w: param %d %q contains space or colon", ErrInvalidMessage, i, p)
		}
	}
	return nil
}
