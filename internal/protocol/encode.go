package protocol

import "strings"

// Encode returns the wire text for m without a line terminator. Every Message
// encodes; use Validate to check that the result decodes back to m.
func Encode(m Message) string {
	var b strings.Builder
	b.Grow(encodedLen(m))
	if m.Source != "" {
		b.WriteByte(sourceMarker)
		b.WriteString(m.Source)
		b.WriteByte(space)
	}
	b.WriteString(m.Verb.String())
	last := len(m.Params) - 1
	for i, p := range m.Params {
		b.WriteByte(space)
		if i == last {
			b.WriteByte(trailingMarker)
		}
		b.WriteString(p)
	}
	return b.String()
}

// AppendEncode appends the wire text for m to dst.
func AppendEncode(dst []byte, m Message) []byte {
	if m.Source != "" {
		dst = append(dst, sourceMarker)
		dst = append(dst, m.Source...)
		dst = append(dst, space)
	}
	dst = append(dst, m.Verb.String()...)
	last := len(m.Params) - 1
	for i, p := range m.Params {
		dst = append(dst, space)
		if i == last {
			dst = append(dst, trailingMarker)
		}
		dst = append(dst, p...)
	}
	return dst
}

func encodedLen(m Message) int {
	n := len(m.Verb.String())
	if m.Source != "" {
		n += len(m.Source) + 2
	}
	for _, p := range m.Params {
		n += len(p) + 1
	}
	if len(m.Params) > 0 {
		n++
	}
	return n
}
