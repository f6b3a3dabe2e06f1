package protocol

import "strings"

// Source is the parsed form of a message source, "nick!user@host".
type Source struct {
	Nick string
	User string
	Host string
}

// ParseSource splits a source token into its parts. A bare token with a dot is
// taken as a server name, otherwise as a nickname.
func ParseSource(raw string) Source {
	var s Source
	rest := raw
	if at := strings.IndexByte(rest, '@'); at >= 0 {
		s.Host = rest[at+1:]
		rest = rest[:at]
	} else if !strings.ContainsRune(rest, '!') {
		if strings.ContainsRune(rest, '.') {
			s.Host = rest
		} else {
			s.Nick = rest
		}
		return s
	}
	if bang := strings.IndexByte(rest, '!'); bang >= 0 {
		s.User = rest[bang+1:]
		rest = rest[:bang]
	}
	s.Nick = rest
	return s
}

// String rebuilds the source token.
func (s Source) String() string {
	var b strings.Builder
	b.WriteString(s.Nick)
	if s.User != "" {
		b.WriteByte('!')
		b.WriteString(s.User)
	}
	if s.Host != "" {
		if b.Len() > 0 {
			b.WriteByte('@')
		}
		b.WriteString(s.Host)
	}
	return b.String()
}
