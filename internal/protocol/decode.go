package protocol

import (
	"strings"
	"unicode/utf8"
)

const (
	sourceMarker   = ':'
	trailingMarker = ':'
	space          = ' '
	terminators    = "\r\n"
)

// Decode parses one protocol line. The input is copied once; the returned
// Message does not alias b.
func Decode(b []byte) (Message, error) {
	if !utf8.Valid(b) {
		return Message{}, ErrInvalidEncoding
	}
	return decode(string(b))
}

// DecodeString is Decode for input that is already a string.
func DecodeString(line string) (Message, error) {
	if !utf8.ValidString(line) {
		return Message{}, ErrInvalidEncoding
	}
	return decode(line)
}

func decode(line string) (Message, error) {
	line = strings.TrimRight(line, terminators)
	line = strings.TrimLeft(line, " ")
	if line == "" {
		return Message{}, ErrEmptyInput
	}

	source, rest, err := parseSource(line)
	if err != nil {
		return Message{}, err
	}
	verb, rest, err := parseVerb(rest)
	if err != nil {
		return Message{}, err
	}
	return Message{
		Source: source,
		Verb:   verb,
		Params: parseParams(rest),
	}, nil
}

// parseSource consumes ":token " from the front of line.
func parseSource(line string) (string, string, error) {
	if line[0] != sourceMarker {
		return "", line, nil
	}
	sep := strings.IndexByte(line, space)
	if sep <= 1 {
		return "", line, &MalformedSourceError{Remainder: line}
	}
	return line[1:sep], line[sep+1:], nil
}

// parseVerb consumes the verb token and one following space. On failure the
// input is returned untouched inside the error.
func parseVerb(line string) (Verb, string, error) {
	token, rest := line, ""
	if sep := strings.IndexByte(line, space); sep >= 0 {
		token, rest = line[:sep], line[sep+1:]
	}
	verb, err := ClassifyVerb(token)
	if err != nil {
		return Verb{}, line, &UnknownCommandError{Verb: token, Remainder: line}
	}
	return verb, rest, nil
}

// parseParams splits the remainder into middle params and, when a trailing
// marker is present, one verbatim trailing param.
func parseParams(rest string) []string {
	if rest == "" {
		return nil
	}
	idx := strings.IndexByte(rest, trailingMarker)
	if idx < 0 {
		return splitSpaces(rest, nil)
	}
	params := splitSpaces(rest[:idx], make([]string, 0, 4))
	return append(params, rest[idx+1:])
}

func splitSpaces(s string, out []string) []string {
	for s != "" {
		sep := strings.IndexByte(s, space)
		if sep < 0 {
			return append(out, s)
		}
		if sep > 0 {
			out = append(out, s[:sep])
		}
		s = s[sep+1:]
	}
	return out
}
