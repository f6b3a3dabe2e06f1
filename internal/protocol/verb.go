package protocol

// VerbKind tags which case of Verb is populated.
type VerbKind uint8

const (
	VerbNone VerbKind = iota
	VerbNamed
	VerbNumeric
)

func (k VerbKind) String() string {
	switch k {
	case VerbNamed:
		return "named"
	case VerbNumeric:
		return "numeric"
	default:
		return "none"
	}
}

// Verb is either a named Command or a numeric reply code kept verbatim.
// The zero Verb is empty and never produced by Decode.
type Verb struct {
	kind    VerbKind
	command Command
	code    string
}

// Named returns a Verb for cmd.
func Named(cmd Command) Verb {
	return Verb{kind: VerbNamed, command: cmd}
}

// Numeric returns a Verb holding code as-is.
func Numeric(code string) Verb {
	return Verb{kind: VerbNumeric, code: code}
}

func (v Verb) Kind() VerbKind {
	return v.kind
}

// Command returns the named command, ok is false for numeric verbs.
func (v Verb) Command() (Command, bool) {
	return v.command, v.kind == VerbNamed
}

// Code returns the numeric text, ok is false for named verbs.
func (v Verb) Code() (string, bool) {
	return v.code, v.kind == VerbNumeric
}

// Is reports whether v is the named command cmd.
func (v Verb) Is(cmd Command) bool {
	return v.kind == VerbNamed && v.command == cmd
}

func (v Verb) IsZero() bool {
	return v.kind == VerbNone
}

// String returns the verb's wire text.
func (v Verb) String() string {
	switch v.kind {
	case VerbNamed:
		return v.command.String()
	case VerbNumeric:
		return v.code
	default:
		return ""
	}
}

// Valid reports whether v encodes to a token Decode classifies back to v.
func (v Verb) Valid() bool {
	switch v.kind {
	case VerbNamed:
		return v.command.Valid()
	case VerbNumeric:
		return isNumeric(v.code)
	default:
		return false
	}
}

// ClassifyVerb resolves a verb token: all-digit tokens are numeric, anything
// else must be a named command or the result is ErrUnknownCommand.
func ClassifyVerb(token string) (Verb, error) {
	if isNumeric(token) {
		return Numeric(token), nil
	}
	if cmd, ok := LookupCommand(token); ok {
		return Named(cmd), nil
	}
	return Verb{}, ErrUnknownCommand
}

func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
