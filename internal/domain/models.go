package domain

// RNG abstracts random number generation for deterministic testing.
type RNG interface {
	// Intn returns a non-negative random int in [0, n).
	Intn(n int) int
}

// Message is a localizable piece of text. The core never carries display
// strings: it selects a key and the localization adapter renders it.
// A Message with an empty Key is a literal and renders as Text.
type Message struct {
	Key    string             `json:"key,omitempty"`
	Text   string             `json:"text,omitempty"`
	Params map[string]Message `json:"params,omitempty"`
}

// Msg returns a keyed message without parameters.
func Msg(key string) Message {
	return Message{Key: key}
}

// Literal returns a message that renders verbatim.
func Literal(text string) Message {
	return Message{Text: text}
}

// With returns a copy of m with the named parameter set.
func (m Message) With(name string, v Message) Message {
	params := make(map[string]Message, len(m.Params)+1)
	for k, p := range m.Params {
		params[k] = p
	}
	params[name] = v
	m.Params = params
	return m
}
