package ports

import "io"

// ReadingDocument is a reading rendered to display text.
type ReadingDocument struct {
	Locale  string         `json:"locale"`
	Title   string         `json:"title"`
	Spread  string         `json:"spread"`
	Cards   []CardDocument `json:"cards"`
	Summary string         `json:"summary"`
	Advice  string         `json:"advice"`

	Headings Headings `json:"-"`
}

// Headings are the localized section labels of a rendered reading.
type Headings struct {
	Position       string
	Card           string
	Category       string
	Interpretation string
	Summary        string
	Advice         string
}

// CardDocument is one position of a rendered reading.
type CardDocument struct {
	Index          int    `json:"index"`
	Position       string `json:"position"`
	CardID         string `json:"card_id"`
	Card           string `json:"card"`
	Category       string `json:"category"`
	Image          string `json:"image"`
	Interpretation string `json:"interpretation"`
}

// ReadingWriter serializes a rendered reading.
type ReadingWriter interface {
	ContentType() string
	Write(w io.Writer, doc ReadingDocument) error
}
