package ports

import "github.com/randomtoy/oura/internal/domain"

// Localizer renders keyed messages in one locale.
type Localizer interface {
	Locale() string
	Text(m domain.Message) string
}
