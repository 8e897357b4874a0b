package security

import (
	"encoding/json"
	"strings"

	"github.com/rs/zerolog"
)

const maskedVisible = 4

// Credential is an API key supplied by the user for a single analysis.
// It is held in memory only; every rendering path prints a masked form.
type Credential struct {
	value string
}

// NewCredential wraps a raw key, trimming surrounding whitespace.
func NewCredential(raw string) Credential {
	return Credential{value: strings.TrimSpace(raw)}
}

// Reveal returns the raw key. Only outbound clients should call it.
func (c Credential) Reveal() string {
	return c.value
}

// IsZero reports whether no key was supplied.
func (c Credential) IsZero() bool {
	return c.value == ""
}

// String implements fmt.Stringer with a masked value.
func (c Credential) String() string {
	return Mask(c.value)
}

// GoString keeps %#v from printing the raw struct field.
func (c Credential) GoString() string {
	return "security.Credential(" + c.String() + ")"
}

// MarshalJSON renders the masked value.
func (c Credential) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}

// MarshalZerologObject lets the credential be passed as a zerolog field.
func (c Credential) MarshalZerologObject(e *zerolog.Event) {
	e.Str("masked", c.String()).Bool("set", !c.IsZero())
}

// Mask returns s with everything past the first few characters replaced
// by asterisks. Short values are fully masked.
func Mask(s string) string {
	if s == "" {
		return ""
	}
	if len(s) <= maskedVisible*2 {
		return "****"
	}
	return s[:maskedVisible] + "****"
}
