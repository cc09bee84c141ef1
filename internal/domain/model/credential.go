package model

import (
	"encoding/json"
	"log/slog"
	"strings"
	"unicode/utf8"
)

const maskSuffix = "****"

// Secret wraps a credential value so that it is masked everywhere it is
// rendered: JSON, fmt and slog. Reveal is the only accessor for the raw value
// and is meant for store writes and the importer.
type Secret struct {
	value string
}

// NewSecret wraps a plaintext value.
func NewSecret(v string) Secret {
	return Secret{value: v}
}

// Reveal returns the plaintext value.
func (s Secret) Reveal() string {
	return s.value
}

// IsEmpty reports whether the wrapped value is blank.
func (s Secret) IsEmpty() bool {
	return strings.TrimSpace(s.value) == ""
}

// Masked returns the display form of the value.
func (s Secret) Masked() string {
	return Mask(s.value)
}

// String implements fmt.Stringer with the masked value.
func (s Secret) String() string {
	return s.Masked()
}

// LogValue implements slog.LogValuer with the masked value.
func (s Secret) LogValue() slog.Value {
	return slog.StringValue(s.Masked())
}

// MarshalJSON always emits the masked value.
func (s Secret) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Masked())
}

// UnmarshalJSON accepts a plaintext value from request bodies.
func (s *Secret) UnmarshalJSON(data []byte) error {
	var v string
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	s.value = v
	return nil
}

// Mask hides all but a short prefix of v. Values shorter than five runes are
// hidden entirely; longer values keep min(4, len/4) leading runes.
func Mask(v string) string {
	if v == "" {
		return ""
	}
	n := utf8.RuneCountInString(v)
	if n < 5 {
		return maskSuffix
	}
	keep := min(4, n/4)
	return string([]rune(v)[:keep]) + maskSuffix
}

// Credentials maps a credential field name ("token", "projectUrl") to its value.
type Credentials map[string]Secret

// CredentialsFromPlain wraps every value of m. Blank values are kept so that
// callers can still distinguish "sent empty" from "not sent".
func CredentialsFromPlain(m map[string]string) Credentials {
	if m == nil {
		return nil
	}
	out := make(Credentials, len(m))
	for k, v := range m {
		out[k] = NewSecret(v)
	}
	return out
}

// Plain returns the revealed values.
func (c Credentials) Plain() map[string]string {
	out := make(map[string]string, len(c))
	for k, v := range c {
		out[k] = v.Reveal()
	}
	return out
}

// Has reports whether field is present with a non-blank value.
func (c Credentials) Has(field string) bool {
	v, ok := c[field]
	return ok && !v.IsEmpty()
}

// Merge applies the non-blank values of incoming on top of c and reports
// whether any stored value changed. Blank incoming values never overwrite.
func (c Credentials) Merge(incoming Credentials) (Credentials, bool) {
	out := make(Credentials, len(c)+len(incoming))
	for k, v := range c {
		out[k] = v
	}
	changed := false
	for k, v := range incoming {
		if v.IsEmpty() {
			continue
		}
		if old, ok := out[k]; ok && old.Reveal() == v.Reveal() {
			continue
		}
		out[k] = v
		changed = true
	}
	return out, changed
}
