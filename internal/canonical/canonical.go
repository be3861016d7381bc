// Package canonical implements the deterministic JSON encoding spec §9
// requires for any payload entering a content-addressed or on-chain
// context: sorted keys, UTF-8, no insignificant whitespace. Go's
// encoding/json already sorts map[string]any keys (recursively, for nested
// maps) when marshaling, so canonicalization is a round-trip through that
// representation rather than a hand-rolled sorter.
package canonical

import (
	"bytes"
	"encoding/json"

	"github.com/onirigin/originals-engine/internal/enginerr"
)

// Encode marshals v as canonical JSON: object keys sorted lexicographically
// at every nesting level, no HTML-escaping substitutions, no trailing
// newline.
func Encode(v any) ([]byte, error) {
	var generic any
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, enginerr.Wrap(enginerr.InvalidInput, "marshaling payload", err)
	}
	if err := json.Unmarshal(raw, &generic); err != nil {
		return nil, enginerr.Wrap(enginerr.InvalidInput, "re-parsing payload for canonicalization", err)
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(generic); err != nil {
		return nil, enginerr.Wrap(enginerr.InvalidInput, "encoding canonical payload", err)
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
