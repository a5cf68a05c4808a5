package canon

import (
	"fmt"

	"github.com/goccy/go-yaml"
)

// Decode parses a YAML or JSON snapshot into the canonical model.
// Plain YYYY-MM-DD strings stay strings; date scalars only arise from
// time.Time conversion or the tagged wire form, so a decoded snapshot
// never guesses at dates.
func Decode(data []byte) (*Value, error) {
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decoding snapshot: %w", err)
	}
	return FromGo(raw)
}
