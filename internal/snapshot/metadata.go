package snapshot

import (
	"encoding/json"
	"fmt"
)

// Metadata pairs an identifier with automatically collected stats and
// opaque user-supplied metadata. One record exists per persisted
// snapshot and is the source of truth for locating its data object.
type Metadata struct {
	Identifier Identifier
	Stats      map[string]any
	Meta       map[string]any
}

// metadataJSON is the canonical wire shape.
type metadataJSON struct {
	Identifier string         `json:"identifier"`
	Stats      map[string]any `json:"stats"`
	Metadata   map[string]any `json:"metadata"`
}

// MarshalJSON encodes the record with the identifier in its bare key
// form (no extension).
func (m Metadata) MarshalJSON() ([]byte, error) {
	stats := m.Stats
	if stats == nil {
		stats = map[string]any{}
	}
	meta := m.Meta
	if meta == nil {
		meta = map[string]any{}
	}

	return json.Marshal(metadataJSON{
		Identifier: m.Identifier.Encode(""),
		Stats:      stats,
		Metadata:   meta,
	})
}

// UnmarshalJSON decodes the canonical form. User metadata and stats are
// round-tripped verbatim.
func (m *Metadata) UnmarshalJSON(data []byte) error {
	var raw metadataJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("failed to decode metadata: %w", err)
	}

	id, err := parseKey(raw.Identifier, raw.Identifier)
	if err != nil {
		return err
	}

	m.Identifier = id
	m.Stats = raw.Stats
	m.Meta = raw.Metadata
	return nil
}
