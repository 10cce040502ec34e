package snapshot

import (
	"encoding/json"
	"reflect"
	"testing"
	"time"
)

func TestMetadata_MarshalShape(t *testing.T) {
	id := mustNewAt(t, []string{"table_a", "table_b"}, time.Date(2016, 2, 1, 0, 0, 0, 0, time.UTC))

	m := Metadata{
		Identifier: id,
		Meta:       map[string]any{"my": "metadata"},
	}

	data, err := json.Marshal(m)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("Unmarshal(raw) error = %v", err)
	}

	if raw["identifier"] != "table_a-->table_b.20160201-000000" {
		t.Errorf("identifier = %v", raw["identifier"])
	}
	if !reflect.DeepEqual(raw["stats"], map[string]any{}) {
		t.Errorf("stats = %v, want empty object", raw["stats"])
	}
	if !reflect.DeepEqual(raw["metadata"], map[string]any{"my": "metadata"}) {
		t.Errorf("metadata = %v", raw["metadata"])
	}
}

func TestMetadata_RoundTrip(t *testing.T) {
	id := mustNewAt(t, []string{"users", "orders"}, time.Date(2024, 3, 4, 5, 6, 7, 0, time.UTC))

	tests := []struct {
		name  string
		stats map[string]any
		meta  map[string]any
	}{
		{
			name:  "empty payloads",
			stats: map[string]any{},
			meta:  map[string]any{},
		},
		{
			name:  "scalar stats",
			stats: map[string]any{"users": float64(42), "orders": float64(7)},
			meta:  map[string]any{"my": "metadata"},
		},
		{
			name:  "nested user metadata",
			stats: map[string]any{"dump_size_bytes": float64(1024)},
			meta: map[string]any{
				"labels": map[string]any{"env": "prod", "shard": float64(3)},
				"tags":   []any{"nightly", "pre-migration"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := Metadata{Identifier: id, Stats: tt.stats, Meta: tt.meta}

			data, err := json.Marshal(in)
			if err != nil {
				t.Fatalf("Marshal() error = %v", err)
			}

			var out Metadata
			if err := json.Unmarshal(data, &out); err != nil {
				t.Fatalf("Unmarshal() error = %v", err)
			}

			if !out.Identifier.Equal(in.Identifier) {
				t.Errorf("identifier = %v, want %v", out.Identifier, in.Identifier)
			}
			if !reflect.DeepEqual(out.Stats, tt.stats) {
				t.Errorf("stats = %v, want %v", out.Stats, tt.stats)
			}
			if !reflect.DeepEqual(out.Meta, tt.meta) {
				t.Errorf("metadata = %v, want %v", out.Meta, tt.meta)
			}
		})
	}
}

func TestMetadata_UnmarshalBadIdentifier(t *testing.T) {
	var m Metadata
	err := json.Unmarshal([]byte(`{"identifier":"users.nope","stats":{},"metadata":{}}`), &m)
	if err == nil {
		t.Fatal("Unmarshal() with bad identifier succeeded")
	}
}
