// Package snapshot defines the identifier and metadata model for table snapshots.
package snapshot

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	// TableSeparator joins table names in the canonical encoding.
	TableSeparator = "-->"

	// MetadataExt is the extension for metadata entries.
	MetadataExt = "metadata"

	// SnapshotExt is the extension for snapshot data entries.
	SnapshotExt = "snapshot"

	// timeLayout is the capture-time format in encoded identifiers.
	timeLayout = "20060102-150405"
)

var (
	// ErrInvalidArgument indicates an empty or unusable table name list.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrMalformedIdentifier indicates a stored filename that cannot be
	// parsed back into an identifier.
	ErrMalformedIdentifier = errors.New("malformed identifier")
)

// Identifier names one snapshot: the ordered set of table names plus the
// UTC capture time, second precision. Identifiers are immutable once
// created.
type Identifier struct {
	tableNames []string
	capturedAt time.Time
}

// New creates an identifier for the given tables captured now.
func New(tableNames []string) (Identifier, error) {
	return NewAt(tableNames, time.Now())
}

// NewAt creates an identifier with an explicit capture time.
//
// Table names containing the separator, a dot, or a path separator are
// rejected because the canonical encoding cannot represent them
// unambiguously.
func NewAt(tableNames []string, at time.Time) (Identifier, error) {
	if len(tableNames) == 0 {
		return Identifier{}, fmt.Errorf("%w: at least one table name is required", ErrInvalidArgument)
	}

	for _, name := range tableNames {
		if name == "" {
			return Identifier{}, fmt.Errorf("%w: empty table name", ErrInvalidArgument)
		}
		if strings.Contains(name, TableSeparator) ||
			strings.ContainsAny(name, "./") {
			return Identifier{}, fmt.Errorf("%w: table name %q contains a reserved character", ErrInvalidArgument, name)
		}
	}

	names := make([]string, len(tableNames))
	copy(names, tableNames)

	return Identifier{
		tableNames: names,
		capturedAt: at.UTC().Truncate(time.Second),
	}, nil
}

// TableNames returns a copy of the table names, in capture order.
func (id Identifier) TableNames() []string {
	names := make([]string, len(id.tableNames))
	copy(names, id.tableNames)
	return names
}

// CapturedAt returns the UTC capture time.
func (id Identifier) CapturedAt() time.Time {
	return id.capturedAt
}

// Encode renders the canonical form:
//
//	<tables joined by "-->">.<YYYYMMDD-HHmmss>.<ext>
//
// An empty ext yields the bare key form with no trailing separator.
func (id Identifier) Encode(ext string) string {
	var b strings.Builder
	b.WriteString(strings.Join(id.tableNames, TableSeparator))
	b.WriteString(".")
	b.WriteString(id.capturedAt.Format(timeLayout))
	if ext != "" {
		b.WriteString(".")
		b.WriteString(ext)
	}
	return b.String()
}

// Equal reports whether two identifiers name the same snapshot.
func (id Identifier) Equal(other Identifier) bool {
	if len(id.tableNames) != len(other.tableNames) {
		return false
	}
	for i := range id.tableNames {
		if id.tableNames[i] != other.tableNames[i] {
			return false
		}
	}
	return id.capturedAt.Equal(other.capturedAt)
}

// String implements fmt.Stringer with the bare key form.
func (id Identifier) String() string {
	return id.Encode("")
}

// Parse reconstructs an identifier from a stored filename. The extension
// is split off at the last dot, then the capture time at the last dot of
// the remainder.
func Parse(filename string) (Identifier, error) {
	rest, _, ok := splitLast(filename, ".")
	if !ok {
		return Identifier{}, fmt.Errorf("%w: %q has no extension", ErrMalformedIdentifier, filename)
	}
	return parseKey(rest, filename)
}

// ParseKey reconstructs an identifier from its bare key form, i.e. the
// canonical encoding with no extension.
func ParseKey(key string) (Identifier, error) {
	return parseKey(key, key)
}

// parseKey parses the extension-less form "<tables>.<timestamp>".
// original is only used for error messages.
func parseKey(key, original string) (Identifier, error) {
	names, stamp, ok := splitLast(key, ".")
	if !ok {
		return Identifier{}, fmt.Errorf("%w: %q has no capture time", ErrMalformedIdentifier, original)
	}

	capturedAt, err := time.ParseInLocation(timeLayout, stamp, time.UTC)
	if err != nil {
		return Identifier{}, fmt.Errorf("%w: %q: bad capture time: %v", ErrMalformedIdentifier, original, err)
	}

	if names == "" {
		return Identifier{}, fmt.Errorf("%w: %q has no table names", ErrMalformedIdentifier, original)
	}

	return Identifier{
		tableNames: strings.Split(names, TableSeparator),
		capturedAt: capturedAt,
	}, nil
}

// splitLast splits s at the last occurrence of sep.
func splitLast(s, sep string) (before, after string, found bool) {
	i := strings.LastIndex(s, sep)
	if i < 0 {
		return s, "", false
	}
	return s[:i], s[i+len(sep):], true
}
