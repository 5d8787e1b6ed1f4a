// Package uid provides identifier generators: UUIDs for correlation and
// token IDs, snowflakes for sortable numeric row IDs.
package uid

// StringID generates string identifiers.
type StringID interface {
	Generate() string
}

// NumberID generates int64 identifiers.
type NumberID interface {
	Generate() int64
}
