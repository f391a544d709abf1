package ir

// Version constants written alongside exported instances.
const (
	// FormatVersion is the canonical tree format version.
	FormatVersion = "1"

	// GeneratorVersion is the gqa generator version.
	GeneratorVersion = "0.1.0"
)
