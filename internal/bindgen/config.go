package bindgen

// Version is the gbindgen release.
const Version = "0.1.0"

// Config holds the settings the generator formats a header with.
type Config struct {
	// Header is emitted verbatim at the top of the file.
	Header string
	// TabWidth is the number of spaces an indentation level expands to.
	TabWidth int
	// SysIncludes are emitted as #include <...> after the standard ones.
	SysIncludes []string
	// AfterIncludes is emitted verbatim after all includes.
	AfterIncludes string
}

// DefaultTabWidth is the indentation width used when none is set.
const DefaultTabWidth = 2

// DefaultConfig returns the default generator settings.
func DefaultConfig() Config {
	return Config{TabWidth: DefaultTabWidth}
}
