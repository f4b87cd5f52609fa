package logger

// ErrorEntry exposes errorEntry fields for black-box tests.
type ErrorEntry struct {
	Message  string
	Metadata map[string]any
}

// CollectErrorEntries exports collectErrorEntries.
func CollectErrorEntries(err error) []ErrorEntry {
	entries := collectErrorEntries(err)
	if entries == nil {
		return nil
	}
	out := make([]ErrorEntry, len(entries))
	for i, e := range entries {
		out[i] = ErrorEntry{Message: e.message, Metadata: e.metadata}
	}
	return out
}

// FormatError renders err the way Logger.Error does in pretty mode.
func FormatError(err error) string {
	return formatErrorEntries(collectErrorEntries(err))
}
