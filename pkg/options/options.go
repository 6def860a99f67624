// Package options holds the process-wide configuration knobs of the
// polyhedral core. The only knob spec.md names is auto_data_mapping
// (spec.md §4.4, §6): whether a computation's access relation is
// automatically re-derived from its schedule after every transformation.
package options

import "sync/atomic"

// legacyAutoDataMapping is the process-wide default, set once before the
// first Function is constructed (spec.md §5). Reads are lock-free.
var legacyAutoDataMapping atomic.Bool

func init() {
	legacyAutoDataMapping.Store(true)
}

// SetAutoDataMapping installs the process-wide default for new Options
// values. It must be called before the first function is constructed and
// not changed thereafter (spec.md §5).
func SetAutoDataMapping(v bool) {
	legacyAutoDataMapping.Store(v)
}

// GetAutoDataMapping returns the current process-wide default.
func GetAutoDataMapping() bool {
	return legacyAutoDataMapping.Load()
}

// Options is an explicit configuration value threaded through Function
// construction, seeded from the process-wide legacy default but owned from
// then on by the function that captured it (spec.md §9: "the legacy global
// is preserved only as a default seed").
type Options struct {
	// AutoDataMapping mirrors spec.md §4.4: when true, every schedule
	// transformation re-derives the access relation by composing the
	// identity access with the current schedule.
	AutoDataMapping bool
}

// Default returns an Options value seeded from the current process-wide
// default.
func Default() Options {
	return Options{AutoDataMapping: GetAutoDataMapping()}
}
