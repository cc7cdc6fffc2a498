package threshold

import (
	"os"
	"strconv"
	"strings"
)

// EnvOverride names the environment variable that, when set to an integer,
// is applied with SetAll to the process-wide registry at startup.
const EnvOverride = "BUFARRAY_THRESHOLD"

// Process-wide registry, initialized once at package init and never torn down.
var defaultRegistry = NewRegistry()

func init() {
	if v := os.Getenv(EnvOverride); v != "" {
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil && n > 0 {
			defaultRegistry.SetAll(n)
		}
	}
}

// Default returns the process-wide registry.
func Default() *Registry {
	return defaultRegistry
}

// ClampMax lowers every threshold of the process-wide registry to at most value.
func ClampMax(value int) { defaultRegistry.ClampMax(value) }

// ClampMin raises every threshold of the process-wide registry to at least value.
func ClampMin(value int) { defaultRegistry.ClampMin(value) }

// SetAll sets every threshold of the process-wide registry to value.
func SetAll(value int) { defaultRegistry.SetAll(value) }
