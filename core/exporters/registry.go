package exporters

import (
	"fmt"
	"sort"
	"strings"
)

type Factory func() Exporter

var registry = map[string]Factory{}

func normalizeFormat(format string) string {
	return strings.ToLower(strings.TrimSpace(format))
}

func Register(format string, factory Factory) error {
	format = normalizeFormat(format)
	if format == "" {
		return fmt.Errorf("exporter: empty format name")
	}
	if _, exists := registry[format]; exists {
		return fmt.Errorf("exporter: format %q already registered", format)
	}
	registry[format] = factory
	return nil
}

func MustRegister(format string, factory Factory) {
	if err := Register(format, factory); err != nil {
		panic(err)
	}
}

// Get returns a fresh exporter for format. Lookup is case-insensitive.
func Get(format string) (Exporter, error) {
	factory, ok := registry[normalizeFormat(format)]
	if !ok {
		return nil, fmt.Errorf("unsupported format: %q (available: %s)",
			format, strings.Join(List(), ", "))
	}
	return factory(), nil
}

// List returns the registered format names, sorted.
func List() []string {
	formats := make([]string, 0, len(registry))
	for name := range registry {
		formats = append(formats, name)
	}
	sort.Strings(formats)
	return formats
}
