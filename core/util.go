package core

import (
	"strings"

	"github.com/pkg/errors"
)

// CleanString trims all leading and trailing whitespace in `s` and optionally lowers it.
func CleanString(s string, lower ...bool) string {
	s = strings.TrimSpace(s)
	if len(lower) > 0 && lower[0] {
		return strings.ToLower(s)
	}
	return s
}

// ParseParams parses `key=value` pairs, eg. from command line arguments.
func ParseParams(args []string) (map[string]string, error) {
	params := make(map[string]string, len(args))
	for _, arg := range args {
		parts := strings.SplitN(arg, "=", 2)
		if len(parts) != 2 || CleanString(parts[0]) == "" {
			return nil, errors.Errorf("invalid parameter %q (expected key=value)", arg)
		}
		params[CleanString(parts[0])] = CleanString(parts[1])
	}
	return params, nil
}
