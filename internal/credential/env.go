package credential

import (
	"os"
	"strings"
)

// EnvSource reads secrets from environment variables.
type EnvSource struct {
	lookup func(string) (string, bool)
}

// NewEnvSource creates a source over the process environment.
func NewEnvSource() EnvSource {
	return EnvSource{lookup: os.LookupEnv}
}

func (EnvSource) Name() string { return "environment" }

func (s EnvSource) Lookup(name string) (string, bool) {
	key := strings.TrimSpace(name)
	if key == "" {
		return "", false
	}

	lookup := s.lookup
	if lookup == nil {
		lookup = os.LookupEnv
	}

	return lookup(key)
}

// Store always fails; the environment is read-only.
func (EnvSource) Store(string, string) error {
	return ErrReadOnly
}
