package credential

import (
	"errors"
	"strings"
)

// Well-known secret names. Each can be set as an environment variable or
// stored in the credentials file.
const (
	SSHPassword   = "JVM_WIRE_SSH_PASSWORD"
	SSHKeyFile    = "JVM_WIRE_SSH_KEY_FILE"
	WinRMPassword = "JVM_WIRE_WINRM_PASSWORD"
)

// Known describes the secret names the wizard looks up.
var Known = map[string]string{
	SSHPassword:   "SSH password for Linux and AIX hosts",
	SSHKeyFile:    "Path to the SSH private key for Linux and AIX hosts",
	WinRMPassword: "WinRM password for Windows hosts",
}

// ErrReadOnly is returned by sources that cannot persist values.
var ErrReadOnly = errors.New("credential source is read-only")

// Source is a place secrets can be looked up by name.
type Source interface {
	Name() string
	Lookup(name string) (string, bool)
	Store(name string, value string) error
}

// Resolution is a value found by a Resolver, with the source it came from.
type Resolution struct {
	Value  string
	Source string
}

// Resolver checks sources in order and returns the first non-empty value.
type Resolver struct {
	sources []Source
}

// NewResolver creates a resolver over sources, in priority order. Nil
// sources are skipped.
func NewResolver(sources ...Source) *Resolver {
	r := &Resolver{}
	for _, src := range sources {
		if src != nil {
			r.sources = append(r.sources, src)
		}
	}

	return r
}

// Resolve looks name up in each source.
func (r *Resolver) Resolve(name string) (Resolution, bool) {
	key := strings.TrimSpace(name)
	if r == nil || key == "" {
		return Resolution{}, false
	}

	for _, src := range r.sources {
		value, ok := src.Lookup(key)
		if !ok || strings.TrimSpace(value) == "" {
			continue
		}

		return Resolution{Value: value, Source: src.Name()}, true
	}

	return Resolution{}, false
}

// Value is Resolve without the source name.
func (r *Resolver) Value(name string) string {
	res, _ := r.Resolve(name)
	return res.Value
}
