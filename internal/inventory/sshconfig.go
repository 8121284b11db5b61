package inventory

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/kevinburke/ssh_config"
)

const defaultSSHPort = 22

// SSHHost is a concrete host entry found in an OpenSSH client config.
type SSHHost struct {
	Alias    string
	Hostname string
	User     string
	Port     int
	KeyPath  string
}

// Address returns the host as it should appear in an inventory. Non-default
// ports are appended as host:port.
func (h SSHHost) Address() string {
	if h.Port != 0 && h.Port != defaultSSHPort {
		return h.Hostname + ":" + strconv.Itoa(h.Port)
	}

	return h.Hostname
}

// DefaultSSHConfigPath returns ~/.ssh/config.
func DefaultSSHConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get user home directory: %w", err)
	}

	return filepath.Join(homeDir, ".ssh", "config"), nil
}

// LoadSSHConfig reads host entries from the config at path. A missing file
// yields no hosts.
func LoadSSHConfig(path string) ([]SSHHost, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}

		return nil, fmt.Errorf("open ssh config %q: %w", path, err)
	}
	defer f.Close()

	hosts, err := DecodeSSHConfig(f)
	if err != nil {
		return nil, fmt.Errorf("parse ssh config %q: %w", path, err)
	}

	return hosts, nil
}

// DecodeSSHConfig returns every non-wildcard Host entry in r, in file order.
// HostName falls back to the alias; settings from matching wildcard blocks
// apply.
func DecodeSSHConfig(r io.Reader) ([]SSHHost, error) {
	cfg, err := ssh_config.Decode(r)
	if err != nil {
		return nil, err
	}

	var hosts []SSHHost
	seen := make(map[string]bool)

	for _, host := range cfg.Hosts {
		for _, pattern := range host.Patterns {
			alias := pattern.String()
			if alias == "" || strings.ContainsAny(alias, "*?!") || seen[alias] {
				continue
			}
			seen[alias] = true

			hostname, _ := cfg.Get(alias, "HostName")
			user, _ := cfg.Get(alias, "User")
			portValue, _ := cfg.Get(alias, "Port")
			keyPath, _ := cfg.Get(alias, "IdentityFile")

			if hostname == "" {
				hostname = alias
			}

			port := defaultSSHPort
			if portValue != "" {
				if p, err := strconv.Atoi(portValue); err == nil {
					port = p
				}
			}

			hosts = append(hosts, SSHHost{
				Alias:    alias,
				Hostname: hostname,
				User:     user,
				Port:     port,
				KeyPath:  expandHome(keyPath),
			})
		}
	}

	return hosts, nil
}

// Addresses returns the inventory addresses of hosts.
func Addresses(hosts []SSHHost) []string {
	out := make([]string, 0, len(hosts))
	for _, h := range hosts {
		out = append(out, h.Address())
	}

	return out
}

func expandHome(path string) string {
	if !strings.HasPrefix(path, "~/") {
		return path
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return path
	}

	return filepath.Join(homeDir, path[2:])
}
