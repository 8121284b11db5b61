package credential

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/crypto/ssh"
)

// KeyInfo describes an SSH private key file without exposing it.
type KeyInfo struct {
	Path        string
	Type        string
	Fingerprint string
	Encrypted   bool
}

// String returns a one-line description for summaries.
func (k KeyInfo) String() string {
	var parts []string
	if k.Type != "" {
		parts = append(parts, k.Type)
	}
	if k.Fingerprint != "" {
		parts = append(parts, k.Fingerprint)
	}
	if k.Encrypted {
		parts = append(parts, "passphrase protected")
	}

	if len(parts) == 0 {
		return k.Path
	}

	return k.Path + " (" + strings.Join(parts, ", ") + ")"
}

// InspectKey reads the private key at path and reports its type and
// SHA256 fingerprint. Passphrase-protected keys are reported as encrypted
// rather than as an error; their public half is used when the file carries
// it.
func InspectKey(path string) (KeyInfo, error) {
	expanded := expandHome(strings.TrimSpace(path))
	info := KeyInfo{Path: expanded}

	data, err := os.ReadFile(expanded)
	if err != nil {
		return info, fmt.Errorf("read ssh key %q: %w", expanded, err)
	}

	signer, err := ssh.ParsePrivateKey(data)
	if err != nil {
		var missing *ssh.PassphraseMissingError
		if errors.As(err, &missing) {
			info.Encrypted = true
			if missing.PublicKey != nil {
				info.Type = missing.PublicKey.Type()
				info.Fingerprint = ssh.FingerprintSHA256(missing.PublicKey)
			}
			return info, nil
		}

		return info, fmt.Errorf("parse ssh key %q: %w", expanded, err)
	}

	pub := signer.PublicKey()
	info.Type = pub.Type()
	info.Fingerprint = ssh.FingerprintSHA256(pub)
	return info, nil
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
