package wizard

import (
	"errors"
	"fmt"
	"strings"

	"github.com/andreagrandi/jvm-wire/internal/catalog"
)

// ErrValidation is wrapped by every ValidationError.
var ErrValidation = errors.New("step is incomplete")

// ValidationError reports why a forward transition was refused.
type ValidationError struct {
	Step    Step
	Missing []string
}

func (e *ValidationError) Error() string {
	if len(e.Missing) == 0 {
		return fmt.Sprintf("step %d (%s): %v", int(e.Step), e.Step, ErrValidation)
	}

	return fmt.Sprintf("step %d (%s): %v: missing %s", int(e.Step), e.Step, ErrValidation, strings.Join(e.Missing, ", "))
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// CanAdvance reports whether the answers for step allow moving forward.
func CanAdvance(step Step, state State, store *catalog.Store) bool {
	return len(MissingFields(step, state, store)) == 0
}

// MissingFields lists the unmet requirements of step, in form order.
// The summary step has none.
func MissingFields(step Step, state State, store *catalog.Store) []string {
	switch step {
	case StepInstallation:
		return missingInstallation(state.Installation, store)
	case StepRemoteExec:
		return missingRemoteExec(state.RemoteExec, state.InstallationOS())
	case StepProfile:
		return missingProfile(state.Profile, store)
	default:
		return nil
	}
}

func missingInstallation(in Installation, store *catalog.Store) []string {
	switch in.Source {
	case SourceExisting:
		if isBlank(in.ArtifactID) {
			return []string{"installation"}
		}

		artifact, ok := store.FindArtifact(in.ArtifactID)
		if !ok {
			return []string{"installation"}
		}

		if !artifact.Exists {
			return []string{"installation archive"}
		}

		return nil

	case SourceUpload:
		var missing []string
		if in.Upload.OS == "" {
			missing = append(missing, "operating system")
		}
		if isBlank(in.Upload.FriendlyName) {
			missing = append(missing, "friendly name")
		}
		if isBlank(in.Upload.ExtractCommand) {
			missing = append(missing, "extract command")
		}

		return missing
	}

	return []string{"installation source"}
}

func missingRemoteExec(re RemoteExec, osValue catalog.OS) []string {
	var missing []string

	if !hasHost(re.Inventory) {
		missing = append(missing, "inventory")
	}

	if isBlank(re.Username) {
		missing = append(missing, "username")
	}

	if osValue == catalog.OSWindows {
		if isBlank(re.Password) {
			missing = append(missing, "WinRM password")
		}

		return missing
	}

	switch re.AuthMethod {
	case AuthKey:
		if isBlank(re.KeyFile) {
			missing = append(missing, "SSH key file")
		}
	case AuthPassword:
		if isBlank(re.Password) {
			missing = append(missing, "SSH password")
		}
	default:
		missing = append(missing, "authentication method")
	}

	return missing
}

func missingProfile(p ProfileChoice, store *catalog.Store) []string {
	switch p.Source {
	case ProfileExisting:
		if _, ok := store.FindProfile(p.ProfileID); !ok {
			return []string{"profile"}
		}

		return nil

	case ProfileNew:
		var missing []string
		if isBlank(p.New.FriendlyName) {
			missing = append(missing, "profile name")
		}
		if isBlank(p.New.InstallPath) {
			missing = append(missing, "install path")
		}
		if isBlank(p.New.BasePath) {
			missing = append(missing, "base path")
		}

		return missing
	}

	return []string{"profile source"}
}

func hasHost(hosts []string) bool {
	for _, h := range hosts {
		if !isBlank(h) {
			return true
		}
	}

	return false
}
