package wizard

import (
	"time"

	"github.com/andreagrandi/jvm-wire/internal/catalog"
)

// Command is an input accepted by Session.Dispatch.
type Command interface {
	command()
}

// Event is an output produced by Session.Dispatch.
type Event interface {
	event()
}

type (
	// SelectInstallationSource picks existing or upload for step 1.
	SelectInstallationSource struct{ Source InstallationSource }

	// SelectArtifact selects a catalog artifact by id. An unknown id clears
	// the selection.
	SelectArtifact struct{ ID string }

	// AttachFile records the uploaded archive name and detects the OS and
	// extract command from its extension.
	AttachFile struct{ FileName string }

	// ChooseOS sets the upload OS and resets the extract command to the OS
	// default.
	ChooseOS struct{ OS catalog.OS }

	SetUploadMetadata struct {
		FriendlyName   string
		ExtractCommand string
	}

	ChooseAuthMethod struct{ Method AuthMethod }

	// SetRemoteExecFields replaces the step 2 text fields with the form's
	// current contents.
	SetRemoteExecFields struct {
		InventoryText string
		Username      string
		KeyFile       string
		Password      string
	}

	SelectProfileSource struct{ Source ProfileSource }

	// SelectProfile selects a catalog profile by id. An unknown id clears the
	// selection.
	SelectProfile struct{ ID string }

	// SetNewProfileFields replaces the new-profile text fields with the form's
	// current contents.
	SetNewProfileFields struct {
		FriendlyName string
		InstallPath  string
		BasePath     string
		BackupPath   string
		SymlinkPath  string
	}

	ToggleBackup  struct{ Enabled bool }
	ToggleSymlink struct{ Enabled bool }

	RequestAdvance struct{}
	RequestRetreat struct{}
	RequestJump    struct{ Step Step }

	RequestDeleteArtifact struct{ ID string }

	// RequestStart asks for the installation to begin. Only valid once, on
	// the summary step.
	RequestStart struct{}
)

func (SelectInstallationSource) command() {}
func (SelectArtifact) command()           {}
func (AttachFile) command()               {}
func (ChooseOS) command()                 {}
func (SetUploadMetadata) command()        {}
func (ChooseAuthMethod) command()         {}
func (SetRemoteExecFields) command()      {}
func (SelectProfileSource) command()      {}
func (SelectProfile) command()            {}
func (SetNewProfileFields) command()      {}
func (ToggleBackup) command()             {}
func (ToggleSymlink) command()            {}
func (RequestAdvance) command()           {}
func (RequestRetreat) command()           {}
func (RequestJump) command()              {}
func (RequestDeleteArtifact) command()    {}
func (RequestStart) command()             {}

type (
	// StepChanged reports a navigator transition.
	StepChanged struct {
		From Step
		Step Step
	}

	// ValidationFailed reports a refused forward transition. The notice is
	// shown until Until.
	ValidationFailed struct {
		Step    Step
		Missing []string
		Until   time.Time
	}

	// OSChanged reports a new derived target OS. Presentation layers switch
	// between the SSH and WinRM credential forms on it.
	OSChanged struct{ OS catalog.OS }

	// SummaryReady carries the summary computed on entering the last step.
	SummaryReady struct{ Summary Summary }

	// ArtifactDeleted is emitted only when an artifact was removed.
	ArtifactDeleted struct {
		ID          string
		WasSelected bool
	}

	// StartRequested hands the finalized answers to the caller, which runs
	// the installation.
	StartRequested struct {
		State State
		Hosts []string
	}
)

func (StepChanged) event()      {}
func (ValidationFailed) event() {}
func (OSChanged) event()        {}
func (SummaryReady) event()     {}
func (ArtifactDeleted) event()  {}
func (StartRequested) event()   {}
