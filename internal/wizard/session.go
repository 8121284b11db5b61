package wizard

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/andreagrandi/jvm-wire/internal/catalog"
	"github.com/andreagrandi/jvm-wire/internal/inventory"
	"github.com/andreagrandi/jvm-wire/internal/logger"
)

// NoticeDuration is how long a validation notice stays visible.
const NoticeDuration = 5 * time.Second

// NoticeMessage is the text shown when a step is incomplete.
const NoticeMessage = "Please complete all required fields before proceeding."

var (
	ErrUnknownCommand = errors.New("unknown command")
	ErrInvalidValue   = errors.New("invalid value")
	ErrNotAtReview    = errors.New("installation can only start from the summary step")
	ErrAlreadyStarted = errors.New("installation already started")
)

// Notice is a transient validation message.
type Notice struct {
	Step    Step
	Message string
	Missing []string
	Until   time.Time
}

// Session is the wizard for one user. It owns the answers, the navigator
// and the catalog it validates against. A Session is not safe for
// concurrent use.
type Session struct {
	store   *catalog.Store
	state   State
	nav     *Navigator
	now     func() time.Time
	notice  *Notice
	final   *State
	summary *Summary
	started bool
}

// Option configures a Session.
type Option func(*Session)

// WithClock replaces time.Now, used for notice expiry.
func WithClock(now func() time.Time) Option {
	return func(s *Session) {
		if now != nil {
			s.now = now
		}
	}
}

// WithState seeds the session with existing answers.
func WithState(state State) Option {
	return func(s *Session) {
		s.state = state.Clone()
	}
}

// NewSession creates a session at step 1 with empty answers.
func NewSession(store *catalog.Store, opts ...Option) *Session {
	if store == nil {
		store = catalog.NewStore(nil, nil)
	}

	s := &Session{
		store: store,
		nav:   NewNavigator(),
		now:   time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	s.state.deriveOS()
	return s
}

// Store returns the catalog the session validates against.
func (s *Session) Store() *catalog.Store { return s.store }

// Step returns the current step.
func (s *Session) Step() Step { return s.nav.Current() }

// State returns a copy of the user's answers, without defaults.
func (s *Session) State() State { return s.state.Clone() }

// Started reports whether RequestStart has been accepted.
func (s *Session) Started() bool { return s.started }

// CanAdvance reports whether the current step's answers are complete.
func (s *Session) CanAdvance() bool {
	return CanAdvance(s.nav.Current(), s.state, s.store)
}

// MissingFields lists what the current step still needs.
func (s *Session) MissingFields() []string {
	return MissingFields(s.nav.Current(), s.state, s.store)
}

// Notice returns the active validation notice, if it has not expired.
func (s *Session) Notice() (Notice, bool) {
	if s.notice == nil {
		return Notice{}, false
	}

	if !s.now().Before(s.notice.Until) {
		s.notice = nil
		return Notice{}, false
	}

	return *s.notice, true
}

// Summary returns the summary computed when the last step was entered.
func (s *Session) Summary() (Summary, bool) {
	if s.summary == nil {
		return Summary{}, false
	}

	return *s.summary, true
}

// Finalized returns the answers with defaults applied, as of the last time
// the summary step was entered.
func (s *Session) Finalized() (State, bool) {
	if s.final == nil {
		return State{}, false
	}

	return s.final.Clone(), true
}

// Dispatch applies cmd and returns the events it produced. A refused
// advance returns its ValidationFailed event together with a
// *ValidationError.
func (s *Session) Dispatch(cmd Command) ([]Event, error) {
	prevOS := s.state.RemoteExec.OS

	var (
		events []Event
		err    error
	)

	switch c := cmd.(type) {
	case SelectInstallationSource:
		err = s.selectInstallationSource(c.Source)
	case SelectArtifact:
		s.selectArtifact(c.ID)
	case AttachFile:
		s.attachFile(c.FileName)
	case ChooseOS:
		err = s.chooseOS(c.OS)
	case SetUploadMetadata:
		s.state.Installation.Upload.FriendlyName = c.FriendlyName
		s.state.Installation.Upload.ExtractCommand = c.ExtractCommand
	case ChooseAuthMethod:
		err = s.chooseAuthMethod(c.Method)
	case SetRemoteExecFields:
		s.state.RemoteExec.Inventory = inventory.Parse(c.InventoryText)
		s.state.RemoteExec.Username = c.Username
		s.state.RemoteExec.KeyFile = c.KeyFile
		s.state.RemoteExec.Password = c.Password
	case SelectProfileSource:
		err = s.selectProfileSource(c.Source)
	case SelectProfile:
		s.selectProfile(c.ID)
	case SetNewProfileFields:
		np := &s.state.Profile.New
		np.FriendlyName = c.FriendlyName
		np.InstallPath = c.InstallPath
		np.BasePath = c.BasePath
		np.BackupPath = c.BackupPath
		np.SymlinkPath = c.SymlinkPath
	case ToggleBackup:
		s.state.Profile.New.BackupEnabled = c.Enabled
	case ToggleSymlink:
		s.state.Profile.New.SymlinkEnabled = c.Enabled
	case RequestAdvance:
		return s.advance()
	case RequestRetreat:
		return s.retreat(), nil
	case RequestJump:
		return s.jump(c.Step)
	case RequestDeleteArtifact:
		events = s.deleteArtifact(c.ID)
		if len(events) == 0 {
			return nil, nil
		}
	case RequestStart:
		return s.start()
	default:
		return nil, fmt.Errorf("dispatch %T: %w", cmd, ErrUnknownCommand)
	}

	if err != nil {
		return nil, err
	}

	s.state.deriveOS()
	if s.state.RemoteExec.OS != prevOS {
		logger.Debug("target os derived", "os", s.state.RemoteExec.OS)
		events = append(events, OSChanged{OS: s.state.RemoteExec.OS})
	}

	// Edits made while reviewing refresh the summary.
	if s.nav.Current() == StepSummary {
		events = append(events, s.finalize())
	}

	return events, nil
}

func (s *Session) selectInstallationSource(source InstallationSource) error {
	switch source {
	case SourceExisting, SourceUpload:
		s.state.Installation.Source = source
		return nil
	}

	return fmt.Errorf("select installation source %q: %w", source, ErrInvalidValue)
}

func (s *Session) selectArtifact(id string) {
	in := &s.state.Installation

	artifact, ok := s.store.FindArtifact(id)
	if !ok {
		if !isBlank(id) {
			logger.Debug("artifact not found", "id", id)
		}
		in.ArtifactID = ""
		in.Artifact = nil
		return
	}

	in.ArtifactID = artifact.ID
	in.Artifact = &artifact

	if !artifact.Exists {
		logger.Warn("selected artifact archive is missing", "id", artifact.ID, "path", artifact.ArchivePath)
	}
}

func (s *Session) attachFile(fileName string) {
	up := &s.state.Installation.Upload
	up.FileName = filepath.Base(strings.TrimSpace(fileName))

	osValue, command, ok := DetectArchive(up.FileName)
	if !ok {
		return
	}

	if osValue == catalog.OSWindows || up.OS == "" {
		up.OS = osValue
	}
	up.ExtractCommand = command
}

// DetectArchive infers the target OS and extract command from an archive
// file name. Zip archives are Windows packages; tarballs default to linux.
func DetectArchive(fileName string) (catalog.OS, string, bool) {
	name := strings.ToLower(fileName)

	switch {
	case strings.HasSuffix(name, ".zip"):
		return catalog.OSWindows, catalog.OSWindows.DefaultExtractCommand(), true
	case strings.HasSuffix(name, ".tar.gz"), strings.HasSuffix(name, ".tgz"), strings.HasSuffix(name, ".tar"):
		return catalog.OSLinux, catalog.OSLinux.DefaultExtractCommand(), true
	}

	return "", "", false
}

func (s *Session) chooseOS(osValue catalog.OS) error {
	parsed, ok := catalog.ParseOS(string(osValue))
	if !ok {
		return fmt.Errorf("choose os %q: %w", osValue, ErrInvalidValue)
	}

	up := &s.state.Installation.Upload
	up.OS = parsed
	up.ExtractCommand = parsed.DefaultExtractCommand()
	return nil
}

func (s *Session) chooseAuthMethod(method AuthMethod) error {
	parsed, ok := ParseAuthMethod(string(method))
	if !ok {
		return fmt.Errorf("choose auth method %q: %w", method, ErrInvalidValue)
	}

	s.state.RemoteExec.AuthMethod = parsed
	return nil
}

func (s *Session) selectProfileSource(source ProfileSource) error {
	switch source {
	case ProfileExisting, ProfileNew:
		s.state.Profile.Source = source
		return nil
	}

	return fmt.Errorf("select profile source %q: %w", source, ErrInvalidValue)
}

func (s *Session) selectProfile(id string) {
	p := &s.state.Profile

	profile, ok := s.store.FindProfile(id)
	if !ok {
		p.ProfileID = ""
		p.Selected = nil
		return
	}

	p.ProfileID = profile.ID
	p.Selected = &profile
}

func (s *Session) deleteArtifact(id string) []Event {
	target := strings.TrimSpace(id)
	if !s.store.DeleteArtifact(target) {
		return nil
	}

	selected := s.state.Installation.ArtifactID == target
	if selected {
		s.state.Installation.ArtifactID = ""
		s.state.Installation.Artifact = nil
	}

	logger.Info("artifact deleted", "id", target, "was_selected", selected)
	return []Event{ArtifactDeleted{ID: target, WasSelected: selected}}
}

func (s *Session) advance() ([]Event, error) {
	from := s.nav.Current()

	changed, err := s.nav.Advance(s.state, s.store)
	if err != nil {
		var verr *ValidationError
		if !errors.As(err, &verr) {
			return nil, err
		}

		until := s.now().Add(NoticeDuration)
		s.notice = &Notice{Step: from, Message: NoticeMessage, Missing: verr.Missing, Until: until}
		logger.Info("step validation failed", "step", int(from), "missing", verr.Missing)

		return []Event{ValidationFailed{Step: from, Missing: verr.Missing, Until: until}}, err
	}

	if !changed {
		return nil, nil
	}

	return s.entered(from), nil
}

func (s *Session) retreat() []Event {
	from := s.nav.Current()
	if !s.nav.Retreat() {
		return nil
	}

	return s.entered(from)
}

func (s *Session) jump(step Step) ([]Event, error) {
	from := s.nav.Current()
	if err := s.nav.JumpTo(step); err != nil {
		return nil, err
	}

	return s.entered(from), nil
}

// entered emits StepChanged and, on the summary step, finalizes the answers.
func (s *Session) entered(from Step) []Event {
	to := s.nav.Current()
	s.notice = nil
	logger.Info("wizard step changed", "from", int(from), "to", int(to))

	events := []Event{StepChanged{From: from, Step: to}}
	if to == StepSummary {
		events = append(events, s.finalize())
	}

	return events
}

func (s *Session) finalize() Event {
	final := Finalize(s.state, s.store)
	summary := Summarize(final)

	s.final = &final
	s.summary = &summary

	for _, w := range summary.Warnings {
		logger.Warn("summary warning", "warning", w)
	}

	return SummaryReady{Summary: summary}
}

func (s *Session) start() ([]Event, error) {
	if s.nav.Current() != StepSummary {
		return nil, ErrNotAtReview
	}

	if s.started {
		return nil, ErrAlreadyStarted
	}

	if s.final == nil {
		s.finalize()
	}

	s.started = true
	final := s.final.Clone()
	logger.Info("installation requested", "hosts", len(final.RemoteExec.Inventory))

	return []Event{StartRequested{
		State: final,
		Hosts: append([]string(nil), final.RemoteExec.Inventory...),
	}}, nil
}
