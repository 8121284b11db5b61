package tui

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andreagrandi/jvm-wire/internal/catalog"
	"github.com/andreagrandi/jvm-wire/internal/credential"
	"github.com/andreagrandi/jvm-wire/internal/inventory"
	"github.com/andreagrandi/jvm-wire/internal/progress"
	"github.com/andreagrandi/jvm-wire/internal/wizard"
)

func testSession(t *testing.T, opts ...wizard.Option) *wizard.Session {
	t.Helper()

	store, err := catalog.LoadStore()
	require.NoError(t, err)
	return wizard.NewSession(store, opts...)
}

func testModel(t *testing.T, session *wizard.Session) WizardModel {
	t.Helper()

	return NewWizardModel(session, Options{
		Version:   "1.0.0",
		Sequencer: progress.New(progress.WithDelay(progress.NoDelay)),
		SSHHosts:  []inventory.SSHHost{{Alias: "bastion", Hostname: "10.0.0.1", Port: 22}},
	})
}

func keyMsg(k tea.KeyType) tea.KeyMsg {
	return tea.KeyMsg{Type: k}
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// press feeds msgs to the model in order and ignores the commands.
func press(m WizardModel, msgs ...tea.Msg) WizardModel {
	for _, msg := range msgs {
		updated, _ := m.Update(msg)
		m = updated.(WizardModel)
	}

	return m
}

func typeText(m WizardModel, text string) WizardModel {
	for _, r := range text {
		m = press(m, runes(string(r)))
	}

	return m
}

func TestNewWizardModel(t *testing.T) {
	model := testModel(t, testSession(t))

	_, ok := model.Screen().(*InstallationScreen)
	assert.True(t, ok)
	assert.Equal(t, 0, model.width)

	view := model.View()
	assert.Contains(t, view, "jvm-wire v1.0.0")
	assert.Contains(t, view, "Installation")
	assert.Contains(t, view, "Remote Execution")
}

func TestWizardModel_WindowSizeMsg(t *testing.T) {
	model := testModel(t, testSession(t))

	model = press(model, tea.WindowSizeMsg{Width: 120, Height: 40})

	assert.Equal(t, 120, model.width)
	assert.Equal(t, 40, model.height)
}

func TestWizardModel_CtrlCQuits(t *testing.T) {
	model := testModel(t, testSession(t))

	_, cmd := model.Update(keyMsg(tea.KeyCtrlC))
	require.NotNil(t, cmd)

	_, ok := cmd().(tea.QuitMsg)
	assert.True(t, ok)
	assert.Error(t, model.ctx.Err())
}

func TestWizardModel_EnterRequestsAdvance(t *testing.T) {
	model := testModel(t, testSession(t))

	_, cmd := model.Update(keyMsg(tea.KeyEnter))
	require.NotNil(t, cmd)
	assert.Equal(t, advanceMsg{}, cmd())
}

func TestWizardModel_IncompleteStepShowsNotice(t *testing.T) {
	now := time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)
	session := testSession(t, wizard.WithClock(func() time.Time { return now }))
	model := testModel(t, session)

	updated, cmd := model.Update(advanceMsg{})
	model = updated.(WizardModel)

	assert.NotNil(t, cmd)
	assert.Equal(t, wizard.StepInstallation, session.Step())
	assert.Contains(t, model.View(), wizard.NoticeMessage)
	assert.Contains(t, model.View(), "installation source")

	now = now.Add(wizard.NoticeDuration)
	model = press(model, noticeExpiredMsg{})
	assert.NotContains(t, model.View(), wizard.NoticeMessage)
}

func TestWizardModel_KeyboardWalkthrough(t *testing.T) {
	session := testSession(t)
	model := testModel(t, session)

	// Step 1: existing installation, first catalog entry.
	model = press(model, keyMsg(tea.KeyRight), keyMsg(tea.KeyTab), keyMsg(tea.KeyDown), advanceMsg{})
	require.Equal(t, wizard.StepRemoteExec, session.Step())
	_, ok := model.Screen().(*RemoteExecScreen)
	require.True(t, ok)

	// Step 2: two hosts, password auth.
	model = typeText(model, "web1")
	model = press(model, keyMsg(tea.KeyEnter))
	model = typeText(model, "web2")
	model = press(model, keyMsg(tea.KeyTab))
	model = typeText(model, "deploy")
	model = press(model, keyMsg(tea.KeyTab), keyMsg(tea.KeyRight), keyMsg(tea.KeyRight), keyMsg(tea.KeyTab))
	model = typeText(model, "s3cret")

	re := session.State().RemoteExec
	assert.Equal(t, []string{"web1", "web2"}, re.Inventory)
	assert.Equal(t, "deploy", re.Username)
	assert.Equal(t, wizard.AuthPassword, re.AuthMethod)
	assert.Equal(t, "s3cret", re.Password)

	model = press(model, advanceMsg{})
	require.Equal(t, wizard.StepProfile, session.Step())

	// Step 3: existing profile.
	model = press(model, keyMsg(tea.KeyRight), keyMsg(tea.KeyTab), keyMsg(tea.KeyDown), advanceMsg{})
	require.Equal(t, wizard.StepSummary, session.Step())

	review, ok := model.Screen().(*ReviewScreen)
	require.True(t, ok)
	view := review.View()
	assert.Contains(t, view, "Installation Details")
	assert.Contains(t, view, "2 host(s)")
	assert.NotContains(t, view, "s3cret")

	// Start the installation.
	model = press(model, startMsg{})
	assert.True(t, session.Started())
	_, ok = model.Screen().(*ApplyScreen)
	assert.True(t, ok)
}

func TestWizardModel_EscGoesBack(t *testing.T) {
	session := testSession(t)
	model := testModel(t, session)

	model = press(model, keyMsg(tea.KeyF2))
	require.Equal(t, wizard.StepRemoteExec, session.Step())

	_, cmd := model.Update(keyMsg(tea.KeyEsc))
	require.NotNil(t, cmd)
	model = press(model, cmd())

	assert.Equal(t, wizard.StepInstallation, session.Step())
	_, ok := model.Screen().(*InstallationScreen)
	assert.True(t, ok)
}

func TestWizardModel_JumpToSummaryUsesDefaults(t *testing.T) {
	session := testSession(t)
	model := testModel(t, session)
	model.height = 60

	model = press(model, keyMsg(tea.KeyF4))

	require.Equal(t, wizard.StepSummary, session.Step())
	view := model.View()
	assert.Contains(t, view, wizard.DefaultUploadFriendlyName)
	assert.Contains(t, view, wizard.DefaultProfileName)

	model = press(model, keyMsg(tea.KeyF1))
	assert.Equal(t, wizard.StepInstallation, session.Step())
}

func TestWizardModel_CtrlNAdvances(t *testing.T) {
	session := testSession(t)
	model := testModel(t, session)

	model = press(model, keyMsg(tea.KeyRight), keyMsg(tea.KeyTab), keyMsg(tea.KeyDown), keyMsg(tea.KeyCtrlN))
	assert.Equal(t, wizard.StepRemoteExec, session.Step())
}

func TestWizardModel_PlanOutputAndClose(t *testing.T) {
	session := testSession(t)
	model := testModel(t, session)
	model.height = 60

	model = press(model, keyMsg(tea.KeyF4))
	_, cmd := model.Update(runes("p"))
	require.NotNil(t, cmd)
	model = press(model, cmd())

	output, ok := model.Screen().(*OutputScreen)
	require.True(t, ok)
	assert.Contains(t, output.View(), "java_hosts")
	assert.Contains(t, output.View(), "Installation plan")

	// F-keys are ignored while the plan covers the review.
	model = press(model, keyMsg(tea.KeyF1))
	assert.Equal(t, wizard.StepSummary, session.Step())

	_, cmd = model.Update(runes("x"))
	require.NotNil(t, cmd)
	model = press(model, cmd())

	_, ok = model.Screen().(*ReviewScreen)
	assert.True(t, ok)
}

func TestWizardModel_UploadZipSwitchesToWinRM(t *testing.T) {
	session := testSession(t)
	model := testModel(t, session)

	model = press(model, keyMsg(tea.KeyRight), keyMsg(tea.KeyRight), keyMsg(tea.KeyTab))
	model = typeText(model, "jdk-21.zip")

	up := session.State().Installation.Upload
	assert.Equal(t, catalog.OSWindows, up.OS)
	assert.Equal(t, "unzip", up.ExtractCommand)

	model = press(model, keyMsg(tea.KeyF2))
	remote, ok := model.Screen().(*RemoteExecScreen)
	require.True(t, ok)

	view := remote.View()
	assert.Contains(t, view, "WinRM password")
	assert.NotContains(t, view, "Authentication")
}

func TestWizardModel_ReviewShowsKeyInfo(t *testing.T) {
	session := testSession(t)
	_, err := session.Dispatch(wizard.ChooseAuthMethod{Method: wizard.AuthKey})
	require.NoError(t, err)
	_, err = session.Dispatch(wizard.SetRemoteExecFields{KeyFile: "/keys/id_ed25519"})
	require.NoError(t, err)

	model := NewWizardModel(session, Options{
		InspectKey: func(path string) (credential.KeyInfo, error) {
			return credential.KeyInfo{Path: path, Type: "ssh-ed25519", Fingerprint: "SHA256:abc"}, nil
		},
	})
	model.height = 60

	model = press(model, keyMsg(tea.KeyF4))
	assert.Contains(t, model.View(), "/keys/id_ed25519 (ssh-ed25519, SHA256:abc)")
}

func TestContentHeightFromTerminal(t *testing.T) {
	assert.Equal(t, ContentHeight, contentHeightFromTerminal(0))
	assert.Equal(t, 40-ChromeLines, contentHeightFromTerminal(40))
	assert.Equal(t, 1, contentHeightFromTerminal(2))
}

func TestPadToHeight(t *testing.T) {
	assert.Equal(t, "a\nb\n", padToHeight("a\nb\n", 3))
	assert.Equal(t, "a", padToHeight("a\nb\nc", 1))
}
