package app

const (
	Name    = "jvm-wire"
	Author  = "Andrea Grandi"
	License = "MIT"
)

var Version = "0.1.0"

// ConfigDirName is the directory under ~/.config (and the XDG state dir)
// where jvm-wire keeps its settings, credentials, and logs.
const ConfigDirName = Name

type App struct {
	Name    string
	Version string
	Author  string
	License string
}

func New() *App {
	return &App{
		Name:    Name,
		Version: Version,
		Author:  Author,
		License: License,
	}
}

func (a *App) GetFullVersion() string {
	return a.Name + " version " + a.Version
}
