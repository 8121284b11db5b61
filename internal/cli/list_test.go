package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListArtifactsCommand(t *testing.T) {
	testEnv(t)

	output, err := executeRootCommand(t, "list", "artifacts")
	require.NoError(t, err)

	assert.Contains(t, output, "Artifacts:")
	assert.Contains(t, output, "installation-1")
	assert.Contains(t, output, "Java 21 Windows 21.2")

	missing := ""
	for _, line := range strings.Split(output, "\n") {
		if strings.Contains(line, "installation-3") {
			missing = line
		}
	}
	assert.Contains(t, missing, "[missing]")

	first := strings.Index(output, "installation-1")
	second := strings.Index(output, "installation-2")
	assert.Less(t, first, second, "catalog order is kept")
}

func TestListArtifactsOSFilter(t *testing.T) {
	testEnv(t)

	output, err := executeRootCommand(t, "list", "artifacts", "--os", "Windows")
	require.NoError(t, err)

	assert.Contains(t, output, "installation-2")
	assert.NotContains(t, output, "installation-1")
	assert.NotContains(t, output, "installation-3")
}

func TestListArtifactsUnknownOS(t *testing.T) {
	testEnv(t)

	_, err := executeRootCommand(t, "list", "artifacts", "--os", "plan9")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown OS "plan9"`)
}

func TestListProfilesCommand(t *testing.T) {
	testEnv(t)

	output, err := executeRootCommand(t, "list", "profiles", "--os", "aix")
	require.NoError(t, err)

	assert.Contains(t, output, "Profiles:")
	assert.Contains(t, output, "AIX Production")
	assert.Contains(t, output, "/usr/java")
	assert.NotContains(t, output, "Development Linux")
}

func TestListUsesConfiguredCatalog(t *testing.T) {
	configPath := testEnv(t)
	dir := filepath.Dir(configPath)

	catalogPath := filepath.Join(dir, "extra.toml")
	require.NoError(t, os.WriteFile(catalogPath, []byte(`
[installation-4]
friendly_name = "Java 17 Linux"
version = "17.0"
os = "linux"
filename = "installation/java17-linux.tar.gz"
exists = true
`), 0o644))

	config := `{
  // extra catalog entries
  "catalog": "` + catalogPath + `",
}`
	require.NoError(t, os.WriteFile(configPath, []byte(config), 0o644))

	output, err := executeRootCommand(t, "list", "artifacts", "--os", "linux")
	require.NoError(t, err)

	assert.Contains(t, output, "installation-1")
	assert.Contains(t, output, "Java 17 Linux 17.0")
}
