package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

// loadPeople parses directory.people back out of a saved config file.
func loadPeople(t *testing.T, path string) []PersonConfig {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var parsed struct {
		Directory struct {
			People []PersonConfig `yaml:"people"`
		} `yaml:"directory"`
	}
	require.NoError(t, yaml.Unmarshal(data, &parsed))
	return parsed.Directory.People
}

func TestSavePeople_NewFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	err := SavePeople(path, []PersonConfig{
		{Key: "alice", Name: "Alice Chen", Color: "#10B981"},
		{Key: "bob", Name: "Bob Okafor"},
	})
	require.NoError(t, err)

	people := loadPeople(t, path)
	require.Len(t, people, 2)
	assert.Equal(t, "alice", people[0].Key)
	assert.Equal(t, "Alice Chen", people[0].Name)
	assert.Equal(t, "#10B981", people[0].Color)
	assert.Equal(t, "bob", people[1].Key)
	assert.Empty(t, people[1].Color)
}

func TestSavePeople_ReplacesExistingList(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, SavePeople(path, []PersonConfig{{Key: "alice", Name: "Alice"}}))

	err := SavePeople(path, []PersonConfig{{Key: "carol", Name: "Carol"}})
	require.NoError(t, err)

	people := loadPeople(t, path)
	require.Len(t, people, 1)
	assert.Equal(t, "carol", people[0].Key)
}

func TestSavePeople_PreservesOtherSectionsAndComments(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	original := `# my settings
editor:
  trigger: "#" # hash mentions
  smart_quotes: false

theme:
  preset: nord
`
	require.NoError(t, os.WriteFile(path, []byte(original), 0644))

	err := SavePeople(path, []PersonConfig{{Key: "dave", Name: "Dave"}})
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	content := string(data)

	assert.Contains(t, content, "# my settings")
	assert.Contains(t, content, "# hash mentions")
	assert.Contains(t, content, "preset: nord")

	people := loadPeople(t, path)
	require.Len(t, people, 1)
	assert.Equal(t, "dave", people[0].Key)
}

func TestSavePeople_AppendsToExistingDirectorySection(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	original := `directory:
  cache_ttl_seconds: 60
`
	require.NoError(t, os.WriteFile(path, []byte(original), 0644))

	err := SavePeople(path, []PersonConfig{{Key: "erin", Name: "Erin"}})
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "cache_ttl_seconds: 60")

	people := loadPeople(t, path)
	require.Len(t, people, 1)
}

func TestSavePeople_CreatesParentDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "config.yaml")

	err := SavePeople(path, []PersonConfig{{Key: "frank", Name: "Frank"}})
	require.NoError(t, err)

	_, err = os.Stat(path)
	assert.NoError(t, err)
}

func TestWriteDefaultConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	require.NoError(t, WriteDefaultConfig(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var parsed map[string]any
	require.NoError(t, yaml.Unmarshal(data, &parsed))
	assert.Contains(t, parsed, "editor")
	assert.Contains(t, parsed, "directory")

	// Writing twice must not clobber an existing file.
	assert.Error(t, WriteDefaultConfig(path))
}
