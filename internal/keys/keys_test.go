package keys

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaultComposeKeyMap_Assignments(t *testing.T) {
	k := DefaultComposeKeyMap()

	require.Equal(t, []string{"ctrl+s"}, k.Save.Keys())
	require.Equal(t, []string{"ctrl+o"}, k.OpenLatest.Keys())
	require.Equal(t, []string{"ctrl+n"}, k.NewDraft.Keys())
	require.Equal(t, []string{"tab"}, k.Accept.Keys())
	require.Equal(t, []string{"ctrl+c"}, k.Quit.Keys())
}

func TestDefaultComposeKeyMap_HelpText(t *testing.T) {
	k := DefaultComposeKeyMap()

	help := k.Save.Help()
	require.Equal(t, "ctrl+s", help.Key)
	require.Equal(t, "save draft", help.Desc)
}

func TestComposeKeyMap_Help(t *testing.T) {
	k := DefaultComposeKeyMap()

	require.Len(t, k.ShortHelp(), 3)
	require.Len(t, k.FullHelp(), 3)
}

func TestDefaultPlaygroundKeyMap_Assignments(t *testing.T) {
	k := DefaultPlaygroundKeyMap()

	require.Equal(t, []string{"k", "up"}, k.Up.Keys())
	require.Equal(t, []string{"j", "down"}, k.Down.Keys())
	require.Equal(t, []string{"tab"}, k.Focus.Keys())
	require.Equal(t, []string{"ctrl+r"}, k.Reset.Keys())
}
