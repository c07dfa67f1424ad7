package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadVocabularyDefaults(t *testing.T) {
	vocab, err := LoadVocabulary("")
	require.NoError(t, err)
	require.Equal(t, DefaultVocabulary(), vocab)
	require.Contains(t, vocab.Urgent, "emergency")
	require.Contains(t, vocab.High, "unsafe")
}

func TestLoadVocabularyFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keywords.yaml")
	content := "urgent:\n  - flooding\n  - gas leak\nhigh:\n  - noise\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	vocab, err := LoadVocabulary(path)
	require.NoError(t, err)
	require.Equal(t, []string{"flooding", "gas leak"}, vocab.Urgent)
	require.Equal(t, []string{"noise"}, vocab.High)
}

func TestLoadVocabularyRejectsEmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keywords.yaml")
	require.NoError(t, os.WriteFile(path, []byte("urgent: []\nhigh: []\n"), 0o600))

	_, err := LoadVocabulary(path)
	require.Error(t, err)
}

func TestLoadVocabularyMissingFile(t *testing.T) {
	_, err := LoadVocabulary(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}
