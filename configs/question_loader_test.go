package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBundledQuestionCatalogIsValid(t *testing.T) {
	catalog, err := LoadQuestionCatalog(filepath.Join("..", "content", "questions.yaml"))
	require.NoError(t, err)
	require.NoError(t, catalog.Validate())

	summary := catalog.Summary()
	assert.Equal(t, 15, summary.Scored)
	assert.Equal(t, 2, summary.Reflective)
	assert.True(t, catalog.ReflectiveIDs()["R1"])
}

func TestLoadQuestionCatalogMissingFile(t *testing.T) {
	_, err := LoadQuestionCatalog(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestValidateMissingQuestions(t *testing.T) {
	catalog, err := ParseQuestionCatalog([]byte("reflective: []\n"))
	require.NoError(t, err)
	assert.True(t, errors.Is(catalog.Validate(), ErrMissingQuestions))
}

func TestValidatePlaceholder(t *testing.T) {
	data, err := os.ReadFile(filepath.Join("..", "content", "questions.yaml"))
	require.NoError(t, err)
	patched := strings.Replace(string(data), "I know where my money went last month.", "TBD", 1)

	catalog, err := ParseQuestionCatalog([]byte(patched))
	require.NoError(t, err)

	err = catalog.Validate()
	assert.True(t, errors.Is(err, ErrPlaceholderQuestions))
	assert.Contains(t, err.Error(), "Q6")
}

func TestValidateMistaggedQuestion(t *testing.T) {
	data, err := os.ReadFile(filepath.Join("..", "content", "questions.yaml"))
	require.NoError(t, err)
	patched := strings.Replace(string(data), "- id: Q4\n    domain: health", "- id: Q4\n    domain: focus", 1)

	catalog, err := ParseQuestionCatalog([]byte(patched))
	require.NoError(t, err)

	err = catalog.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Q4: tagged focus, scored as health")
}

func TestValidateUnknownDomainAndMissingIDs(t *testing.T) {
	catalog, err := ParseQuestionCatalog([]byte(`
scored:
  - id: Q1
    domain: career
    prompt: Something real.
`))
	require.NoError(t, err)

	err = catalog.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown domain")
	assert.Contains(t, err.Error(), "Q15: missing")
}

func TestValidateEmptyIDsAndPrompts(t *testing.T) {
	data, err := os.ReadFile(filepath.Join("..", "content", "questions.yaml"))
	require.NoError(t, err)
	patched := strings.Replace(string(data), "I start each day knowing my most important task.", "\"  \"", 1)
	patched = strings.Replace(patched, "- id: R2", "- id: \"\"", 1)

	catalog, err := ParseQuestionCatalog([]byte(patched))
	require.NoError(t, err)

	err = catalog.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Q14: missing prompt")
	assert.Contains(t, err.Error(), "reflective[1]: missing id")
}

func TestValidateReflectiveCount(t *testing.T) {
	data, err := os.ReadFile(filepath.Join("..", "content", "questions.yaml"))
	require.NoError(t, err)
	trimmed := string(data)[:strings.Index(string(data), "  - id: R2")]

	catalog, err := ParseQuestionCatalog([]byte(trimmed))
	require.NoError(t, err)

	err = catalog.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected 2 reflective questions, found 1")
}

func TestValidateScoredWithoutID(t *testing.T) {
	data, err := os.ReadFile(filepath.Join("..", "content", "questions.yaml"))
	require.NoError(t, err)
	patched := strings.Replace(string(data), "- id: Q15\n", "- id: \"\"\n", 1)

	catalog, err := ParseQuestionCatalog([]byte(patched))
	require.NoError(t, err)

	err = catalog.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "scored[14]: missing id")
	assert.Contains(t, err.Error(), "Q15: missing")
}

func TestParseQuestionCatalogInvalidYAML(t *testing.T) {
	_, err := ParseQuestionCatalog([]byte("scored: [unclosed"))
	assert.Error(t, err)
}
