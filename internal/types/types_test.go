package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOptions_EmbeddedCatalog(t *testing.T) {
	c, err := Options()
	require.NoError(t, err)

	keys := make([]string, 0, len(c.Fields))
	for _, f := range c.Fields {
		keys = append(keys, f.Key)
	}
	assert.Equal(t, []string{"targetGoal", "targetLanguage", "architectureStyle", "namingConvention", "documentationLevel", "additionalPrompt"}, keys)

	prompt, ok := c.Field("additionalPrompt")
	require.True(t, ok)
	assert.True(t, prompt.FreeText)
	assert.Empty(t, prompt.Options)

	_, ok = c.Field("model")
	assert.False(t, ok)
}

func TestDefaultConfiguration_UsesCatalogValues(t *testing.T) {
	cfg := DefaultConfiguration()
	c, err := Options()
	require.NoError(t, err)

	for key, value := range map[string]string{
		"targetGoal":         cfg.TargetGoal,
		"targetLanguage":     cfg.TargetLanguage,
		"architectureStyle":  cfg.ArchitectureStyle,
		"namingConvention":   cfg.NamingConvention,
		"documentationLevel": cfg.DocumentationLevel,
	} {
		f, ok := c.Field(key)
		require.True(t, ok, key)
		var found bool
		for _, o := range f.Options {
			found = found || o.Value == value
		}
		assert.True(t, found, "default %s=%q is not an offered option", key, value)
	}
	assert.Empty(t, cfg.AdditionalPrompt)
}

func TestParseOptionCatalog_Invalid(t *testing.T) {
	_, err := ParseOptionCatalog([]byte("fields: {"))
	assert.Error(t, err)
}

func TestRefactorConfiguration_Set(t *testing.T) {
	var cfg RefactorConfiguration
	assert.True(t, cfg.Set("namingConvention", "snake_case"))
	assert.True(t, cfg.Set("additionalPrompt", "keep\ncomments"))
	assert.False(t, cfg.Set("TargetLanguage", "go"))
	assert.Equal(t, "snake_case", cfg.NamingConvention)
	assert.Equal(t, "keep\ncomments", cfg.AdditionalPrompt)
}

func TestRunResult_CloneIsDeep(t *testing.T) {
	r := RunResult{Summary: "s", Logs: []string{"a"}, Files: []FileRecord{{ID: "1", Content: "x"}}}
	c := r.Clone()
	c.Logs[0] = "b"
	c.Files[0].Content = "y"
	assert.Equal(t, "a", r.Logs[0])
	assert.Equal(t, "x", r.Files[0].Content)
}

func TestNewInputFile(t *testing.T) {
	a, b := NewInputFile(), NewInputFile()
	assert.NotEqual(t, a.ID, b.ID)
	assert.Equal(t, "/src/new_file.py", a.Path)
	assert.False(t, a.IsNew)
}
