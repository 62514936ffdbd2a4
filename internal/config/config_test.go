package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wellness-chatter/internal/crisis"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 10, cfg.MemorySize)
	assert.Equal(t, 3, cfg.RetrievalK)
	assert.Equal(t, 8, cfg.CrisisThreshold)
	assert.Equal(t, 15, cfg.CrisisUrgentThreshold)
	assert.Equal(t, 0.4, cfg.LexicalWeight)
	assert.Equal(t, 0.6, cfg.InformalWeight)
	assert.Equal(t, 45*time.Second, cfg.GenerationTimeout)
	assert.Contains(t, cfg.WellnessTopics, "mindfulness")
	assert.Contains(t, cfg.RetrievalTriggers, "strategies for")
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("WELLNESS_TOPICS", "grief,loneliness")
	t.Setenv("ALLOWED_USERS", "1:2")
	t.Setenv("MAX_MEMORY_LENGTH", "4")
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, []string{"grief", "loneliness"}, cfg.WellnessTopics)
	assert.Equal(t, []int64{1, 2}, cfg.AllowedUsers)
	assert.Equal(t, 4, cfg.MemorySize)
}

func TestValidate(t *testing.T) {
	base := Config{LLMProvider: ProviderOpenAI, MemorySize: 10, ChunkSize: 1000, ChunkOverlap: 200}

	missing := base
	assert.ErrorIs(t, missing.Validate(), ErrMissingCredential)

	ok := base
	ok.OpenAIAPIKey = "sk-test"
	assert.NoError(t, ok.Validate())
	assert.ErrorIs(t, ok.ValidateBot(), ErrMissingBotToken)

	ya := base
	ya.LLMProvider = ProviderYandex
	ya.YandexOAuthToken = "token"
	assert.ErrorIs(t, ya.Validate(), ErrMissingCredential)

	unknown := ok
	unknown.LLMProvider = "cohere"
	assert.Error(t, unknown.Validate())

	overlap := ok
	overlap.ChunkOverlap = 1000
	assert.Error(t, overlap.Validate())
}

func TestCrisisConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "resources.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"region":"UK - Samaritans","contact":"116 123"}]`), 0o644))

	cfg := Config{
		CrisisKeywords:        []string{"numb"},
		CrisisThreshold:       6,
		CrisisUrgentThreshold: 12,
		CrisisResourcesPath:   path,
	}
	cc, err := cfg.CrisisConfig()
	require.NoError(t, err)

	assert.Equal(t, []string{"numb"}, cc.Keywords)
	assert.Equal(t, 6, cc.Threshold)
	assert.Equal(t, 12, cc.UrgentThreshold)
	assert.Equal(t, []crisis.Resource{{Region: "UK - Samaritans", Contact: "116 123"}}, cc.Resources)

	cfg.CrisisResourcesPath = ""
	cfg.CrisisKeywords = nil
	cc, err = cfg.CrisisConfig()
	require.NoError(t, err)
	assert.Equal(t, crisis.DefaultResources(), cc.Resources)
	assert.Equal(t, crisis.DefaultKeywords(), cc.Keywords)
}

func TestLoadResourcesErrors(t *testing.T) {
	dir := t.TempDir()
	_, err := LoadResources(filepath.Join(dir, "missing.json"))
	assert.Error(t, err)

	empty := filepath.Join(dir, "empty.json")
	require.NoError(t, os.WriteFile(empty, []byte(`[]`), 0o644))
	_, err = LoadResources(empty)
	assert.Error(t, err)
}
