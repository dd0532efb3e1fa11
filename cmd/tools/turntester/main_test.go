package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zhouzirui/z-companion/backend/internal/model/companion"
)

func execute(t *testing.T, args ...string) (companion.ResponseOutput, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd(&out)
	cmd.SetArgs(args)
	cmd.SetErr(&bytes.Buffer{})
	if err := cmd.Execute(); err != nil {
		return companion.ResponseOutput{}, err
	}

	var result companion.ResponseOutput
	require.NoError(t, json.Unmarshal(out.Bytes(), &result))
	return result, nil
}

func TestTurnFromArgument(t *testing.T) {
	result, err := execute(t, "I am terrified", "--pick", "0")
	require.NoError(t, err)

	assert.Equal(t, companion.Fear, result.EmotionAnalysis.PrimaryEmotion)
	assert.Equal(t, companion.ContextInitial, result.EmotionAnalysis.Context)
	assert.NotEmpty(t, result.Response)
}

func TestTurnWithHistoryFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.json")
	history := `{
		"conversationHistory": [{"role":"user","content":"hi"},{"role":"assistant","content":"hello"}],
		"emotionalHistory": [{"primaryEmotion":"fear","intensity":0.25,"detectedEmotions":{"fear":0.25},"context":"initial"}]
	}`
	require.NoError(t, os.WriteFile(path, []byte(history), 0o600))

	result, err := execute(t, "--message", "I am terrified", "--history", path, "--compact")
	require.NoError(t, err)

	assert.Equal(t, companion.ContextRecurring, result.EmotionAnalysis.Context)
	v, ok := result.EmotionAnalysis.DetectedEmotions.Get(companion.Fear)
	require.True(t, ok)
	assert.InDelta(t, 0.2625, v, 1e-9)
}

func TestTurnRequiresMessage(t *testing.T) {
	_, err := execute(t)
	assert.Error(t, err)
}
