package codegen

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"videogen/internal/domain"
)

func TestBuildSystemPrompt(t *testing.T) {
	got, err := BuildSystemPrompt(DimensionsFor("16:9"), 30)
	require.NoError(t, err)
	assert.Contains(t, got, `new Function("React", "Remotion", "Components", "Theme", "images", "audioUrl", code)`)
	assert.Contains(t, got, "Output size: 1920x1080 at 30fps.")
	assert.Contains(t, got, "scene.duration * 30 = frames")
	assert.Contains(t, got, "style={{ backgroundColor: C.bg }}")
	assert.Contains(t, got, "Never use fetch(), eval(), require(), import(), process., fs. or child_process.")
	assert.Equal(t, 3, strings.Count(got, "## EXAMPLE "))
	assert.NotContains(t, got, "[[")
}

func TestDimensionsFor(t *testing.T) {
	assert.Equal(t, Dimensions{1080, 1920}, DimensionsFor("9:16"))
	assert.Equal(t, Dimensions{1920, 1080}, DimensionsFor("16:9"))
	assert.Equal(t, Dimensions{1080, 1080}, DimensionsFor("1:1"))
	assert.Equal(t, Dimensions{1080, 1920}, DimensionsFor("4:3"))
	assert.Equal(t, Dimensions{1080, 1920}, DimensionsFor(""))
}

func TestBuildUserPrompt(t *testing.T) {
	longURL := "https://cdn.example.com/" + strings.Repeat("a", 100)
	words := make([]domain.WordTimestamp, 12)
	for i := range words {
		words[i] = domain.WordTimestamp{Word: "w", Start: float64(i) * 0.25, End: float64(i)*0.25 + 0.2}
	}
	got := BuildUserPrompt(PromptInput{
		Script:      sampleScript(),
		ImageURLs:   []string{longURL, "https://cdn.example.com/b.png"},
		Audio:       &domain.AudioDescriptor{URL: "https://cdn.example.com/vo.mp3", Duration: 12.04, Words: words},
		TotalFrames: 360,
		FPS:         30,
		Dimensions:  DimensionsFor("9:16"),
	})

	assert.Contains(t, got, "- Total duration: 360 frames (12s at 30fps)")
	assert.Contains(t, got, "- Dimensions: 1080x1920")
	assert.Contains(t, got, "- Primary: #6366f1")
	assert.Contains(t, got, `### Scene "hook" (150 frames, from=0, mood: energetic)`)
	assert.Contains(t, got, `### Scene "social-proof" (120 frames, from=150, mood: confident)`)
	assert.Contains(t, got, `### Scene "cta" (90 frames, from=270, mood: warm)`)
	assert.Contains(t, got, `  Headline: "Ship faster"`)
	assert.Contains(t, got, `    - "Simple"`)
	assert.Contains(t, got, "  Emphasis words: Fast")
	assert.Contains(t, got, `  Voiceover: "Want to ship faster?"`)
	assert.Contains(t, got, "## AVAILABLE IMAGES (2 total)")
	assert.Contains(t, got, "  images[0]: "+longURL[:80]+"...\n")
	assert.Contains(t, got, "  images[1]: https://cdn.example.com/b.png\n")
	assert.Contains(t, got, "Audio duration: 12.0s")
	assert.Contains(t, got, "Word timestamps available for sync (12 words).")
	assert.Contains(t, got, `"w" @2.25s`)
	assert.NotContains(t, got, `"w" @2.50s`)
	assert.Contains(t, got, "- Total frames: 360 (Sequences must add up to this)")
	assert.True(t, strings.HasSuffix(got, "Generate the code now."))
}

func TestBuildUserPromptWithoutAudio(t *testing.T) {
	got := BuildUserPrompt(PromptInput{Script: sampleScript(), TotalFrames: 360, FPS: 30, Dimensions: DimensionsFor("1:1")})
	assert.Contains(t, got, "## AUDIO\nNo audio. This is a text-only video.")
	assert.Contains(t, got, "## AVAILABLE IMAGES (0 total)")
}

func TestBuildUserPromptNormalisesText(t *testing.T) {
	script := sampleScript()
	script.Scenes[0].OnScreenText.Headline = "  Cafe\u0301  "
	got := BuildUserPrompt(PromptInput{Script: script, TotalFrames: 360, FPS: 30})
	assert.Contains(t, got, "Headline: \"Caf\u00e9\"")
}

func TestWithIterationInactive(t *testing.T) {
	assert.Equal(t, "base", WithIteration("base", nil))
	assert.Equal(t, "base", WithIteration("base", &domain.Iteration{Feedback: "only feedback"}))
}

func TestWithDiagnostics(t *testing.T) {
	assert.Equal(t, "base", WithDiagnostics("base", nil))
	got := WithDiagnostics("base", []string{"[Syntax] a", "[Structure] b"})
	assert.Contains(t, got, "- [Syntax] a\n- [Structure] b\n")
	assert.True(t, strings.HasPrefix(got, "base\n\n## IMPORTANT: Fix These Issues From Previous Attempt\n"))
}
