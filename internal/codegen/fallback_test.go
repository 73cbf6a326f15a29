package codegen

import (
	"context"
	"regexp"
	"strconv"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"videogen/internal/composition"
	"videogen/internal/domain"
	"videogen/internal/validator"
)

var sceneSequence = regexp.MustCompile(`<Sequence from=\{(\d+)\} durationInFrames=\{(\d+)\}><Scene(\d+) />`)

func fallbackInput() FallbackInput {
	return FallbackInput{
		Script:      sampleScript(),
		ImageURLs:   []string{"https://cdn.example.com/hero.png"},
		Audio:       &domain.AudioDescriptor{URL: "https://cdn.example.com/vo.mp3", Duration: 12},
		TotalFrames: 360,
		FPS:         30,
	}
}

func TestBuildFallbackIsDeterministic(t *testing.T) {
	a := BuildFallback(fallbackInput())
	b := BuildFallback(fallbackInput())
	if diff := cmp.Diff(a, b); diff != "" {
		t.Fatalf("fallback output differs (-first +second):\n%s", diff)
	}
}

func TestBuildFallbackFrameOffsets(t *testing.T) {
	code := BuildFallback(fallbackInput())
	matches := sceneSequence.FindAllStringSubmatch(code, -1)
	require.Len(t, matches, 3)

	next := 0
	for i, m := range matches {
		from, _ := strconv.Atoi(m[1])
		frames, _ := strconv.Atoi(m[2])
		assert.Equal(t, next, from, "scene %d offset", i)
		assert.Equal(t, strconv.Itoa(i), m[3])
		next += frames
	}
	assert.Equal(t, 360, next)
}

func TestBuildFallbackScenes(t *testing.T) {
	code := BuildFallback(fallbackInput())

	assert.Contains(t, code, "const { op, y } = useExit(125, 150);")
	assert.Contains(t, code, "const { op, y } = useExit(95, 120);")
	assert.Equal(t, 2, strings.Count(code, "useExit("), "last scene must not exit")

	assert.Contains(t, code, "<CinematicBG src={images[0]} overlayOpacity={0.6} />")
	assert.NotContains(t, code, "images[1]")
	assert.Contains(t, code, `<CenterScene opacity={op} translateY={y} seed={1} tint={"#ec4899"}>`)
	assert.Contains(t, code, `<CenterScene opacity={1} translateY={0} seed={2} tint={"#22d3ee"}>`)

	assert.Contains(t, code, `{"Ship faster"}`)
	assert.Contains(t, code, `{"Without the busywork"}`)
	assert.Contains(t, code, `{"Social Proof"}`)
	assert.Contains(t, code, `<FadeUp delay={30} style=`)
	assert.Contains(t, code, `{"→ Fast"}`)
	assert.Contains(t, code, `<FadeUp delay={45} style=`)
	assert.Contains(t, code, `{"→ Simple"}`)
	assert.Contains(t, code, `backgroundColor: "#0a0a0a"`)
	assert.True(t, strings.HasSuffix(code, "return MyVideo;\n"))
}

func TestBuildFallbackAudioComesFirst(t *testing.T) {
	code := BuildFallback(fallbackInput())
	audio := strings.Index(code, `<Sequence from={0} durationInFrames={360}><Audio src={audioUrl} /></Sequence>`)
	first := strings.Index(code, "<Scene0 />")
	require.GreaterOrEqual(t, audio, 0)
	assert.Less(t, audio, first)

	in := fallbackInput()
	in.Audio = nil
	assert.NotContains(t, BuildFallback(in), "<Audio")
}

func TestBuildFallbackEscapesText(t *testing.T) {
	in := fallbackInput()
	in.Script.Scenes[0].OnScreenText.Headline = `"}</div>{alert(1)}`
	code := BuildFallback(in)
	assert.NotContains(t, code, `</div>{alert(1)}`)
	assert.Contains(t, code, `{"\"}\u003c/div\u003e{alert(1)}"}`)
}

func TestBuildFallbackPassesValidation(t *testing.T) {
	code := BuildFallback(fallbackInput())
	res := validator.ValidateAll(code)
	if !res.Valid {
		t.Fatalf("fallback rejected: %v", res.Errors)
	}

	prog, err := composition.Compile(context.Background(), code)
	require.NoError(t, err)
	assert.Equal(t, "MyVideo", prog.Component)
}

func TestTimelineRoundsFractionalDurations(t *testing.T) {
	script := &domain.Script{Scenes: []domain.Scene{{Duration: 1.5}, {Duration: 2}}}
	got := Timeline(script, 30)
	want := []Segment{{Index: 0, From: 0, Frames: 45}, {Index: 1, From: 45, Frames: 60}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("timeline mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildFallbackTinySceneKeepsOneFrame(t *testing.T) {
	script := &domain.Script{Scenes: []domain.Scene{
		{ID: "flash", Duration: 0.01, OnScreenText: domain.OnScreenText{Headline: "Blink"}},
		{ID: "rest", Duration: 2, OnScreenText: domain.OnScreenText{Headline: "Hold"}},
	}}
	want := []Segment{{Index: 0, From: 0, Frames: 1}, {Index: 1, From: 1, Frames: 60}}
	if diff := cmp.Diff(want, Timeline(script, 30)); diff != "" {
		t.Fatalf("timeline mismatch (-want +got):\n%s", diff)
	}

	code := BuildFallback(FallbackInput{Script: script, FPS: 30})
	assert.NotContains(t, code, "durationInFrames={0}")
	assert.Contains(t, code, "useExit(0, 1)")
	assert.Contains(t, code, "<Sequence from={1} durationInFrames={60}><Scene1 /></Sequence>")
}
