package codegen

import (
	_ "embed"
	"fmt"
	"strconv"
	"strings"
	"text/template"

	"videogen/internal/domain"
)

//go:embed system_prompt.tmpl
var systemPromptText string

// Delimiters avoid clashing with JSX style objects in the examples.
var systemPromptTmpl = template.Must(template.New("system").Delims("[[", "]]").Parse(systemPromptText))

const (
	imageURLPreview = 80
	wordPreview     = 10
)

// PromptInput is the data the user prompt is rendered from.
type PromptInput struct {
	Script      *domain.Script
	ImageURLs   []string
	Audio       *domain.AudioDescriptor
	TotalFrames int
	FPS         int
	Dimensions  Dimensions
}

// BuildSystemPrompt renders the fixed instructions for the given output size.
func BuildSystemPrompt(dims Dimensions, fps int) (string, error) {
	sb := &strings.Builder{}
	data := struct {
		Width, Height, FPS int
	}{dims.Width, dims.Height, fps}
	if err := systemPromptTmpl.Execute(sb, data); err != nil {
		return "", fmt.Errorf("render system prompt: %w", err)
	}
	return sb.String(), nil
}

// BuildUserPrompt describes the concrete video: specs, palette, per-scene
// timing, images, audio and closing requirements.
func BuildUserPrompt(in PromptInput) string {
	fps := in.FPS
	if fps <= 0 {
		fps = DefaultFPS
	}
	sb := &strings.Builder{}
	sb.WriteString("Generate a Remotion video composition for the following script.\n\n")

	sb.WriteString("## VIDEO SPECS\n")
	seconds := strconv.FormatFloat(float64(in.TotalFrames)/float64(fps), 'f', -1, 64)
	fmt.Fprintf(sb, "- Total duration: %d frames (%ss at %dfps)\n", in.TotalFrames, seconds, fps)
	fmt.Fprintf(sb, "- Dimensions: %dx%d\n\n", in.Dimensions.Width, in.Dimensions.Height)

	var palette domain.ColorPalette
	var scenes []domain.Scene
	if in.Script != nil {
		palette = in.Script.ColorPalette
		scenes = in.Script.Scenes
	}
	sb.WriteString("## COLOR PALETTE\n")
	fmt.Fprintf(sb, "- Primary: %s\n", palette.Primary)
	fmt.Fprintf(sb, "- Secondary: %s\n", palette.Secondary)
	fmt.Fprintf(sb, "- Accent: %s\n", palette.Accent)
	fmt.Fprintf(sb, "- Background: %s\n", palette.Background)
	sb.WriteString("Use the theme colours in C, and prefer these palette colours where they fit the mood.\n\n")

	sb.WriteString("## SCENES\n")
	offset := 0
	for _, scene := range scenes {
		frames := scene.Frames(fps)
		fmt.Fprintf(sb, "### Scene %q (%d frames, from=%d, mood: %s)\n", clean(scene.ID), frames, offset, clean(scene.Mood))
		text := scene.OnScreenText
		if h := clean(text.Headline); h != "" {
			fmt.Fprintf(sb, "  Headline: %q\n", h)
		}
		if s := clean(text.Subhead); s != "" {
			fmt.Fprintf(sb, "  Subhead: %q\n", s)
		}
		if len(text.BulletPoints) > 0 {
			sb.WriteString("  Bullets:\n")
			for _, b := range text.BulletPoints {
				fmt.Fprintf(sb, "    - %q\n", clean(b))
			}
		}
		if len(text.Emphasis) > 0 {
			words := make([]string, len(text.Emphasis))
			for i, w := range text.Emphasis {
				words[i] = clean(w)
			}
			fmt.Fprintf(sb, "  Emphasis words: %s\n", strings.Join(words, ", "))
		}
		fmt.Fprintf(sb, "  Visual direction: %s\n", clean(scene.VisualDirection))
		if v := clean(scene.Voiceover); v != "" {
			fmt.Fprintf(sb, "  Voiceover: %q\n", v)
		}
		sb.WriteString("\n")
		offset += frames
	}

	fmt.Fprintf(sb, "## AVAILABLE IMAGES (%d total)\n", len(in.ImageURLs))
	for i, url := range in.ImageURLs {
		fmt.Fprintf(sb, "  images[%d]: %s\n", i, truncate(url, imageURLPreview))
	}
	sb.WriteString("Use CinematicBG with images for visually rich scenes, or CenterScene for text-focused scenes.\n\n")

	sb.WriteString("## AUDIO\n")
	if in.Audio != nil {
		sb.WriteString("audioUrl is available, add <Audio src={audioUrl} /> in the first Sequence.\n")
		fmt.Fprintf(sb, "Audio duration: %.1fs\n", in.Audio.Duration)
		if n := len(in.Audio.Words); n > 0 {
			fmt.Fprintf(sb, "Word timestamps available for sync (%d words).\n", n)
			head := in.Audio.Words
			if len(head) > wordPreview {
				head = head[:wordPreview]
			}
			parts := make([]string, len(head))
			for i, w := range head {
				parts[i] = fmt.Sprintf("%q @%.2fs", clean(w.Word), w.Start)
			}
			fmt.Fprintf(sb, "First few words: %s\n", strings.Join(parts, ", "))
		}
		sb.WriteString("\n")
	} else {
		sb.WriteString("No audio. This is a text-only video.\n\n")
	}

	sb.WriteString("## REQUIREMENTS\n")
	fmt.Fprintf(sb, "- Total frames: %d (Sequences must add up to this)\n", in.TotalFrames)
	sb.WriteString("- Every scene needs an exit animation (useExit)\n")
	sb.WriteString("- Prefer the component library (CenterScene, FadeUp and friends) over raw divs\n")
	sb.WriteString("- Keep the motion cinematic and professional\n")
	sb.WriteString("- The last scene has NO exit transition; it holds the final frame\n")
	sb.WriteString("\nGenerate the code now.")
	return sb.String()
}

// WithIteration appends the previous version and the requested change. An
// inactive iteration leaves the prompt untouched.
func WithIteration(base string, it *domain.Iteration) string {
	if !it.Active() {
		return base
	}
	sb := &strings.Builder{}
	sb.WriteString(base)
	sb.WriteString("\n\n## ITERATION: MODIFY THE PREVIOUS VERSION\n")
	fmt.Fprintf(sb, "The user asked for this change: %q\n\n", clean(it.Feedback))
	sb.WriteString("Previous code:\n```\n")
	sb.WriteString(it.PreviousCode)
	sb.WriteString("\n```\n\n")
	sb.WriteString("Apply the requested change to that code. Output the FULL modified code, not a diff.")
	return sb.String()
}

// WithDiagnostics appends the previous attempt's validation errors verbatim.
func WithDiagnostics(base string, diagnostics []string) string {
	if len(diagnostics) == 0 {
		return base
	}
	sb := &strings.Builder{}
	sb.WriteString(base)
	sb.WriteString("\n\n## IMPORTANT: Fix These Issues From Previous Attempt\n")
	for _, d := range diagnostics {
		fmt.Fprintf(sb, "- %s\n", d)
	}
	sb.WriteString("\nFix ALL of the issues above and output the complete corrected code.")
	return sb.String()
}
