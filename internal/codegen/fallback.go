package codegen

import (
	"fmt"
	"strings"

	"videogen/internal/domain"
)

const (
	exitLeadFrames    = 25
	headlineDelay     = 8
	subheadDelay      = 25
	firstBulletDelay  = 30
	bulletDelayStep   = 15
	defaultBackground = "#0a0a0a"
	defaultTint       = "#6366f1"
	bulletPrefix      = "→ "
)

const fallbackHeader = `const { AbsoluteFill, Sequence, Audio } = Remotion;
const { CenterScene, Content, CinematicBG, FadeUp, useExit } = Components;
const { C, F } = Theme;
`

const (
	headlineStyle = `{{ fontSize: 44, fontWeight: 900, fontFamily: F, lineHeight: 1.15, color: "#ffffff" }}`
	imageHeadline = `{{ fontSize: 44, fontWeight: 900, fontFamily: F, lineHeight: 1.15, color: "#ffffff", textShadow: "0 2px 20px rgba(0,0,0,0.8)" }}`
	subheadStyle  = `{{ fontSize: 22, color: "#94a3b8", fontFamily: F, fontWeight: 500, marginTop: 16 }}`
	bulletStyle   = `{{ fontSize: 18, color: "#ffffff", fontFamily: F, fontWeight: 500, marginTop: 8 }}`
)

// FallbackInput is the data the template composition is built from.
type FallbackInput struct {
	Script      *domain.Script
	ImageURLs   []string
	Audio       *domain.AudioDescriptor
	TotalFrames int
	FPS         int
}

// Segment is one placed scene on the timeline.
type Segment struct {
	Index  int
	From   int
	Frames int
}

// Timeline lays scenes end to end. Every From is the sum of the preceding
// Frames values.
func Timeline(script *domain.Script, fps int) []Segment {
	if script == nil {
		return nil
	}
	out := make([]Segment, 0, len(script.Scenes))
	offset := 0
	for i, scene := range script.Scenes {
		frames := scene.Frames(fps)
		out = append(out, Segment{Index: i, From: offset, Frames: frames})
		offset += frames
	}
	return out
}

// BuildFallback renders a deterministic composition from the script alone.
// Equal inputs always yield byte-identical output. User text only ever
// appears as escaped string literals.
func BuildFallback(in FallbackInput) string {
	fps := in.FPS
	if fps <= 0 {
		fps = DefaultFPS
	}
	segments := Timeline(in.Script, fps)
	total := in.TotalFrames
	if total <= 0 {
		total = in.Script.TotalFrames(fps)
	}

	var palette domain.ColorPalette
	if in.Script != nil {
		palette = in.Script.ColorPalette
	}
	tints := paletteTints(palette)

	sb := &strings.Builder{}
	sb.WriteString(fallbackHeader)
	for _, seg := range segments {
		sb.WriteString("\n")
		writeScene(sb, in, seg, seg.Index == len(segments)-1, tints[seg.Index%len(tints)])
	}

	background := strings.TrimSpace(palette.Background)
	if background == "" {
		background = defaultBackground
	}
	sb.WriteString("\nconst MyVideo = () => (\n")
	fmt.Fprintf(sb, "  <AbsoluteFill style={{ backgroundColor: %s }}>\n", jsString(background))
	if in.Audio != nil {
		fmt.Fprintf(sb, "    <Sequence from={0} durationInFrames={%d}><Audio src={audioUrl} /></Sequence>\n", total)
	}
	for _, seg := range segments {
		fmt.Fprintf(sb, "    <Sequence from={%d} durationInFrames={%d}><Scene%d /></Sequence>\n", seg.From, seg.Frames, seg.Index)
	}
	sb.WriteString("  </AbsoluteFill>\n);\n\nreturn MyVideo;\n")
	return sb.String()
}

func writeScene(sb *strings.Builder, in FallbackInput, seg Segment, last bool, tint string) {
	scene := in.Script.Scenes[seg.Index]
	fmt.Fprintf(sb, "const Scene%d = () => {\n", seg.Index)

	opacity, translate := "1", "0"
	if !last {
		start := seg.Frames - exitLeadFrames
		if start < 0 {
			start = 0
		}
		fmt.Fprintf(sb, "  const { op, y } = useExit(%d, %d);\n", start, seg.Frames)
		opacity, translate = "op", "y"
	}
	sb.WriteString("  return (\n")

	headline := clean(scene.OnScreenText.Headline)
	if headline == "" {
		headline = sceneLabel(scene.ID)
	}
	if seg.Index < len(in.ImageURLs) {
		fmt.Fprintf(sb, "    <AbsoluteFill style={{ opacity: %s, transform: \"translateY(\" + %s + \"px)\" }}>\n", opacity, translate)
		fmt.Fprintf(sb, "      <CinematicBG src={images[%d]} overlayOpacity={0.6} />\n", seg.Index)
		sb.WriteString("      <Content>\n")
		writeText(sb, "        ", headline, imageHeadline, scene.OnScreenText)
		sb.WriteString("      </Content>\n")
		sb.WriteString("    </AbsoluteFill>\n")
	} else {
		fmt.Fprintf(sb, "    <CenterScene opacity={%s} translateY={%s} seed={%d} tint={%s}>\n", opacity, translate, seg.Index, jsString(tint))
		writeText(sb, "      ", headline, headlineStyle, scene.OnScreenText)
		sb.WriteString("    </CenterScene>\n")
	}
	sb.WriteString("  );\n};\n")
}

func writeText(sb *strings.Builder, indent, headline, style string, text domain.OnScreenText) {
	fmt.Fprintf(sb, "%s<FadeUp delay={%d}>\n", indent, headlineDelay)
	fmt.Fprintf(sb, "%s  <div style=%s>{%s}</div>\n", indent, style, jsString(headline))
	fmt.Fprintf(sb, "%s</FadeUp>\n", indent)
	if sub := clean(text.Subhead); sub != "" {
		fmt.Fprintf(sb, "%s<FadeUp delay={%d} style=%s>{%s}</FadeUp>\n", indent, subheadDelay, subheadStyle, jsString(sub))
	}
	for i, b := range text.BulletPoints {
		fmt.Fprintf(sb, "%s<FadeUp delay={%d} style=%s>{%s}</FadeUp>\n", indent, firstBulletDelay+i*bulletDelayStep, bulletStyle, jsString(bulletPrefix+clean(b)))
	}
}

func paletteTints(p domain.ColorPalette) []string {
	var out []string
	for _, c := range []string{p.Primary, p.Secondary, p.Accent} {
		if c = strings.TrimSpace(c); c != "" {
			out = append(out, c)
		}
	}
	if len(out) == 0 {
		out = []string{defaultTint}
	}
	return out
}
