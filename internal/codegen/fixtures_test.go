package codegen

import (
	"context"
	"errors"
	"sync"

	"videogen/internal/domain"
)

const validCode = `const { AbsoluteFill, Sequence, useCurrentFrame, interpolate } = Remotion;
const { CenterScene, FadeUp, useExit } = Components;
const { C, F } = Theme;

const HookScene = () => {
  const { op, y } = useExit(125, 150);
  return (
    <CenterScene opacity={op} translateY={y} seed={1} tint={C.primary}>
      <FadeUp delay={8}>
        <div style={{ fontSize: 48, fontWeight: 900, fontFamily: F, color: C.white }}>Ship faster</div>
      </FadeUp>
    </CenterScene>
  );
};

const OutroScene = () => {
  const frame = useCurrentFrame();
  const fade = interpolate(frame, [0, 20], [0, 1]);
  return (
    <CenterScene opacity={fade}>
      <FadeUp delay={10}>Thanks for watching</FadeUp>
    </CenterScene>
  );
};

const MyVideo = () => (
  <AbsoluteFill style={{ backgroundColor: C.bg }}>
    <Sequence from={0} durationInFrames={150}><HookScene /></Sequence>
    <Sequence from={150} durationInFrames={150}><OutroScene /></Sequence>
  </AbsoluteFill>
);

return MyVideo;`

func sampleScript() *domain.Script {
	return &domain.Script{
		ID:    "script-1",
		JobID: "job-1",
		Scenes: []domain.Scene{
			{
				ID:       "hook",
				Duration: 5,
				Mood:     "energetic",
				OnScreenText: domain.OnScreenText{
					Headline: "Ship faster",
					Subhead:  "Without the busywork",
				},
				VisualDirection: "bold type on dark grid",
				Voiceover:       "Want to ship faster?",
			},
			{
				ID:       "social-proof",
				Duration: 4,
				Mood:     "confident",
				OnScreenText: domain.OnScreenText{
					BulletPoints: []string{"Fast", "Simple"},
					Emphasis:     []string{"Fast"},
				},
				VisualDirection: "stacked bullets",
			},
			{
				ID:       "cta",
				Duration: 3,
				Mood:     "warm",
				OnScreenText: domain.OnScreenText{
					Headline: "Start today",
				},
				VisualDirection: "logo and button",
			},
		},
		ColorPalette: domain.ColorPalette{
			Primary:    "#6366f1",
			Secondary:  "#ec4899",
			Accent:     "#22d3ee",
			Background: "#0a0a0a",
		},
	}
}

type reply struct {
	text  string
	err   error
	panic bool
}

type fakeClient struct {
	mu       sync.Mutex
	readyErr error
	replies  []reply
	prompts  []string
	systems  []string
}

func (f *fakeClient) Ready() error { return f.readyErr }

func (f *fakeClient) Complete(ctx context.Context, system, user string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.systems = append(f.systems, system)
	f.prompts = append(f.prompts, user)
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if len(f.replies) == 0 {
		return "", errors.New("no scripted reply")
	}
	r := f.replies[0]
	f.replies = f.replies[1:]
	if r.panic {
		panic("boom")
	}
	return r.text, r.err
}

func (f *fakeClient) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.prompts)
}

type fakeScripts struct {
	script *domain.Script
	err    error
}

func (f fakeScripts) GetScript(_ context.Context, _ string) (*domain.Script, error) {
	return f.script, f.err
}

type write struct {
	jobID        string
	code         string
	usedFallback bool
}

type fakeStore struct {
	mu     sync.Mutex
	err    error
	writes []write
}

func (f *fakeStore) UpdateJobCode(_ context.Context, jobID, code string, usedFallback bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.writes = append(f.writes, write{jobID: jobID, code: code, usedFallback: usedFallback})
	return nil
}

type fakeArchive struct {
	saved []domain.GeneratedCodeArtifact
}

func (f *fakeArchive) SaveArtifact(_ context.Context, a domain.GeneratedCodeArtifact) (string, error) {
	f.saved = append(f.saved, a)
	return "jobs/" + a.JobID + "/0001.js", nil
}
