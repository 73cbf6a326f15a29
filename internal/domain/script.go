package domain

import (
	"fmt"
	"math"
	"strings"
)

// Script is the structured scene-by-scene brief that drives code generation.
// It is treated as read-only once a generation run starts.
type Script struct {
	ID              string       `json:"id"`
	JobID           string       `json:"job_id"`
	TotalDuration   float64      `json:"totalDuration"`
	VoiceoverScript string       `json:"voiceoverScript"`
	Scenes          []Scene      `json:"scenes"`
	ColorPalette    ColorPalette `json:"colorPalette"`
	ImagePrompts    []string     `json:"imagePrompts"`
}

// Scene is one timed segment of the composition.
type Scene struct {
	ID              string       `json:"id"`
	Duration        float64      `json:"duration"`
	Voiceover       string       `json:"voiceover,omitempty"`
	OnScreenText    OnScreenText `json:"onScreenText"`
	VisualDirection string       `json:"visualDirection"`
	Mood            string       `json:"mood"`
}

// OnScreenText is the text payload rendered inside a scene.
type OnScreenText struct {
	Headline     string   `json:"headline,omitempty"`
	Subhead      string   `json:"subhead,omitempty"`
	BulletPoints []string `json:"bulletPoints,omitempty"`
	Emphasis     []string `json:"emphasis,omitempty"`
}

// ColorPalette holds the hex colors chosen for the script.
type ColorPalette struct {
	Primary    string `json:"primary"`
	Secondary  string `json:"secondary"`
	Accent     string `json:"accent"`
	Background string `json:"background"`
}

// Frames converts the scene duration into a whole number of frames. A
// positive duration always occupies at least one frame.
func (s Scene) Frames(fps int) int {
	frames := int(math.Round(s.Duration * float64(fps)))
	if frames < 1 && s.Duration > 0 && fps > 0 {
		return 1
	}
	return frames
}

// TotalFrames sums the frame count of every scene.
func (s *Script) TotalFrames(fps int) int {
	if s == nil {
		return 0
	}
	total := 0
	for _, scene := range s.Scenes {
		total += scene.Frames(fps)
	}
	return total
}

// Validate reports whether the script can be turned into a composition.
func (s *Script) Validate() error {
	if s == nil {
		return fmt.Errorf("%w: script is nil", ErrInvalidScript)
	}
	if len(s.Scenes) == 0 {
		return fmt.Errorf("%w: script %s has no scenes", ErrInvalidScript, s.ID)
	}
	for i, scene := range s.Scenes {
		if scene.Duration <= 0 || math.IsNaN(scene.Duration) || math.IsInf(scene.Duration, 0) {
			label := strings.TrimSpace(scene.ID)
			if label == "" {
				label = fmt.Sprintf("#%d", i)
			}
			return fmt.Errorf("%w: scene %s has non-positive duration %v", ErrInvalidScript, label, scene.Duration)
		}
	}
	return nil
}
