package codegen

// DefaultFPS is the frame rate compositions are rendered at unless configured.
const DefaultFPS = 30

// DefaultAspectRatio is used for unknown or empty aspect ratios.
const DefaultAspectRatio = "9:16"

// Dimensions is the output frame size in pixels.
type Dimensions struct {
	Width  int
	Height int
}

var aspectRatioDims = map[string]Dimensions{
	"9:16": {Width: 1080, Height: 1920},
	"16:9": {Width: 1920, Height: 1080},
	"1:1":  {Width: 1080, Height: 1080},
}

// DimensionsFor maps an aspect ratio to pixel dimensions, defaulting to portrait.
func DimensionsFor(aspectRatio string) Dimensions {
	if d, ok := aspectRatioDims[aspectRatio]; ok {
		return d
	}
	return aspectRatioDims[DefaultAspectRatio]
}
