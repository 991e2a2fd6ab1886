// Package widget implements the canvas component hierarchy for go-canvas.
// This file defines the style record shared by image-like components.
package widget

// Style defines the visual appearance applied when a component's pixel
// source is presented. Components that carry no style state of their own
// (such as the canvas) delegate style access to their base image.
type Style struct {
	// Background is painted behind the pixel source.
	Background Color
	// BorderColor is the color used for the border.
	BorderColor Color
	// BorderWidth is the border thickness in pixels.
	BorderWidth float32
	// ShowBorder indicates whether to draw the border.
	ShowBorder bool
	// Opacity scales the source's alpha when presenting, 0.0 (fully
	// transparent) to 1.0 (opaque).
	Opacity float64
}

// DefaultStyle returns a Style with sensible defaults: black background,
// no border, fully opaque.
func DefaultStyle() *Style {
	return &Style{
		Background:  RGB(0, 0, 0),
		BorderColor: RGB(150, 150, 150),
		BorderWidth: 1.0,
		ShowBorder:  false,
		Opacity:     1.0,
	}
}
