// Package hittest defines the closed set of regions a point-in-window test
// can return.
package hittest

// Result is the closed set of hit-test outcomes. There is no catch-all
// variant: every window region maps to exactly one of these.
type Result int

const (
	None Result = iota
	Content
	TitleBar
	CloseButton
	MinimizeButton
	MaximizeButton
	EdgeTop
	EdgeBottom
	EdgeLeft
	EdgeRight
	EdgeTopLeft
	EdgeTopRight
	EdgeBottomLeft
	EdgeBottomRight
)

// IsResizeEdge reports whether r names one of the eight resize-border
// regions.
func (r Result) IsResizeEdge() bool {
	return r >= EdgeTop && r <= EdgeBottomRight
}

// IsButton reports whether r names one of the three traffic-light buttons.
func (r Result) IsButton() bool {
	return r == CloseButton || r == MinimizeButton || r == MaximizeButton
}
