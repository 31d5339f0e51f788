package lookout

import (
	"sync"

	"github.com/gdamore/tcell/v2"
)

// Viewport supplies the visible area in cells.
type Viewport interface {
	Size() (width, height int)
}

// ScreenViewport sizes the document by a tcell screen.
type ScreenViewport struct {
	Screen tcell.Screen
}

// Size returns the screen size.
func (v ScreenViewport) Size() (width, height int) {
	return v.Screen.Size()
}

// FixedViewport is a viewport of a set size, for tests and offscreen
// documents.
type FixedViewport struct {
	mu            sync.Mutex
	width, height int
}

// NewFixedViewport creates a viewport of width x height cells.
func NewFixedViewport(width, height int) *FixedViewport {
	return &FixedViewport{width: width, height: height}
}

// Size returns the current size.
func (v *FixedViewport) Size() (width, height int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.width, v.height
}

// Resize changes the size. Documents pick it up on their next layout.
func (v *FixedViewport) Resize(width, height int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.width, v.height = width, height
}
