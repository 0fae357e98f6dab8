// Package camera provides the 2D pan camera of the map view.
package camera

// PanCamera scrolls a viewport over a map of fixed pixel size. X and Y are
// the map pixel shown at the viewport's top-left corner.
type PanCamera struct {
	X, Y int

	// Smallest Y. Negative when raised tiles stick out above the map box.
	Top int

	// Viewport size in pixels
	ViewWidth, ViewHeight int

	// Map size in pixels
	MapWidth, MapHeight int

	// Keyboard pan step in pixels
	Step int

	dragging     bool
	dragX, dragY int
}

// NewPanCamera creates a camera for a viewport of the given size.
func NewPanCamera(viewWidth, viewHeight int) *PanCamera {
	return &PanCamera{
		ViewWidth:  viewWidth,
		ViewHeight: viewHeight,
		Step:       32,
	}
}

// SetMapSize sets the map size and re-clamps the position.
func (c *PanCamera) SetMapSize(width, height int) {
	c.MapWidth, c.MapHeight = width, height
	c.clamp()
}

// Resize sets the viewport size and re-clamps the position.
func (c *PanCamera) Resize(width, height int) {
	c.ViewWidth, c.ViewHeight = width, height
	c.clamp()
}

// SetTop sets the smallest Y and re-clamps the position. It reports whether
// the position changed.
func (c *PanCamera) SetTop(top int) bool {
	oy := c.Y
	c.Top = top
	c.clamp()
	return c.Y != oy
}

// MoveTo places the top-left corner at (x, y), clamped to the map. It
// reports whether the position changed.
func (c *PanCamera) MoveTo(x, y int) bool {
	ox, oy := c.X, c.Y
	c.X, c.Y = x, y
	c.clamp()
	return c.X != ox || c.Y != oy
}

// Pan moves the camera by (dx, dy).
func (c *PanCamera) Pan(dx, dy int) bool {
	return c.MoveTo(c.X+dx, c.Y+dy)
}

// HandleMovement pans one step per unit of direction.
func (c *PanCamera) HandleMovement(right, down int) bool {
	return c.Pan(right*c.Step, down*c.Step)
}

// StartDrag begins a grab-and-drag pan at screen point (x, y).
func (c *PanCamera) StartDrag(x, y int) {
	c.dragging = true
	c.dragX, c.dragY = x, y
}

// HandleDrag pans so the grabbed point follows the pointer.
func (c *PanCamera) HandleDrag(x, y int) bool {
	if !c.dragging {
		return false
	}
	dx, dy := c.dragX-x, c.dragY-y
	c.dragX, c.dragY = x, y
	return c.Pan(dx, dy)
}

// EndDrag stops dragging.
func (c *PanCamera) EndDrag() {
	c.dragging = false
}

// Dragging reports whether a drag is in progress.
func (c *PanCamera) Dragging() bool { return c.dragging }

// ScreenToMap converts a viewport point to map pixels.
func (c *PanCamera) ScreenToMap(x, y int) (int, int) {
	return x + c.X, y + c.Y
}

// MapToScreen converts map pixels to a viewport point.
func (c *PanCamera) MapToScreen(x, y int) (int, int) {
	return x - c.X, y - c.Y
}

// CenterOn centers the viewport on map point (x, y).
func (c *PanCamera) CenterOn(x, y int) bool {
	return c.MoveTo(x-c.ViewWidth/2, y-c.ViewHeight/2)
}

func (c *PanCamera) clamp() {
	c.X = clampAxis(c.X, 0, c.MapWidth, c.ViewWidth)
	c.Y = clampAxis(c.Y, c.Top, c.MapHeight, c.ViewHeight)
}

// clampAxis keeps the view inside [lo, end). A map smaller than the view is
// pinned at lo.
func clampAxis(pos, lo, end, viewSize int) int {
	limit := end - viewSize
	if limit < lo {
		limit = lo
	}
	if pos > limit {
		pos = limit
	}
	if pos < lo {
		pos = lo
	}
	return pos
}
