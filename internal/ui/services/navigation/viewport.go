package navigation

// Direction represents movement directions
type Direction string

const (
	DirectionUp       Direction = "up"
	DirectionDown     Direction = "down"
	DirectionPageUp   Direction = "pageup"
	DirectionPageDown Direction = "pagedown"
	DirectionHome     Direction = "home"
	DirectionEnd      Direction = "end"
)

// Viewport is a clamped cursor over a list of Len rows, of which Height are
// visible starting at Offset. The detail page uses it for protein lists.
type Viewport struct {
	Cursor int
	Offset int
	Height int
	Len    int
}

// NewViewport creates a viewport showing height rows
func NewViewport(height int) *Viewport {
	v := &Viewport{}
	v.SetHeight(height)
	return v
}

// Reset moves back to the top of a list of n rows
func (v *Viewport) Reset(n int) {
	v.Len = n
	v.Cursor = 0
	v.Offset = 0
}

// SetHeight updates the number of visible rows
func (v *Viewport) SetHeight(height int) {
	if height < 1 {
		height = 1
	}
	v.Height = height
	v.ensureVisible()
}

// Move moves the cursor; it never wraps
func (v *Viewport) Move(direction Direction) {
	switch direction {
	case DirectionUp:
		v.Cursor = v.clamp(v.Cursor - 1)
	case DirectionDown:
		v.Cursor = v.clamp(v.Cursor + 1)
	case DirectionPageUp:
		v.Cursor = v.clamp(v.Cursor - (v.Height - 1))
	case DirectionPageDown:
		v.Cursor = v.clamp(v.Cursor + (v.Height - 1))
	case DirectionHome:
		v.Cursor = 0
	case DirectionEnd:
		v.Cursor = v.clamp(v.Len - 1)
	}
	v.ensureVisible()
}

// Visible returns the half-open range of rows on screen
func (v *Viewport) Visible() (start, end int) {
	end = v.Offset + v.Height
	if end > v.Len {
		end = v.Len
	}
	return v.Offset, end
}

func (v *Viewport) clamp(index int) int {
	if index > v.Len-1 {
		index = v.Len - 1
	}
	if index < 0 {
		return 0
	}
	return index
}

func (v *Viewport) ensureVisible() {
	if v.Cursor < v.Offset {
		v.Offset = v.Cursor
	} else if v.Cursor >= v.Offset+v.Height {
		v.Offset = v.Cursor - v.Height + 1
	}
}
