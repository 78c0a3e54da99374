// Package cursor provides cursor and scroll tracking for list panels.
package cursor

// Cursor tracks the selected row and scroll offset of a scrollable list.
// List length and viewport height are passed to methods rather than stored,
// since both change as stations are added or the terminal is resized.
type Cursor struct {
	pos    int // selected row (0-indexed)
	offset int // first visible row
	margin int // rows to keep visible above/below the cursor
}

// New creates a Cursor with the given scroll margin.
func New(margin int) Cursor {
	return Cursor{margin: margin}
}

// Pos returns the selected row.
func (c Cursor) Pos() int {
	return c.pos
}

// Offset returns the scroll offset.
func (c Cursor) Offset() int {
	return c.offset
}

// Move moves the cursor by delta rows within a list of the given length,
// clamping to valid bounds and scrolling to keep the cursor visible.
// A no-op when the list is empty.
func (c *Cursor) Move(delta, listLen, height int) {
	if listLen == 0 {
		return
	}
	c.pos = clamp(c.pos+delta, listLen-1)
	c.ensureVisible(listLen, height)
}

// Jump sets the cursor to an absolute row, clamping and scrolling as Move does.
func (c *Cursor) Jump(pos, listLen, height int) {
	if listLen == 0 {
		return
	}
	c.pos = clamp(pos, listLen-1)
	c.ensureVisible(listLen, height)
}

// JumpStart moves the cursor to the first row and resets the scroll offset.
func (c *Cursor) JumpStart() {
	c.pos = 0
	c.offset = 0
}

// JumpEnd moves the cursor to the last row.
func (c *Cursor) JumpEnd(listLen, height int) {
	if listLen == 0 {
		return
	}
	c.pos = listLen - 1
	c.ensureVisible(listLen, height)
}

// EnsureVisible adjusts the scroll offset to keep the cursor on screen.
// Call after external cursor position changes.
func (c *Cursor) EnsureVisible(listLen, height int) {
	c.ensureVisible(listLen, height)
}

func (c *Cursor) ensureVisible(listLen, height int) {
	if height <= 0 || listLen == 0 {
		return
	}

	// Cursor too close to the top: scroll up
	if c.pos < c.offset+c.margin {
		c.offset = max(c.pos-c.margin, 0)
	}

	// Cursor too close to the bottom: scroll down
	if c.pos >= c.offset+height-c.margin {
		c.offset = c.pos - height + c.margin + 1
	}

	maxOffset := max(listLen-height, 0)
	c.offset = clamp(c.offset, maxOffset)
}

// ClampToBounds pulls the cursor back into range after the list shrank
// (a station was removed). Returns true if the cursor moved.
func (c *Cursor) ClampToBounds(listLen int) bool {
	if listLen == 0 {
		changed := c.pos != 0 || c.offset != 0
		c.pos = 0
		c.offset = 0
		return changed
	}

	oldPos := c.pos
	c.pos = clamp(c.pos, listLen-1)
	return c.pos != oldPos
}

// VisibleRange returns the visible row range [start, end).
func (c Cursor) VisibleRange(listLen, height int) (start, end int) {
	if listLen == 0 || height <= 0 {
		return 0, 0
	}
	start = c.offset
	end = min(c.offset+height, listLen)
	return start, end
}

// HandleKey applies common list navigation keys and reports whether the key
// was handled. Supported: j/down, k/up, g/home, G/end, ctrl+d (half page
// down), ctrl+u (half page up).
func (c *Cursor) HandleKey(key string, listLen, height int) bool {
	switch key {
	case "j", "down":
		c.Move(1, listLen, height)
		return true
	case "k", "up":
		c.Move(-1, listLen, height)
		return true
	case "g", "home":
		c.JumpStart()
		return true
	case "G", "end":
		c.JumpEnd(listLen, height)
		return true
	case "ctrl+d":
		c.Move(height/2, listLen, height)
		return true
	case "ctrl+u":
		c.Move(-height/2, listLen, height)
		return true
	}
	return false
}

func clamp(v, maxVal int) int {
	if v < 0 {
		return 0
	}
	if v > maxVal {
		return maxVal
	}
	return v
}
