package trie

import (
	"fmt"

	"fortio.org/safecast"
)

// Cursor is a byte position in the input text being tokenized.
type Cursor struct {
	Input string
	Off   uint32
}

// NewCursor creates a cursor at the start of the input.
func NewCursor(input string) Cursor {
	if _, err := safecast.Conv[uint32](len(input)); err != nil {
		panic(fmt.Errorf("input length overflow: %w", err))
	}
	return Cursor{Input: input}
}

// EOF reports whether the cursor has consumed the whole input.
func (c *Cursor) EOF() bool {
	return c.Off >= uint32(len(c.Input))
}

// Peek reads the current byte without advancing, 0 at EOF.
func (c *Cursor) Peek() byte {
	if c.EOF() {
		return 0
	}
	return c.Input[c.Off]
}

// Bump advances one byte and returns it, 0 at EOF.
func (c *Cursor) Bump() byte {
	if c.EOF() {
		return 0
	}
	b := c.Input[c.Off]
	c.Off++
	return b
}

// Mark remembers a cursor position so a failed walk can rewind.
type Mark uint32

// Mark saves the current position.
func (c *Cursor) Mark() Mark {
	return Mark(c.Off)
}

// Reset rewinds the cursor to a mark.
func (c *Cursor) Reset(m Mark) {
	c.Off = uint32(m)
}
