package service

import "bytes"

const TruncationMarker = "\n... [diagnostics truncated]"

// cappedBuffer keeps at most limit bytes in arrival order and silently
// discards the rest. A limit <= 0 means no cap.
type cappedBuffer struct {
	buf       bytes.Buffer
	limit     int
	truncated bool
}

func newCappedBuffer(limit int) *cappedBuffer {
	return &cappedBuffer{limit: limit}
}

// Write never fails: the compiler must not see a broken pipe because we
// stopped listening.
func (c *cappedBuffer) Write(p []byte) (int, error) {
	if c.limit <= 0 {
		return c.buf.Write(p)
	}
	remaining := c.limit - c.buf.Len()
	switch {
	case remaining <= 0:
		if len(p) > 0 {
			c.truncated = true
		}
	case len(p) > remaining:
		c.buf.Write(p[:remaining])
		c.truncated = true
	default:
		c.buf.Write(p)
	}
	return len(p), nil
}

func (c *cappedBuffer) Truncated() bool { return c.truncated }

func (c *cappedBuffer) String() string {
	if c.truncated {
		return c.buf.String() + TruncationMarker
	}
	return c.buf.String()
}
