package cmdline

// LineBuffer assembles command lines from arbitrary chunks of input.
//   - '\r' and '\n' both end a line, empty lines are dropped
//   - bytes beyond size-1 are discarded until the line ends
type LineBuffer struct {
	buf  []byte
	size int
}

func NewLineBuffer(size int) *LineBuffer {
	return &LineBuffer{buf: make([]byte, 0, size), size: size}
}

// Feed consumes chunk and returns every line it completed.
func (lb *LineBuffer) Feed(chunk []byte) []string {
	var lines []string
	for _, ch := range chunk {
		switch {
		case ch == '\r' || ch == '\n':
			if len(lb.buf) > 0 {
				lines = append(lines, string(lb.buf))
			}
			lb.buf = lb.buf[:0]
		case len(lb.buf) < lb.size-1:
			lb.buf = append(lb.buf, ch)
		}
	}
	return lines
}

// Pending returns the bytes of the line currently being assembled.
func (lb *LineBuffer) Pending() string {
	return string(lb.buf)
}
