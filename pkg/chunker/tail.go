package chunker

// paragraphTail remembers the most recent paragraphs packed into the current
// buffer, up to a fixed capacity. Older paragraphs are dropped.
type paragraphTail struct {
	buf   []string
	start int
	size  int
}

func newParagraphTail(capacity int) *paragraphTail {
	if capacity < 1 {
		capacity = 1
	}
	return &paragraphTail{buf: make([]string, capacity)}
}

func (t *paragraphTail) push(p string) {
	if t.size < len(t.buf) {
		t.buf[(t.start+t.size)%len(t.buf)] = p
		t.size++
		return
	}
	t.buf[t.start] = p
	t.start = (t.start + 1) % len(t.buf)
}

// last returns up to n of the newest paragraphs, oldest first.
func (t *paragraphTail) last(n int) []string {
	if n > t.size {
		n = t.size
	}
	out := make([]string, 0, n)
	for i := t.size - n; i < t.size; i++ {
		out = append(out, t.buf[(t.start+i)%len(t.buf)])
	}
	return out
}

func (t *paragraphTail) len() int { return t.size }

func (t *paragraphTail) reset() {
	t.start = 0
	t.size = 0
}
