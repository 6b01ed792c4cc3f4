package timeline

// ScrollPane is anything with a vertical scroll offset.
type ScrollPane interface {
	ScrollTop() int
	SetScrollTop(int)
}

// ScrollSync mirrors the vertical offset of two panes. Setting the mirrored
// pane's offset may fire that pane's own scroll handler; the syncing guard
// swallows that echo so the two handlers never recurse into each other.
type ScrollSync struct {
	panes   [2]ScrollPane
	syncing bool
}

func NewScrollSync(a, b ScrollPane) *ScrollSync {
	return &ScrollSync{panes: [2]ScrollPane{a, b}}
}

// Scrolled is the scroll handler for pane src (0 or 1).
func (s *ScrollSync) Scrolled(src int) {
	if s.syncing || src < 0 || src > 1 {
		return
	}
	s.syncing = true
	defer func() { s.syncing = false }()
	top := s.panes[src].ScrollTop()
	if dst := s.panes[1-src]; dst.ScrollTop() != top {
		dst.SetScrollTop(top)
	}
}

// Offset is a plain ScrollPane that reports changes to a ScrollSync.
type Offset struct {
	top  int
	max  int
	id   int
	sync *ScrollSync
}

// NewLinkedOffsets returns two panes whose offsets are mirrored.
func NewLinkedOffsets() (*Offset, *Offset) {
	a, b := &Offset{id: 0}, &Offset{id: 1}
	s := NewScrollSync(a, b)
	a.sync, b.sync = s, s
	return a, b
}

func (o *Offset) ScrollTop() int { return o.top }

// SetScrollTop clamps to [0, max] and notifies the sync.
func (o *Offset) SetScrollTop(top int) {
	if top > o.max {
		top = o.max
	}
	if top < 0 {
		top = 0
	}
	if top == o.top {
		return
	}
	o.top = top
	if o.sync != nil {
		o.sync.Scrolled(o.id)
	}
}

// SetMax bounds the offset, typically rows minus visible height.
func (o *Offset) SetMax(m int) {
	if m < 0 {
		m = 0
	}
	o.max = m
	if o.top > m {
		o.SetScrollTop(m)
	}
}

// ScrollBy moves the offset by delta rows.
func (o *Offset) ScrollBy(delta int) {
	o.SetScrollTop(o.top + delta)
}
