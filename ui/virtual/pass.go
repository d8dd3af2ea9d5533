package virtual

// Version is a monotonically increasing change detector. Any change is a
// Bump; observers compare by inequality.
type Version uint64

// Bump advances the version.
func (v *Version) Bump() { *v++ }

// passState is the bookkeeping for one render pass. The Controller keeps two
// of these and swaps them at the start of every pass, so the previous pass
// is always available for reorder detection without growing a history.
type passState struct {
	valid bool // false until the buffer has held a real pass

	y     int
	order []string
	index map[string]int

	// structural is set when the structural signal changed: every item is
	// visited as data-only and all previously ordered ids are invalidated.
	structural bool

	quota      int
	candidates []string
	queued     map[string]struct{}

	token Version

	mounted  int
	dataOnly int
}

func newPassState() *passState {
	return &passState{
		index:  make(map[string]int),
		queued: make(map[string]struct{}),
	}
}

// reset clears the buffer for reuse, keeping allocated capacity.
func (p *passState) reset(token Version) {
	p.valid = true
	p.y = 0
	p.order = p.order[:0]
	clear(p.index)
	p.structural = false
	p.quota = 0
	p.candidates = p.candidates[:0]
	clear(p.queued)
	p.token = token
	p.mounted = 0
	p.dataOnly = 0
}

// push appends id to the visitation order and returns its rank.
func (p *passState) push(id string) int {
	i := len(p.order)
	p.order = append(p.order, id)
	if _, dup := p.index[id]; !dup {
		p.index[id] = i
	}
	return i
}

// indexOf returns id's rank in this pass, or -1.
func (p *passState) indexOf(id string) int {
	if i, ok := p.index[id]; ok {
		return i
	}
	return -1
}

func (p *passState) queue(id string) {
	if _, ok := p.queued[id]; ok {
		return
	}
	p.queued[id] = struct{}{}
	p.candidates = append(p.candidates, id)
}

func (p *passState) unqueue(id string) {
	if _, ok := p.queued[id]; !ok {
		return
	}
	delete(p.queued, id)
	for i, c := range p.candidates {
		if c == id {
			p.candidates = append(p.candidates[:i], p.candidates[i+1:]...)
			break
		}
	}
}
