package virtual

// CategoryState describes where a size category is in its measurement
// lifecycle.
type CategoryState int

const (
	CategoryAbsent      CategoryState = iota // never claimed or claim dropped
	CategoryCalculating                      // one item is probing the size
	CategoryResolved                         // a measured value is available
)

func (s CategoryState) String() string {
	switch s {
	case CategoryAbsent:
		return "absent"
	case CategoryCalculating:
		return "calculating"
	case CategoryResolved:
		return "resolved"
	default:
		return "unknown"
	}
}

// SizeRecord is what the store knows about a single item id. Exactly one of
// Size and Category is meaningful; a zero record means the size is absent.
type SizeRecord struct {
	Size     int
	Category string
}

// category holds either a resolved value or the id of the item that
// currently owns the "being calculated" claim.
type category struct {
	value    int
	claimant string
}

// SizeStore maps item ids to explicit sizes or shared category references,
// and categories to their resolved values. It lives as long as the
// Controller that owns it.
type SizeStore struct {
	sizes      map[string]SizeRecord
	categories map[string]category

	// stale holds dynamic ids whose stored size must be measured again the
	// next time the item is mounted.
	stale map[string]struct{}
}

// NewSizeStore returns an empty store.
func NewSizeStore() *SizeStore {
	return &SizeStore{
		sizes:      make(map[string]SizeRecord),
		categories: make(map[string]category),
		stale:      make(map[string]struct{}),
	}
}

// SetSize stores an explicit size for id, replacing any category link.
func (s *SizeStore) SetSize(id string, size int) {
	s.sizes[id] = SizeRecord{Size: size}
}

// SetCategory links id to a shared size category.
func (s *SizeStore) SetCategory(id, cat string) {
	s.sizes[id] = SizeRecord{Category: cat}
}

// Record returns the raw record for id.
func (s *SizeStore) Record(id string) (SizeRecord, bool) {
	r, ok := s.sizes[id]
	return r, ok
}

// Size returns the effective size for id, following category links. It
// reports false when the size is absent or its category is unresolved.
func (s *SizeStore) Size(id string) (int, bool) {
	r, ok := s.sizes[id]
	if !ok {
		return 0, false
	}
	if r.Category != "" {
		v, st := s.Category(r.Category)
		return v, st == CategoryResolved
	}
	return r.Size, r.Size > 0
}

// Category returns the resolved value and lifecycle state of cat.
func (s *SizeStore) Category(cat string) (int, CategoryState) {
	c, ok := s.categories[cat]
	switch {
	case !ok:
		return 0, CategoryAbsent
	case c.claimant != "":
		return 0, CategoryCalculating
	default:
		return c.value, CategoryResolved
	}
}

// Claim marks cat as being calculated by id. Only an absent category can be
// claimed, so at most one id holds the claim at a time.
func (s *SizeStore) Claim(cat, id string) bool {
	if _, ok := s.categories[cat]; ok {
		return false
	}
	s.categories[cat] = category{claimant: id}
	return true
}

// Claimant returns the id probing cat, if the category is being calculated.
func (s *SizeStore) Claimant(cat string) (string, bool) {
	c, ok := s.categories[cat]
	if !ok || c.claimant == "" {
		return "", false
	}
	return c.claimant, true
}

// ReleaseClaim drops cat's claim if id holds it, returning the category to
// the absent state so another member can probe.
func (s *SizeStore) ReleaseClaim(cat, id string) bool {
	c, ok := s.categories[cat]
	if !ok || c.claimant != id {
		return false
	}
	delete(s.categories, cat)
	return true
}

// ResolveCategory stores the measured value for cat, ending any claim.
func (s *SizeStore) ResolveCategory(cat string, value int) {
	s.categories[cat] = category{value: value}
}

// MarkStale flags id for re-measurement.
func (s *SizeStore) MarkStale(id string) { s.stale[id] = struct{}{} }

// Stale reports whether id awaits re-measurement.
func (s *SizeStore) Stale(id string) bool {
	_, ok := s.stale[id]
	return ok
}

// ClearStale removes the re-measurement flag for id.
func (s *SizeStore) ClearStale(id string) { delete(s.stale, id) }

// Len returns the number of ids with a size record.
func (s *SizeStore) Len() int { return len(s.sizes) }
