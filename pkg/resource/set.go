package resource

// UnusedSet maps each category to the identifiers found idle, in discovery order.
// Iteration always follows Categories() order.
type UnusedSet struct {
	ids map[Category][]string
}

// NewUnusedSet returns a set with an empty entry for every category.
func NewUnusedSet() UnusedSet {
	ids := make(map[Category][]string, len(categoryNames))
	for _, c := range Categories() {
		ids[c] = []string{}
	}
	return UnusedSet{ids: ids}
}

// Add appends id to the category's sequence. Duplicates are kept.
func (s *UnusedSet) Add(c Category, id string) {
	if s.ids == nil {
		*s = NewUnusedSet()
	}
	s.ids[c] = append(s.ids[c], id)
}

// IDs returns the identifiers collected for c.
func (s UnusedSet) IDs(c Category) []string {
	return s.ids[c]
}

// Len returns the total number of identifiers across all categories.
func (s UnusedSet) Len() int {
	n := 0
	for _, ids := range s.ids {
		n += len(ids)
	}
	return n
}

// Each calls fn for every identifier in sweep order and stops at the first error.
func (s UnusedSet) Each(fn func(Category, string) error) error {
	for _, c := range Categories() {
		for _, id := range s.ids[c] {
			if err := fn(c, id); err != nil {
				return err
			}
		}
	}
	return nil
}

// Map returns a copy keyed by category name.
func (s UnusedSet) Map() map[string][]string {
	out := make(map[string][]string, len(s.ids))
	for _, c := range Categories() {
		ids := s.ids[c]
		if ids == nil {
			ids = []string{}
		}
		out[c.String()] = append([]string{}, ids...)
	}
	return out
}
