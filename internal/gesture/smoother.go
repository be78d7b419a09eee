package gesture

// DefaultWindow is the default vote window capacity.
const DefaultWindow = 8

// Smoother stabilizes raw labels with a majority vote over a bounded
// window of the most recent non-None labels.
type Smoother struct {
	capacity int
	window   []Label
}

// NewSmoother creates a Smoother holding at most capacity labels.
// A non-positive capacity selects DefaultWindow.
func NewSmoother(capacity int) *Smoother {
	if capacity <= 0 {
		capacity = DefaultWindow
	}
	return &Smoother{
		capacity: capacity,
		window:   make([]Label, 0, capacity+1),
	}
}

// Push records a raw label and returns the stabilized label. None is not
// recorded, so a dropout keeps the recent history intact. The second result
// is false while the window is empty.
func (s *Smoother) Push(l Label) (Label, bool) {
	if l != None {
		s.window = append(s.window, l)
		if len(s.window) > s.capacity {
			// Shift left by 1, dropping the oldest label.
			copy(s.window, s.window[1:])
			s.window = s.window[:s.capacity]
		}
	}
	return s.Stable()
}

// Stable returns the majority label of the current window. Ties go to the
// label whose first occurrence in the window is earliest.
func (s *Smoother) Stable() (Label, bool) {
	if len(s.window) == 0 {
		return None, false
	}

	counts := make(map[Label]int, len(Labels))
	order := make([]Label, 0, len(Labels))
	for _, l := range s.window {
		if counts[l] == 0 {
			order = append(order, l)
		}
		counts[l]++
	}

	best := order[0]
	for _, l := range order[1:] {
		if counts[l] > counts[best] {
			best = l
		}
	}
	return best, true
}

// Window returns a copy of the current window, oldest first.
func (s *Smoother) Window() []Label {
	out := make([]Label, len(s.window))
	copy(out, s.window)
	return out
}

// Capacity returns the maximum window length.
func (s *Smoother) Capacity() int {
	return s.capacity
}

// Clear empties the window.
func (s *Smoother) Clear() {
	s.window = s.window[:0]
}
