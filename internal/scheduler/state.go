package scheduler

import "sync"

// alertState remembers which watch items currently qualify so an alert fires
// only on the transition into qualifying.
type alertState struct {
	mu         sync.Mutex
	qualifying map[string]bool
}

func newAlertState() *alertState {
	return &alertState{qualifying: make(map[string]bool)}
}

// update records the latest outcome for name and reports whether it just
// started qualifying.
func (s *alertState) update(name string, qualifies bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	was := s.qualifying[name]
	if qualifies {
		s.qualifying[name] = true
	} else {
		delete(s.qualifying, name)
	}
	return qualifies && !was
}

// snapshot returns a copy of the qualifying set.
func (s *alertState) snapshot() map[string]bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]bool, len(s.qualifying))
	for k, v := range s.qualifying {
		out[k] = v
	}
	return out
}
