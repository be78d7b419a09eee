package gesture

import (
	"reflect"
	"testing"
)

func pushAll(s *Smoother, labels ...Label) (Label, bool) {
	var (
		l  Label
		ok bool
	)
	for _, in := range labels {
		l, ok = s.Push(in)
	}
	return l, ok
}

func TestSmoother_MajorityVote(t *testing.T) {
	tests := []struct {
		name   string
		cap    int
		pushes []Label
		want   Label
	}{
		{"clear majority", 8, []Label{Bom, Bom, Bom, Dia, Dia}, Bom},
		{"tie goes to first entered", 8, []Label{Bom, Bom, Dia, Dia}, Bom},
		{"tie goes to first entered reversed", 8, []Label{Dia, Dia, Bom, Bom}, Dia},
		{"tie ignores recency", 8, []Label{Emergencia, Dia, Dia, Emergencia}, Emergencia},
		{"majority after eviction", 4, []Label{Bom, Dia, Bom, Dia, Dia}, Dia},
		// Window becomes [dia dia bom bom]; dia now occurs first.
		{"tie after eviction uses current window", 4, []Label{Bom, Dia, Dia, Bom, Bom}, Dia},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSmoother(tt.cap)
			got, ok := pushAll(s, tt.pushes...)
			if !ok {
				t.Fatal("expected a stable label")
			}
			if got != tt.want {
				t.Errorf("stable = %s, want %s (window %v)", got, tt.want, s.Window())
			}
		})
	}
}

func TestSmoother_Capacity(t *testing.T) {
	s := NewSmoother(8)

	pushAll(s, Dia, Bom, Bom, Bom, Bom, Bom, Bom, Bom)
	if len(s.Window()) != 8 {
		t.Fatalf("window length = %d, want 8", len(s.Window()))
	}

	s.Push(Emergencia)
	window := s.Window()
	if len(window) != 8 {
		t.Fatalf("window length = %d after overflow, want 8", len(window))
	}
	want := []Label{Bom, Bom, Bom, Bom, Bom, Bom, Bom, Emergencia}
	if !reflect.DeepEqual(window, want) {
		t.Errorf("window = %v, want %v (oldest evicted)", window, want)
	}
}

func TestSmoother_None(t *testing.T) {
	t.Run("empty window has no stable label", func(t *testing.T) {
		s := NewSmoother(8)
		if l, ok := s.Push(None); ok || l != None {
			t.Errorf("Push(None) on empty window = (%s, %v), want (none, false)", l, ok)
		}
	})

	t.Run("none does not clear history", func(t *testing.T) {
		s := NewSmoother(8)
		pushAll(s, Bom, Bom)

		l, ok := s.Push(None)
		if !ok || l != Bom {
			t.Errorf("Push(None) = (%s, %v), want (bom, true)", l, ok)
		}
		if len(s.Window()) != 2 {
			t.Errorf("window length = %d, want 2", len(s.Window()))
		}
	})
}

func TestSmoother_DefaultCapacity(t *testing.T) {
	if got := NewSmoother(0).Capacity(); got != DefaultWindow {
		t.Errorf("capacity = %d, want %d", got, DefaultWindow)
	}
}

func TestSmoother_InstancesAreIndependent(t *testing.T) {
	a := NewSmoother(8)
	b := NewSmoother(8)

	a.Push(Bom)
	if len(b.Window()) != 0 {
		t.Error("smoothers must not share history")
	}
}
