package gesture

import (
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"
)

func TestNewSequencer(t *testing.T) {
	if _, err := NewSequencer(nil, 0); !errors.Is(err, ErrEmptyPhrase) {
		t.Errorf("empty phrase error = %v, want ErrEmptyPhrase", err)
	}
	_, err := NewSequencer([]Label{Bom, None}, 0)
	if err == nil {
		t.Fatal("expected error for a phrase containing None")
	}
	if want := `phrase step 1: unknown gesture "none"`; err.Error() != want {
		t.Errorf("error = %q, want %q", err.Error(), want)
	}
	if _, err := NewSequencer([]Label{"hola"}, 0); err == nil || !strings.Contains(err.Error(), `"hola"`) {
		t.Errorf("error = %v, want the unknown label quoted", err)
	}

	s, err := NewSequencer(DefaultPhrase, 0)
	if err != nil {
		t.Fatalf("NewSequencer() error = %v", err)
	}
	if s.ResetDelay() != DefaultResetDelay {
		t.Errorf("ResetDelay = %v, want %v", s.ResetDelay(), DefaultResetDelay)
	}
}

func TestSequencer_Advance(t *testing.T) {
	s, _ := NewSequencer([]Label{Bom, Dia, Emergencia}, 3*time.Second)

	if s.Advance(Dia, at(0)) {
		t.Fatal("out of order label completed the phrase")
	}
	if s.Step() != 0 {
		t.Fatalf("step = %d after out of order label, want 0", s.Step())
	}

	steps := []Label{Bom, Dia, Emergencia}
	for i, l := range steps {
		prev := s.Step()
		done := s.Advance(l, at(i*2000))
		if s.Step() != prev+1 {
			t.Errorf("step = %d, want %d", s.Step(), prev+1)
		}
		if done != (i == len(steps)-1) {
			t.Errorf("Advance(%s) completed = %v", l, done)
		}
	}

	snap := s.Snapshot()
	if !snap.Complete || snap.Step != 3 || snap.Next != None {
		t.Errorf("snapshot = %+v, want complete at step 3", snap)
	}
	if !reflect.DeepEqual(snap.Accepted, steps) {
		t.Errorf("accepted = %v, want %v", snap.Accepted, steps)
	}
	if _, ok := s.Expected(); ok {
		t.Error("Expected() should report a complete phrase")
	}

	// Completed ignores further acceptances.
	if s.Advance(Bom, at(5000)) || s.Step() != 3 {
		t.Errorf("Advance while complete changed step to %d", s.Step())
	}
}

func TestSequencer_Reset(t *testing.T) {
	delay := 3 * time.Second
	s, _ := NewSequencer([]Label{Bom}, delay)

	if s.Reset(at(10000)) {
		t.Fatal("reset a phrase that was not complete")
	}

	s.Advance(Bom, at(1000))
	completed := s.CompletedAt()

	if s.Reset(completed.Add(delay - time.Millisecond)) {
		t.Fatal("reset before the delay elapsed")
	}
	if s.Step() != 1 || !s.Complete() {
		t.Fatal("early reset attempt changed state")
	}

	if !s.Reset(completed.Add(delay)) {
		t.Fatal("expected reset once the delay elapsed")
	}
	snap := s.Snapshot()
	if snap.Step != 0 || len(snap.Accepted) != 0 || snap.Complete || snap.Next != Bom {
		t.Errorf("snapshot after reset = %+v", snap)
	}

	if s.Reset(completed.Add(2 * delay)) {
		t.Error("reset fired twice for one completion")
	}
}

func TestSequencer_SnapshotIsACopy(t *testing.T) {
	s, _ := NewSequencer([]Label{Bom, Dia}, 0)
	s.Advance(Bom, at(0))

	snap := s.Snapshot()
	snap.Accepted[0] = Emergencia
	snap.Target[1] = Emergencia

	again := s.Snapshot()
	if again.Accepted[0] != Bom || again.Target[1] != Dia {
		t.Errorf("mutating a snapshot leaked into the sequencer: %+v", again)
	}
}
