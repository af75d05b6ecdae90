package seir

import (
	"errors"
	"testing"
)

func TestCompartmentOrdinals(t *testing.T) {
	// Count vectors and output tuples index by these exact values.
	tests := []struct {
		c    Compartment
		want uint8
	}{
		{Susceptible, 0},
		{Infectious, 1},
		{Exposed, 2},
		{Recovered, 3},
	}
	for _, tt := range tests {
		if uint8(tt.c) != tt.want {
			t.Errorf("compartment %s: ordinal %d, want %d", tt.c, uint8(tt.c), tt.want)
		}
	}
}

func TestCompartmentString(t *testing.T) {
	tests := []struct {
		c    Compartment
		want string
	}{
		{Susceptible, "S"},
		{Infectious, "I"},
		{Exposed, "E"},
		{Recovered, "R"},
		{Compartment(7), "Compartment(7)"},
	}
	for _, tt := range tests {
		if got := tt.c.String(); got != tt.want {
			t.Errorf("String(%d) = %q, want %q", uint8(tt.c), got, tt.want)
		}
	}
}

func TestParseCompartment(t *testing.T) {
	for _, c := range []Compartment{Susceptible, Infectious, Exposed, Recovered} {
		got, err := ParseCompartment(c.String())
		if err != nil {
			t.Fatalf("ParseCompartment(%q): %v", c.String(), err)
		}
		if got != c {
			t.Errorf("ParseCompartment(%q) = %v, want %v", c.String(), got, c)
		}
	}

	if _, err := ParseCompartment("X"); !errors.Is(err, ErrConfiguration) {
		t.Errorf("ParseCompartment(X): expected ErrConfiguration, got %v", err)
	}
}

func TestCountsApplyPreservesTotal(t *testing.T) {
	c := Counts{9, 0, 1, 0}
	if c.Total() != 10 {
		t.Fatalf("Total() = %d, want 10", c.Total())
	}

	c.Apply(Exposed, Infectious)
	want := Counts{9, 1, 0, 0}
	if c != want {
		t.Errorf("after E->I: %v, want %v", c, want)
	}
	if c.Total() != 10 {
		t.Errorf("Total() = %d after delta, want 10", c.Total())
	}

	c.Apply(Susceptible, Exposed)
	want = Counts{8, 1, 1, 0}
	if c != want {
		t.Errorf("after S->E: %v, want %v", c, want)
	}
}

func TestSnapshotCloneIsIndependent(t *testing.T) {
	s := Snapshot{Susceptible, Exposed, Infectious}
	c := s.Clone()
	c[0] = Recovered
	if s[0] != Susceptible {
		t.Error("mutating clone changed the original snapshot")
	}
}
