package classify

import (
	"testing"
	"time"

	"sortwatch/internal/track"
)

func TestBuildOperatingClock_MostRecentDefinitionWins(t *testing.T) {
	opDate := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)

	older := track.OperatingWindow{
		Station:        "DAU1",
		OpDate:         opDate,
		DispatchCutoff: opDate.Add(8 * time.Hour),
		DefinedAt:      opDate.Add(-48 * time.Hour),
	}
	newer := track.OperatingWindow{
		Station:        "DAU1",
		OpDate:         opDate,
		DispatchCutoff: opDate.Add(10 * time.Hour),
		DefinedAt:      opDate.Add(-2 * time.Hour),
	}

	// Insertion order must not matter; only definition recency ranks.
	for _, defs := range [][]track.OperatingWindow{{older, newer}, {newer, older}} {
		clock := BuildOperatingClock(defs)
		w, ok := clock.Window("DAU1", opDate.Add(time.Hour))
		if !ok {
			t.Fatal("Expected a window for DAU1 on 2025-06-10")
		}
		if !w.DispatchCutoff.Equal(newer.DispatchCutoff) {
			t.Errorf("Expected the newer definition to win, got cutoff %v", w.DispatchCutoff)
		}
	}
}

func TestBuildOperatingClock_EqualDefinedAtTieBreak(t *testing.T) {
	opDate := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)
	definedAt := opDate.Add(-24 * time.Hour)

	a := track.OperatingWindow{Station: "DAU1", OpDate: opDate, DispatchCutoff: opDate.Add(8 * time.Hour), DefinedAt: definedAt}
	b := track.OperatingWindow{Station: "DAU1", OpDate: opDate, DispatchCutoff: opDate.Add(10 * time.Hour), DefinedAt: definedAt}

	for _, defs := range [][]track.OperatingWindow{{a, b}, {b, a}} {
		clock := BuildOperatingClock(defs)
		w, _ := clock.Window("DAU1", opDate)
		if !w.DispatchCutoff.Equal(b.DispatchCutoff) {
			t.Errorf("Identical DefinedAt must rank by greater dispatch cutoff, got %v", w.DispatchCutoff)
		}
	}
}

func TestCommitmentEffective_CutoffPreference(t *testing.T) {
	opDate := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)
	commitment := opDate.Add(9 * time.Hour)

	// 1. Dispatch cutoff defined: it wins.
	clock := BuildOperatingClock([]track.OperatingWindow{{
		Station:        "DAU1",
		OpDate:         opDate,
		InboundCutoff:  opDate.Add(6 * time.Hour),
		DispatchCutoff: opDate.Add(11 * time.Hour),
		DefinedAt:      opDate,
	}})
	if got := clock.CommitmentEffective("DAU1", commitment); !got.Equal(opDate.Add(11 * time.Hour)) {
		t.Errorf("Expected dispatch cutoff as effective time, got %v", got)
	}

	// 2. Only the inbound cutoff defined.
	clock = BuildOperatingClock([]track.OperatingWindow{{
		Station:       "DAU1",
		OpDate:        opDate,
		InboundCutoff: opDate.Add(6 * time.Hour),
		DefinedAt:     opDate,
	}})
	if got := clock.CommitmentEffective("DAU1", commitment); !got.Equal(opDate.Add(6 * time.Hour)) {
		t.Errorf("Expected inbound cutoff as effective time, got %v", got)
	}

	// 3. No window at all: the commitment passes through unchanged.
	clock = BuildOperatingClock(nil)
	if got := clock.CommitmentEffective("DAU1", commitment); !got.Equal(commitment) {
		t.Errorf("Expected commitment unchanged, got %v", got)
	}
}
