package classify

import "sortwatch/internal/track"

// Flags is the boolean backlog view derived from a classification.
type Flags struct {
	Backlog   bool
	Upstream  bool
	InStation bool
	LongHaul  bool
}

// AssignFlags derives the backlog/upstream/in-station/long-haul flags from a
// classified package. Pure predicate derivation: backlog holds exactly when
// the primary status is in the backlog set and the sub-status is neither
// DELIVERED nor DISPATCHED; the remaining flags are narrower sub-predicates
// of that same set.
func AssignFlags(c Classification) Flags {
	backlog := track.BacklogStatuses[c.Primary] && c.Sub != track.SubDelivered && c.Sub != track.SubDispatched

	return Flags{
		Backlog:   backlog,
		Upstream:  backlog && c.Primary == track.PrimaryMNR,
		InStation: backlog && (c.Primary == track.PrimaryInStation || c.Primary == track.PrimaryDSDwells),
		LongHaul:  backlog && c.Primary == track.PrimaryLLH,
	}
}
