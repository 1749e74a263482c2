package resolve

import (
	"testing"
	"time"
)

func TestResolveSidelined_StickyMembership(t *testing.T) {
	runTime := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)

	records := []SidelineRecord{
		{TrackingID: "TBA1", MarkedAt: runTime.Add(-30 * time.Hour)},
		{TrackingID: "TBA2", MarkedAt: runTime.AddDate(0, 0, -9)}, // outside window
	}

	set := ResolveSidelined(records, runTime, 7)

	if !set["TBA1"] {
		t.Error("TBA1 was sidelined inside the window")
	}
	if set["TBA2"] {
		t.Error("TBA2's marker predates the window")
	}
}
