package backlog

import (
	"sort"
	"strings"
	"time"

	"sortwatch/internal/track"
)

// OnTimeOnTrack and OnTimeLate are the two on-time status buckets.
const (
	OnTimeOnTrack = "ON_TRACK"
	OnTimeLate    = "LATE"
)

// aggKey identifies one aggregate bucket.
type aggKey struct {
	station      string
	opDate       string
	onTimeStatus string
	commitment   int64
	packageType  string
}

// Aggregate groups classified, flagged, counted packages by (station,
// operational date, on-time status, commitment time, package type) and
// counts distinct tracking ids per primary-status bucket plus the cumulative
// counters. Output is bounded to trailingDays before and leadingDays after
// the run date; rows outside that window are dropped.
func Aggregate(pkgs []track.ClassifiedPackage, runTime time.Time, trailingDays, leadingDays int) []track.AggregateRow {
	windowStart := runTime.AddDate(0, 0, -trailingDays)
	windowEnd := runTime.AddDate(0, 0, leadingDays)

	buckets := make(map[aggKey]*track.AggregateRow)
	counted := make(map[aggKey]map[string]bool) // distinct tracking ids per bucket

	for _, p := range pkgs {
		opDate := p.CommitmentEffective
		if opDate.IsZero() {
			opDate = runTime
		}
		opDate = time.Date(opDate.Year(), opDate.Month(), opDate.Day(), 0, 0, 0, 0, time.UTC)
		if opDate.Before(windowStart) || opDate.After(windowEnd) {
			continue
		}

		onTime := OnTimeLate
		if p.OnTime {
			onTime = OnTimeOnTrack
		}

		k := aggKey{
			station:      p.Station,
			opDate:       opDate.Format("2006-01-02"),
			onTimeStatus: onTime,
			commitment:   p.CommitmentTime.Unix(),
			packageType:  PackageType(p.ShipMethod),
		}

		row, ok := buckets[k]
		if !ok {
			row = &track.AggregateRow{
				Station:        p.Station,
				OpDate:         opDate,
				OnTimeStatus:   onTime,
				CommitmentTime: p.CommitmentTime,
				PackageType:    k.packageType,
				StatusCounts:   make(map[track.PrimaryStatus]int),
			}
			buckets[k] = row
			counted[k] = make(map[string]bool)
		}

		// No double counting: each distinct tracking id contributes once per
		// bucket even if the source streams produced duplicate rows.
		if counted[k][p.TrackingID] {
			continue
		}
		counted[k][p.TrackingID] = true

		row.StatusCounts[p.Primary]++
		row.Total++
		if p.InductedToday {
			row.InductedToday++
		}
		if p.DispatchedToday {
			row.DispatchedToday++
		}
		if p.DispatchedIn7d {
			row.DispatchedIn7d++
		}
		if p.DeliveredToday {
			row.DeliveredToday++
		}
	}

	rows := make([]track.AggregateRow, 0, len(buckets))
	for _, r := range buckets {
		rows = append(rows, *r)
	}
	sort.Slice(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if a.Station != b.Station {
			return a.Station < b.Station
		}
		if !a.OpDate.Equal(b.OpDate) {
			return a.OpDate.Before(b.OpDate)
		}
		if a.PackageType != b.PackageType {
			return a.PackageType < b.PackageType
		}
		if a.OnTimeStatus != b.OnTimeStatus {
			return a.OnTimeStatus < b.OnTimeStatus
		}
		// Commitment time completes the bucket key; without it two buckets
		// tying on every other dimension would publish in map order.
		return a.CommitmentTime.Before(b.CommitmentTime)
	})
	return rows
}

// PackageType derives the aggregate package-type dimension from the ship
// method: oversize methods carry an XL marker, everything else is standard.
func PackageType(shipMethod string) string {
	if strings.Contains(strings.ToUpper(shipMethod), "XL") {
		return "XL"
	}
	return "STANDARD"
}
