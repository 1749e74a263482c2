package backlog

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"time"

	"sortwatch/internal/track"
)

// Header returns the delimited-export column order. Status columns follow
// the closed primary enumeration so consumers can rely on a fixed layout.
func Header() []string {
	cols := []string{"station", "op_date", "on_time_status", "commitment_time", "package_type"}
	for _, s := range track.AllPrimaryStatuses {
		cols = append(cols, "count_"+string(s))
	}
	return append(cols,
		"inducted_today",
		"dispatched_today",
		"dispatched_7d",
		"delivered_today",
		"total",
	)
}

// EncodeCSV renders the aggregate as a delimited file with a header row.
func EncodeCSV(rows []track.AggregateRow) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(Header()); err != nil {
		return nil, fmt.Errorf("encode aggregate: write header: %w", err)
	}

	for _, r := range rows {
		record := []string{
			r.Station,
			r.OpDate.Format("2006-01-02"),
			r.OnTimeStatus,
			r.CommitmentTime.UTC().Format(time.RFC3339),
			r.PackageType,
		}
		for _, s := range track.AllPrimaryStatuses {
			record = append(record, strconv.Itoa(r.StatusCounts[s]))
		}
		record = append(record,
			strconv.Itoa(r.InductedToday),
			strconv.Itoa(r.DispatchedToday),
			strconv.Itoa(r.DispatchedIn7d),
			strconv.Itoa(r.DeliveredToday),
			strconv.Itoa(r.Total),
		)
		if err := w.Write(record); err != nil {
			return nil, fmt.Errorf("encode aggregate: write row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("encode aggregate: flush: %w", err)
	}
	return buf.Bytes(), nil
}
