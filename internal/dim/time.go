package dim

import (
	"fmt"
	"time"

	"github.com/pgEdge/pgedge-starbuild/internal/warehouse"
)

// DateLayout is the natural key format of the time dimension.
const DateLayout = "2006-01-02"

// BuildTime returns one row per calendar day from start to end inclusive,
// keyed 1..N in date order. Only the base date columns are set; calendar
// attributes come from enrichment.
func BuildTime(start, end time.Time) (warehouse.TimeDim, error) {
	start = truncateDay(start)
	end = truncateDay(end)
	if end.Before(start) {
		return nil, fmt.Errorf("calendar end %s is before start %s",
			end.Format(DateLayout), start.Format(DateLayout))
	}

	days := int(end.Sub(start).Hours()/24) + 1
	rows := make(warehouse.TimeDim, 0, days)
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		rows = append(rows, warehouse.TimeRow{
			TimeID:   int64(len(rows) + 1),
			Date:     d,
			Day:      d.Day(),
			Month:    int(d.Month()),
			Year:     d.Year(),
			FullDate: d.Format(DateLayout),
		})
	}
	return rows, nil
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
