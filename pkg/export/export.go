// Package export writes a weekly schedule in formats external tools read.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/kilianp07/studyplan/core/model"
	"github.com/kilianp07/studyplan/core/scheduler"
)

// Week is the JSON document written by WriteJSON.
type Week struct {
	Schedule *scheduler.WeeklySchedule `json:"schedule"`
	Summary  *scheduler.Summary        `json:"summary,omitempty"`
}

// WriteJSON writes the schedule to w in JSON format. summary may be nil.
func WriteJSON(w io.Writer, week *scheduler.WeeklySchedule, summary *scheduler.Summary) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(Week{Schedule: week, Summary: summary})
}

var csvHeader = []string{"date", "session_id", "type", "source_id", "title", "subject", "duration_min", "status"}

// WriteCSV writes one row per session, days in order.
func WriteCSV(w io.Writer, week *scheduler.WeeklySchedule) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, day := range week.Days {
		for _, s := range day.Sessions {
			rec := []string{
				day.Date.Format(model.DateLayout),
				s.ID,
				string(s.Type),
				s.SourceID,
				s.Title,
				s.Subject,
				strconv.Itoa(s.Duration),
				string(s.Status),
			}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
	}
	cw.Flush()
	return cw.Error()
}

// Write dispatches on format: "json" or "csv".
func Write(w io.Writer, format string, week *scheduler.WeeklySchedule, summary *scheduler.Summary) error {
	switch strings.ToLower(format) {
	case "", "json":
		return WriteJSON(w, week, summary)
	case "csv":
		return WriteCSV(w, week)
	default:
		return fmt.Errorf("unsupported export format %q", format)
	}
}
