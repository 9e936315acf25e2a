package commands

import (
	"encoding/json"
	"io"

	"kamar-notices/lib/platforms/kamar"

	"github.com/jedib0t/go-pretty/v6/table"
)

func newTable(w io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetOutputMirror(w)
	return t
}

// renderTable assumes a successful outcome.
func renderTable(w io.Writer, notices []kamar.Notice) {
	t := newTable(w)
	t.AppendHeader(table.Row{"Kind", "Level", "Subject", "Teacher", "Place", "Date", "Time", "Body"})

	for _, notice := range notices {
		fields := notice.Fields()
		row := table.Row{notice.Kind().String(), fields.Level, fields.Subject, fields.Teacher, "", "", "", fields.Body}
		if meeting, ok := notice.(kamar.MeetingNotice); ok {
			row[4] = meeting.Place
			row[5] = meeting.Date
			row[6] = meeting.Time
		}
		t.AppendRow(row)
	}

	t.AppendFooter(table.Row{"", "", "", "", "", "", "Total", len(notices)})
	t.Render()
}

type noticeJson struct {
	Kind string `json:"kind"`
	kamar.NoticeFields
	Place *string `json:"place,omitempty"`
	Date  *string `json:"date,omitempty"`
	Time  *string `json:"time,omitempty"`
}

type noticesJson struct {
	Date    string       `json:"date"`
	Notices *[]noticeJson `json:"notices,omitempty"`
	Error   *string      `json:"error,omitempty"`
}

func renderJson(w io.Writer, notices kamar.Notices) error {
	out := noticesJson{Date: notices.Date}

	if message, ok := notices.ErrorMessage(); ok {
		out.Error = &message
	}
	if items, ok := notices.Items(); ok {
		views := make([]noticeJson, 0, len(items))
		for _, notice := range items {
			view := noticeJson{
				Kind:         notice.Kind().String(),
				NoticeFields: notice.Fields(),
			}
			if meeting, ok := notice.(kamar.MeetingNotice); ok {
				view.Place = &meeting.Place
				view.Date = &meeting.Date
				view.Time = &meeting.Time
			}
			views = append(views, view)
		}
		out.Notices = &views
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(out)
}
