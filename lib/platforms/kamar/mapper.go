package kamar

import (
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"log/slog"

	"golang.org/x/net/html/charset"
)

const (
	meetingTag = "Meeting"
	generalTag = "General"
)

// leadingText is the character data of an element up to its first child
// element, anything nested or following a child is discarded.
type leadingText string

func (t *leadingText) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	var text []byte
	seenChild := false
	for {
		token, err := d.Token()
		if err != nil {
			return err
		}
		switch tok := token.(type) {
		case xml.CharData:
			if !seenChild {
				text = append(text, tok...)
			}
		case xml.StartElement:
			seenChild = true
			err = d.Skip()
			if err != nil {
				return err
			}
		case xml.EndElement:
			*t = leadingText(text)
			return nil
		}
	}
}

func (t *leadingText) value() string {
	return string(*t)
}

type rawNotice struct {
	XMLName xml.Name

	Level   *leadingText `xml:"Level"`
	Subject *leadingText `xml:"Subject"`
	Body    *leadingText `xml:"Body"`
	Teacher *leadingText `xml:"Teacher"`

	Place *leadingText `xml:"PlaceMeet"`
	Date  *leadingText `xml:"DateMeet"`
	Time  *leadingText `xml:"TimeMeet"`
}

// the root element's name differs between portal versions, so it is not
// checked. Only the first container of each kind is read.
type rawDocument struct {
	Errors         []leadingText `xml:"Error"`
	MeetingNotices []struct {
		Meetings []rawNotice `xml:"Meeting"`
	} `xml:"MeetingNotices"`
	GeneralNotices []struct {
		Generals []rawNotice `xml:"General"`
	} `xml:"GeneralNotices"`
}

func (n rawNotice) isMeeting() bool {
	return n.XMLName.Local == meetingTag
}

func (n rawNotice) missingFields() []string {
	var missing []string
	check := func(name string, value *leadingText) {
		if value == nil {
			missing = append(missing, name)
		}
	}
	check("Level", n.Level)
	check("Subject", n.Subject)
	check("Body", n.Body)
	check("Teacher", n.Teacher)
	if n.isMeeting() {
		check("PlaceMeet", n.Place)
		check("DateMeet", n.Date)
		check("TimeMeet", n.Time)
	}
	return missing
}

// toNotice assumes missingFields() returned nothing.
func (n rawNotice) toNotice() Notice {
	fields := NoticeFields{
		Level:   n.Level.value(),
		Subject: n.Subject.value(),
		Body:    n.Body.value(),
		Teacher: n.Teacher.value(),
	}
	if n.isMeeting() {
		return MeetingNotice{
			NoticeFields: fields,
			Place:        n.Place.value(),
			Date:         n.Date.value(),
			Time:         n.Time.value(),
		}
	}
	return GeneralNotice{NoticeFields: fields}
}

// ParseNotices maps a GetNotices response document to an Outcome.
//
// An Error element short-circuits into a PortalError. Otherwise every
// Meeting under the first MeetingNotices followed by every General under
// the first GeneralNotices becomes a notice, elements missing a required field are
// logged and skipped. A *ParseError is returned if body is not well-formed.
func ParseNotices(ctx context.Context, body []byte) (Outcome, error) {
	decoder := xml.NewDecoder(bytes.NewReader(body))
	decoder.CharsetReader = charset.NewReaderLabel

	var doc rawDocument
	err := decoder.Decode(&doc)
	if err != nil {
		return nil, &ParseError{Err: err}
	}
	err = expectEnd(decoder)
	if err != nil {
		return nil, &ParseError{Err: err}
	}

	if len(doc.Errors) > 0 {
		return PortalError{Message: doc.Errors[0].value()}, nil
	}

	var candidates []rawNotice
	if len(doc.MeetingNotices) > 0 {
		candidates = append(candidates, doc.MeetingNotices[0].Meetings...)
	}
	if len(doc.GeneralNotices) > 0 {
		candidates = append(candidates, doc.GeneralNotices[0].Generals...)
	}

	notices := make([]Notice, 0, len(candidates))
	for i, candidate := range candidates {
		missing := candidate.missingFields()
		if len(missing) > 0 {
			slog.WarnContext(
				ctx, "dropping notice with missing fields",
				"tag", candidate.XMLName.Local,
				"index", i,
				"missing", missing,
			)
			continue
		}
		notices = append(notices, candidate.toNotice())
	}

	return Success{Notices: notices}, nil
}

// expectEnd makes sure nothing but whitespace, comments or processing
// instructions follow the root element.
func expectEnd(decoder *xml.Decoder) error {
	for {
		token, err := decoder.Token()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		switch t := token.(type) {
		case xml.StartElement:
			return fmt.Errorf("junk after document element: <%s>", t.Name.Local)
		case xml.CharData:
			if len(bytes.TrimSpace(t)) > 0 {
				return fmt.Errorf("junk after document element: %q", string(t))
			}
		}
	}
}
