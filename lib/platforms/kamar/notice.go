package kamar

import "fmt"

type NoticeKind int

const (
	KindGeneral NoticeKind = iota
	KindMeeting
)

func (k NoticeKind) String() string {
	switch k {
	case KindGeneral:
		return "general"
	case KindMeeting:
		return "meeting"
	}
	return fmt.Sprintf("NoticeKind(%d)", int(k))
}

// NoticeFields are the fields every notice carries.
type NoticeFields struct {
	// the level (year group, house, etc.) the notice is targeted to
	Level   string `json:"level"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
	// the teacher that posted the notice
	Teacher string `json:"teacher"`
}

// Notice is either a GeneralNotice or a MeetingNotice.
type Notice interface {
	Kind() NoticeKind
	Fields() NoticeFields
	String() string

	notice()
}

type GeneralNotice struct {
	NoticeFields
}

func (GeneralNotice) Kind() NoticeKind { return KindGeneral }

func (n GeneralNotice) Fields() NoticeFields { return n.NoticeFields }

func (n GeneralNotice) String() string {
	return fmt.Sprintf(
		"Notice{Level=%s, Subject=%s, Body=%s, Teacher=%s}",
		n.Level, n.Subject, n.Body, n.Teacher,
	)
}

func (GeneralNotice) notice() {}

// MeetingNotice is a notice about a meeting, Date is the date of the
// meeting which is not necessarily the date the notices were requested for.
type MeetingNotice struct {
	NoticeFields
	Place string `json:"place"`
	Date  string `json:"date"`
	// may be empty
	Time string `json:"time"`
}

func (MeetingNotice) Kind() NoticeKind { return KindMeeting }

func (n MeetingNotice) Fields() NoticeFields { return n.NoticeFields }

func (n MeetingNotice) String() string {
	return fmt.Sprintf(
		"MeetingNotice{Level=%s, Subject=%s, Body=%s, Teacher=%s, Place=%s, Date=%s, Time=%s}",
		n.Level, n.Subject, n.Body, n.Teacher, n.Place, n.Date, n.Time,
	)
}

func (MeetingNotice) notice() {}
