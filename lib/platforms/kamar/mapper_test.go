package kamar

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	_ "embed"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

//go:embed testdata/notices.xml
var noticesXml []byte

//go:embed testdata/error.xml
var errorXml []byte

//go:embed testdata/latin1.xml
var latin1Xml []byte

func captureSlog(t testing.TB) *bytes.Buffer {
	t.Helper()
	previous := slog.Default()
	buf := &bytes.Buffer{}
	slog.SetDefault(slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	t.Cleanup(func() {
		slog.SetDefault(previous)
	})
	return buf
}

func mustParse(t testing.TB, body string) Outcome {
	t.Helper()
	outcome, err := ParseNotices(context.Background(), []byte(body))
	if err != nil {
		t.Fatal(err)
	}
	return outcome
}

func TestParseNoticesFixture(t *testing.T) {
	logs := captureSlog(t)

	outcome, err := ParseNotices(context.Background(), noticesXml)
	require.NoError(t, err)

	success, ok := outcome.(Success)
	require.True(t, ok)

	expected := []Notice{
		MeetingNotice{
			NoticeFields: NoticeFields{
				Level:   "Year 12",
				Subject: "Chess Club",
				Body:    "Bring your own board",
				Teacher: "Brown",
			},
			Place: "Library",
			Date:  "05/03/2024",
			Time:  "",
		},
		MeetingNotice{
			NoticeFields: NoticeFields{
				Level:   "Staff",
				Subject: "Briefing",
				Body:    "Staffroom briefing",
				Teacher: "Principal",
			},
			Place: "Staffroom",
			Date:  "07/03/2024",
			Time:  "8:15am",
		},
		GeneralNotice{NoticeFields: NoticeFields{
			Level:   "Senior",
			Subject: "Assembly",
			Body:    "Hall 9am",
			Teacher: "Smith",
		}},
		GeneralNotice{NoticeFields: NoticeFields{
			Level:   "All",
			Subject: "Mufti Day",
			Body:    "",
			Teacher: "JNS",
		}},
	}
	if diff := cmp.Diff(expected, success.Notices); diff != "" {
		t.Fatalf("notices mismatch (-want +got):\n%s", diff)
	}

	require.Contains(t, logs.String(), "dropping notice with missing fields")
	require.Contains(t, logs.String(), "TimeMeet")
}

func TestParseNoticesError(t *testing.T) {
	outcome, err := ParseNotices(context.Background(), errorXml)
	require.NoError(t, err)
	require.Equal(t, PortalError{Message: "Bad Key"}, outcome)
}

func TestParseNoticesErrorTakesPrecedence(t *testing.T) {
	outcome := mustParse(t, `<NoticesResults>
		<GeneralNotices>
			<General><Level>A</Level><Subject>B</Subject><Body>C</Body><Teacher>D</Teacher></General>
		</GeneralNotices>
		<Error>Invalid Date</Error>
		<Error>second error</Error>
	</NoticesResults>`)
	require.Equal(t, PortalError{Message: "Invalid Date"}, outcome)
}

func TestParseNoticesEmptyError(t *testing.T) {
	outcome := mustParse(t, `<NoticesResults><Error/></NoticesResults>`)
	require.Equal(t, PortalError{Message: ""}, outcome)
}

func TestParseNoticesErrorKeepsLeadingText(t *testing.T) {
	outcome := mustParse(t, `<NoticesResults><Error>Bad <b>x</b>Key</Error></NoticesResults>`)
	require.Equal(t, PortalError{Message: "Bad "}, outcome)
}

func TestParseNoticesFieldKeepsLeadingText(t *testing.T) {
	outcome := mustParse(t, `<NoticesResults><GeneralNotices>
		<General>
			<Level>Senior</Level>
			<Subject>Assembly</Subject>
			<Body>Hall <i>at</i> 9am</Body>
			<Teacher>Smith</Teacher>
		</General>
	</GeneralNotices></NoticesResults>`)
	notices, ok := outcome.(Success)
	require.True(t, ok)
	require.Len(t, notices.Notices, 1)
	require.Equal(t, "Hall ", notices.Notices[0].Fields().Body)
}

func TestParseNoticesOnlyFirstContainer(t *testing.T) {
	outcome := mustParse(t, `<NoticesResults>
		<GeneralNotices>
			<General><Level>A</Level><Subject>first</Subject><Body>C</Body><Teacher>D</Teacher></General>
		</GeneralNotices>
		<MeetingNotices>
			<Meeting>
				<Level>A</Level><Subject>first meeting</Subject><Body>C</Body><Teacher>D</Teacher>
				<PlaceMeet>Library</PlaceMeet><DateMeet>05/03/2024</DateMeet><TimeMeet>3pm</TimeMeet>
			</Meeting>
		</MeetingNotices>
		<GeneralNotices>
			<General><Level>A</Level><Subject>second</Subject><Body>C</Body><Teacher>D</Teacher></General>
		</GeneralNotices>
		<MeetingNotices>
			<Meeting>
				<Level>A</Level><Subject>second meeting</Subject><Body>C</Body><Teacher>D</Teacher>
				<PlaceMeet>Hall</PlaceMeet><DateMeet>05/03/2024</DateMeet><TimeMeet>4pm</TimeMeet>
			</Meeting>
		</MeetingNotices>
	</NoticesResults>`)

	success, ok := outcome.(Success)
	require.True(t, ok)
	var subjects []string
	for _, notice := range success.Notices {
		subjects = append(subjects, notice.Fields().Subject)
	}
	require.Equal(t, []string{"first meeting", "first"}, subjects)
}

func TestParseNoticesSingleGeneral(t *testing.T) {
	outcome := mustParse(t, `<NoticesResults>
		<GeneralNotices>
			<General>
				<Level>Senior</Level>
				<Subject>Assembly</Subject>
				<Body>Hall 9am</Body>
				<Teacher>Smith</Teacher>
			</General>
		</GeneralNotices>
	</NoticesResults>`)

	success, ok := outcome.(Success)
	require.True(t, ok)
	require.Len(t, success.Notices, 1)

	notice, ok := success.Notices[0].(GeneralNotice)
	require.True(t, ok, "expected a general notice, got %T", success.Notices[0])
	require.Equal(t, KindGeneral, notice.Kind())
	require.Equal(t, NoticeFields{
		Level:   "Senior",
		Subject: "Assembly",
		Body:    "Hall 9am",
		Teacher: "Smith",
	}, notice.Fields())
}

func TestParseNoticesDroppedMeetingLeavesEmptySuccess(t *testing.T) {
	captureSlog(t)

	outcome := mustParse(t, `<NoticesResults>
		<MeetingNotices>
			<Meeting>
				<Level>Junior</Level>
				<Subject>Choir</Subject>
				<Body>Practice</Body>
				<Teacher>Green</Teacher>
				<PlaceMeet>Music room</PlaceMeet>
				<DateMeet>06/03/2024</DateMeet>
			</Meeting>
		</MeetingNotices>
	</NoticesResults>`)

	success, ok := outcome.(Success)
	require.True(t, ok)
	require.NotNil(t, success.Notices)
	require.Empty(t, success.Notices)
}

func TestParseNoticesMeetingsBeforeGenerals(t *testing.T) {
	outcome := mustParse(t, `<NoticesResults>
		<GeneralNotices>
			<General><Level>L1</Level><Subject>general</Subject><Body>B</Body><Teacher>T</Teacher></General>
		</GeneralNotices>
		<MeetingNotices>
			<Meeting>
				<Level>L2</Level><Subject>meeting</Subject><Body>B</Body><Teacher>T</Teacher>
				<PlaceMeet>P</PlaceMeet><DateMeet>D</DateMeet><TimeMeet>1pm</TimeMeet>
			</Meeting>
		</MeetingNotices>
	</NoticesResults>`)

	success := outcome.(Success)
	require.Len(t, success.Notices, 2)
	require.Equal(t, KindMeeting, success.Notices[0].Kind())
	require.Equal(t, "meeting", success.Notices[0].Fields().Subject)
	require.Equal(t, KindGeneral, success.Notices[1].Kind())
	require.Equal(t, "general", success.Notices[1].Fields().Subject)
}

func TestParseNoticesGeneralMissingField(t *testing.T) {
	captureSlog(t)

	outcome := mustParse(t, `<NoticesResults>
		<GeneralNotices>
			<General><Level>A</Level><Subject>no teacher</Subject><Body>C</Body></General>
			<General><Level>A</Level><Subject>ok</Subject><Body>C</Body><Teacher>D</Teacher></General>
		</GeneralNotices>
	</NoticesResults>`)

	success := outcome.(Success)
	require.Len(t, success.Notices, 1)
	require.Equal(t, "ok", success.Notices[0].Fields().Subject)
}

func TestParseNoticesGeneralIgnoresMeetingFields(t *testing.T) {
	outcome := mustParse(t, `<NoticesResults>
		<GeneralNotices>
			<General>
				<Level>A</Level><Subject>B</Subject><Body>C</Body><Teacher>D</Teacher>
				<PlaceMeet>Hall</PlaceMeet>
			</General>
		</GeneralNotices>
	</NoticesResults>`)

	success := outcome.(Success)
	require.Len(t, success.Notices, 1)
	require.Equal(t, GeneralNotice{NoticeFields: NoticeFields{
		Level: "A", Subject: "B", Body: "C", Teacher: "D",
	}}, success.Notices[0])
}

func TestParseNoticesRepeatedTagKeepsLast(t *testing.T) {
	outcome := mustParse(t, `<NoticesResults>
		<GeneralNotices>
			<General>
				<Level>A</Level><Subject>first</Subject><Subject>second</Subject>
				<Body>C</Body><Teacher>D</Teacher>
			</General>
		</GeneralNotices>
	</NoticesResults>`)

	success := outcome.(Success)
	require.Equal(t, "second", success.Notices[0].Fields().Subject)
}

func TestParseNoticesNoSections(t *testing.T) {
	outcome := mustParse(t, `<NoticesResults><Code>0</Code></NoticesResults>`)
	require.Equal(t, Success{Notices: []Notice{}}, outcome)
}

func TestParseNoticesEscapedText(t *testing.T) {
	outcome := mustParse(t, `<NoticesResults>
		<GeneralNotices>
			<General>
				<Level>Y9 &amp; Y10</Level><Subject><![CDATA[<Sports> day]]></Subject>
				<Body>Bring hats &lt;3</Body><Teacher>D</Teacher>
			</General>
		</GeneralNotices>
	</NoticesResults>`)

	fields := outcome.(Success).Notices[0].Fields()
	require.Equal(t, "Y9 & Y10", fields.Level)
	require.Equal(t, "<Sports> day", fields.Subject)
	require.Equal(t, "Bring hats <3", fields.Body)
}

func TestParseNoticesCharset(t *testing.T) {
	outcome, err := ParseNotices(context.Background(), latin1Xml)
	require.NoError(t, err)
	require.Len(t, outcome.(Success).Notices, 1)
}

func TestParseNoticesMalformed(t *testing.T) {
	testCases := []struct {
		name string
		body string
	}{
		{name: "empty", body: ""},
		{name: "not xml", body: "Service Unavailable"},
		{name: "unclosed", body: "<NoticesResults><GeneralNotices>"},
		{name: "mismatched", body: "<NoticesResults></GeneralNotices>"},
		{name: "trailing element", body: "<NoticesResults/><Other/>"},
		{name: "trailing text", body: "<NoticesResults/>garbage"},
	}

	for _, test := range testCases {
		t.Run(test.name, func(t *testing.T) {
			outcome, err := ParseNotices(context.Background(), []byte(test.body))
			require.Nil(t, outcome)

			var parseErr *ParseError
			require.True(t, errors.As(err, &parseErr), "expected ParseError, got %v", err)
		})
	}
}

func TestParseNoticesTrailingWhitespaceAndComments(t *testing.T) {
	outcome := mustParse(t, "<NoticesResults/>\n<!-- generated -->\n")
	require.Equal(t, Success{Notices: []Notice{}}, outcome)
}
