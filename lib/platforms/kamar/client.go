package kamar

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"kamar-notices/lib/chrono"
	"kamar-notices/lib/restyutil"

	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
)

const (
	// the shared key every KAMAR mobile client sends
	ApiKey = "vtku"
	// the portal rejects requests that don't look like they come from the android app
	UserAgent  = "KAMAR/ Linux/ Android/"
	DateFormat = "02/01/2006"

	apiRoute          = "api/api.php"
	getNoticesCommand = "GetNotices"
)

type ClientOptions struct {
	// use plain http when the host does not specify a scheme
	UseHttp bool
	// log the raw response body before parsing it
	Debug bool
	// the clock used to determine the current date, defaults to local time
	Clock chrono.TimeAPI
	// a timeout for the whole request, 0 means no timeout
	Timeout time.Duration
	// receives a dump of every request/response pair, can be nil
	InstrumentOutput restyutil.InstrumentOutput
}

type Client struct {
	url   string
	host  string
	http  *resty.Client
	clock chrono.TimeAPI
	debug bool
}

// EndpointUrl builds the api url for `host`, which is either a bare domain
// (portal.school.nz) or a full url (https://portal.school.nz/).
func EndpointUrl(host string, useHttps bool) string {
	lower := strings.ToLower(host)
	if !strings.HasPrefix(lower, "https://") && !strings.HasPrefix(lower, "http://") {
		scheme := "https"
		if !useHttps {
			scheme = "http"
		}
		host = fmt.Sprintf("%s://%s", scheme, host)
	}
	return strings.TrimRight(host, "/") + "/" + apiRoute
}

// FormatDate formats t the way the portal expects dates (DD/MM/YYYY).
func FormatDate(t time.Time) string {
	return t.Format(DateFormat)
}

// NewClient never fails, an invalid host only surfaces once a request is made.
func NewClient(host string, opts ClientOptions) *Client {
	client := resty.New()
	client.SetHeader("User-Agent", UserAgent)
	if opts.Timeout > 0 {
		client.SetTimeout(opts.Timeout)
	}
	restyutil.InstrumentClient(client, tracer, opts.InstrumentOutput)

	clock := opts.Clock
	if clock == nil {
		clock = chrono.NewStandardTime(nil)
	}

	endpoint := EndpointUrl(host, !opts.UseHttp)
	parsed, err := url.Parse(endpoint)
	if err == nil {
		host = parsed.Host
	}

	return &Client{
		url:   endpoint,
		host:  host,
		http:  client,
		clock: clock,
		debug: opts.Debug,
	}
}

func (c *Client) Url() string {
	return c.url
}

// encodeForm keeps the field order of the official clients.
func encodeForm(fields [][2]string) string {
	parts := make([]string, len(fields))
	for i, field := range fields {
		parts[i] = url.QueryEscape(field[0]) + "=" + url.QueryEscape(field[1])
	}
	return strings.Join(parts, "&")
}

// RetrieveToday retrieves the notices for the current date.
func (c *Client) RetrieveToday(ctx context.Context) (Notices, error) {
	return c.Retrieve(ctx, "")
}

// Retrieve retrieves the notices for `date` (DD/MM/YYYY), an empty date
// means the current date.
//
// An error reported by the portal itself is not returned as an error but
// as a PortalError outcome. A *TransportError is returned when the portal
// could not be reached or did not respond with 200, a *ParseError when the
// response is not XML.
func (c *Client) Retrieve(ctx context.Context, date string) (Notices, error) {
	ctx, span := tracer.Start(ctx, "client:Retrieve")
	defer span.End()

	if date == "" {
		date = FormatDate(c.clock.Now())
	}
	span.SetAttributes(attribute.String("kamar.date", date))

	body := encodeForm([][2]string{
		{"Key", ApiKey},
		{"Command", getNoticesCommand},
		{"ShowAll", "YES"},
		{"Date", date},
	})

	res, err := c.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/x-www-form-urlencoded").
		SetBody(body).
		Post(c.url)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to post notices request")
		return Notices{}, &TransportError{Url: c.url, Err: err}
	}
	if res.StatusCode() != http.StatusOK {
		span.SetStatus(codes.Error, fmt.Sprintf("unexpected status %d", res.StatusCode()))
		return Notices{}, &TransportError{Url: c.url, StatusCode: res.StatusCode()}
	}

	if c.debug {
		slog.InfoContext(ctx, "notices response", "url", c.url, "date", date, "body", res.String())
	}

	outcome, err := ParseNotices(ctx, res.Body())
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to parse notices response")
		return Notices{}, err
	}

	switch o := outcome.(type) {
	case PortalError:
		span.SetAttributes(attribute.String("kamar.error", o.Message))
		slog.DebugContext(ctx, "portal reported an error", "date", date, "message", o.Message)
	case Success:
		span.SetAttributes(attribute.Int("kamar.notices", len(o.Notices)))
		retrievedCounter.Add(ctx, int64(len(o.Notices)), metric.WithAttributes(
			attribute.String("kamar.host", c.host),
		))
	}

	return Notices{Date: date, Outcome: outcome}, nil
}
