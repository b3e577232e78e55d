package calendar

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/coe-onsite/onsite-manager/pkg/core/datefmt"
	"github.com/coe-onsite/onsite-manager/pkg/core/model"
)

const (
	renderURL     = "https://calendar.google.com/calendar/render"
	titlePrefix   = "Coe Onsite"
	unassignedTag = "未定"
)

// EventURL builds a Google Calendar "create event" link for a visit.
// The dates parameter is only included once the confirmed date, start and
// end are all known.
func EventURL(r model.ApplicationRecord, loc *time.Location) string {
	staff := r.StaffDisplay(unassignedTag)

	var b strings.Builder
	b.WriteString(renderURL)
	b.WriteString("?action=TEMPLATE")
	b.WriteString("&text=")
	b.WriteString(encodeComponent(fmt.Sprintf("%s %s (%s)", titlePrefix, r.SchoolName, staff)))

	d := datefmt.CompactDate(r.ConfirmedDate)
	s := datefmt.CompactTime(r.StartTime, loc)
	e := datefmt.CompactTime(r.EndTime, loc)
	if d != "" && s != "" && e != "" {
		fmt.Fprintf(&b, "&dates=%sT%s/%sT%s", d, s, d, e)
	}

	b.WriteString("&details=")
	b.WriteString(encodeComponent(details(r, staff)))
	b.WriteString("&sf=true&output=xml")

	return b.String()
}

func details(r model.ApplicationRecord, staff string) string {
	lines := []string{
		"出席人員: " + staff,
		"聯絡人: " + r.ApplicantName,
		"電話: " + r.Phone,
		"參與人數: " + r.ParticipantCount,
		"困難: " + r.Difficulties,
		"期望: " + r.Expectations,
	}
	return strings.Join(lines, "\n")
}

// componentUnescaper restores the characters encodeURIComponent leaves alone
var componentUnescaper = strings.NewReplacer(
	"+", "%20",
	"%21", "!",
	"%27", "'",
	"%28", "(",
	"%29", ")",
	"%2A", "*",
)

// encodeComponent percent-encodes a query component the way browsers'
// encodeURIComponent does: spaces as %20, and !'()* kept literal
func encodeComponent(s string) string {
	return componentUnescaper.Replace(url.QueryEscape(s))
}
