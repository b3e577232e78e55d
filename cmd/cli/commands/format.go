package commands

import (
	"fmt"
	"io"
	"time"

	"github.com/coe-onsite/onsite-manager/pkg/core/datefmt"
	"github.com/coe-onsite/onsite-manager/pkg/core/model"
)

// ANSI color codes
const (
	colorReset  = "\033[0m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorDim    = "\033[2m"
)

const (
	noDateLabel  = "未確定"
	noStaffLabel = "未定"
)

func statusColor(s model.Status) string {
	if s.OrDefault() == model.StatusCompleted {
		return colorGreen
	}
	return colorYellow
}

// slotLabel renders the confirmed date and time range of a record
func slotLabel(r model.ApplicationRecord, loc *time.Location) string {
	date := datefmt.FormatDate(r.ConfirmedDate)
	if date == "" {
		return noDateLabel
	}

	start := datefmt.FormatTimeIn(r.StartTime, loc)
	end := datefmt.FormatTimeIn(r.EndTime, loc)
	if start == "" && end == "" {
		return date
	}
	return fmt.Sprintf("%s %s-%s", date, start, end)
}

// choiceLabel renders one requested slot, or "-" when nothing was requested
func choiceLabel(date, start, end string, loc *time.Location) string {
	date = datefmt.FormatDate(date)
	start = datefmt.FormatTimeIn(start, loc)
	end = datefmt.FormatTimeIn(end, loc)
	if date == "" && start == "" && end == "" {
		return "-"
	}
	return fmt.Sprintf("%s %s-%s", date, start, end)
}

// printRecordLine writes the one-line summary shown by list
func printRecordLine(w io.Writer, r model.ApplicationRecord, loc *time.Location) {
	status := r.Status.OrDefault()
	fmt.Fprintf(w, "%-15s %-22s %s%-4s%s %s %s(%s)%s\n",
		r.ID,
		slotLabel(r, loc),
		statusColor(status), status.Label(), colorReset,
		r.SchoolName,
		colorDim, r.StaffDisplay(noStaffLabel), colorReset,
	)
}

// printRecordDetails writes every field of a record
func printRecordDetails(w io.Writer, r model.ApplicationRecord, loc *time.Location) {
	status := r.Status.OrDefault()

	fmt.Fprintf(w, "\n%s\n\n", r.SchoolName)
	fmt.Fprintf(w, "ID:          %s\n", r.ID)
	fmt.Fprintf(w, "狀態:        %s%s%s\n", statusColor(status), status.Label(), colorReset)
	fmt.Fprintf(w, "確定日期:    %s\n", slotLabel(r, loc))
	fmt.Fprintf(w, "首選:        %s\n", choiceLabel(r.FirstChoiceDate, r.FirstChoiceStart, r.FirstChoiceEnd, loc))
	fmt.Fprintf(w, "次選:        %s\n", choiceLabel(r.SecondChoiceDate, r.SecondChoiceStart, r.SecondChoiceEnd, loc))
	if r.DateOther != "" {
		fmt.Fprintf(w, "其他日期:    %s\n", r.DateOther)
	}
	fmt.Fprintf(w, "出席人員:    %s\n", r.StaffDisplay(noStaffLabel))
	fmt.Fprintf(w, "聯絡人:      %s\n", r.ApplicantName)
	fmt.Fprintf(w, "電話:        %s\n", r.Phone)
	fmt.Fprintf(w, "參與人數:    %s\n", r.ParticipantCount)
	fmt.Fprintf(w, "困難:        %s\n", r.Difficulties)
	fmt.Fprintf(w, "期望:        %s\n", r.Expectations)
	if r.CreatedAt != "" {
		fmt.Fprintf(w, "建立時間:    %s\n", r.CreatedAt)
	}
	fmt.Fprintln(w)
}

// printExtraction writes the fields an extractor returned, skipping absent ones
func printExtraction(w io.Writer, x model.Extraction) {
	fields := []struct {
		label string
		value *string
	}{
		{"學校名稱", x.SchoolName},
		{"申請人", x.ApplicantName},
		{"電話", x.Phone},
		{"首選日期", x.FirstChoiceDate},
		{"首選開始", x.FirstChoiceStart},
		{"首選結束", x.FirstChoiceEnd},
		{"次選日期", x.SecondChoiceDate},
		{"次選開始", x.SecondChoiceStart},
		{"次選結束", x.SecondChoiceEnd},
		{"參與人數", x.ParticipantCount},
		{"困難", x.Difficulties},
		{"期望", x.Expectations},
	}

	for _, f := range fields {
		if f.value == nil {
			continue
		}
		fmt.Fprintf(w, "  %s: %s\n", f.label, *f.value)
	}
}
