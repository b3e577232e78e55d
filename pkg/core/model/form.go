package model

import (
	"strings"
	"time"

	"github.com/coe-onsite/onsite-manager/pkg/core/datefmt"
)

// DateChoice selects which requested slot becomes the confirmed one
type DateChoice string

const (
	DateChoiceFirst  DateChoice = "first"
	DateChoiceSecond DateChoice = "second"
	DateChoiceOther  DateChoice = "other"
)

// IsValid checks if the date choice is known
func (c DateChoice) IsValid() bool {
	switch c {
	case DateChoiceFirst, DateChoiceSecond, DateChoiceOther:
		return true
	}
	return false
}

// Form is the editable draft behind the application form
type Form struct {
	SchoolName        string `json:"schoolName" validate:"required"`
	ApplicantName     string `json:"applicantName"`
	Phone             string `json:"phone"`
	ConfirmedDate     string `json:"confirmedDate"`
	StartTime         string `json:"startTime"`
	EndTime           string `json:"endTime"`
	FirstChoiceDate   string `json:"firstChoiceDate"`
	FirstChoiceStart  string `json:"firstChoiceStart"`
	FirstChoiceEnd    string `json:"firstChoiceEnd"`
	SecondChoiceDate  string `json:"secondChoiceDate"`
	SecondChoiceStart string `json:"secondChoiceStart"`
	SecondChoiceEnd   string `json:"secondChoiceEnd"`
	DateOther         string `json:"dateOther"`
	ParticipantCount  string `json:"participantCount"`
	Difficulties      string `json:"difficulties"`
	Expectations      string `json:"expectations"`
	Staff             Staff  `json:"staff"`
	Status            Status `json:"status" validate:"omitempty,oneof=processing completed"`
}

// NewForm returns an empty draft with the default visit slot
func NewForm(defaultStart, defaultEnd string) Form {
	return Form{
		StartTime: defaultStart,
		EndTime:   defaultEnd,
		Staff:     Staff{},
		Status:    StatusProcessing,
	}
}

// FormFromRecord loads a saved record into a draft for editing.
// Times stored as timestamps are rendered in loc.
func FormFromRecord(r ApplicationRecord, loc *time.Location) Form {
	staff := make(Staff, len(r.Staff))
	copy(staff, r.Staff)

	return Form{
		SchoolName:        r.SchoolName,
		ApplicantName:     r.ApplicantName,
		Phone:             r.Phone,
		ConfirmedDate:     datefmt.FormatDate(r.ConfirmedDate),
		StartTime:         datefmt.FormatTimeIn(r.StartTime, loc),
		EndTime:           datefmt.FormatTimeIn(r.EndTime, loc),
		FirstChoiceDate:   r.FirstChoiceDate,
		FirstChoiceStart:  r.FirstChoiceStart,
		FirstChoiceEnd:    r.FirstChoiceEnd,
		SecondChoiceDate:  r.SecondChoiceDate,
		SecondChoiceStart: r.SecondChoiceStart,
		SecondChoiceEnd:   r.SecondChoiceEnd,
		DateOther:         r.DateOther,
		ParticipantCount:  r.ParticipantCount,
		Difficulties:      r.Difficulties,
		Expectations:      r.Expectations,
		Staff:             staff,
		Status:            r.Status.OrDefault(),
	}
}

// ToRecord builds a record from the draft
func (f Form) ToRecord(id, createdAt string) ApplicationRecord {
	staff := make(Staff, len(f.Staff))
	copy(staff, f.Staff)

	return ApplicationRecord{
		ID:                id,
		SchoolName:        f.SchoolName,
		ApplicantName:     f.ApplicantName,
		Phone:             f.Phone,
		ConfirmedDate:     f.ConfirmedDate,
		StartTime:         f.StartTime,
		EndTime:           f.EndTime,
		FirstChoiceDate:   f.FirstChoiceDate,
		FirstChoiceStart:  f.FirstChoiceStart,
		FirstChoiceEnd:    f.FirstChoiceEnd,
		SecondChoiceDate:  f.SecondChoiceDate,
		SecondChoiceStart: f.SecondChoiceStart,
		SecondChoiceEnd:   f.SecondChoiceEnd,
		DateOther:         f.DateOther,
		ParticipantCount:  f.ParticipantCount,
		Difficulties:      f.Difficulties,
		Expectations:      f.Expectations,
		Staff:             staff,
		Status:            f.Status.OrDefault(),
		CreatedAt:         createdAt,
	}
}

// ToggleStaff removes name if assigned, otherwise appends it
func (f *Form) ToggleStaff(name string) {
	if f.Staff.Contains(name) {
		f.Staff = f.Staff.Without(name)
		return
	}
	f.Staff = append(f.Staff, name)
}

// AddStaff appends a custom staff name. Blank names are ignored.
func (f *Form) AddStaff(name string) bool {
	name = strings.TrimSpace(name)
	if name == "" {
		return false
	}
	f.Staff = append(f.Staff, name)
	return true
}

// ApplyDateSelection copies a requested slot into the confirmed slot
func (f *Form) ApplyDateSelection(choice DateChoice) {
	switch choice {
	case DateChoiceFirst:
		f.ConfirmedDate = f.FirstChoiceDate
		f.StartTime = f.FirstChoiceStart
		f.EndTime = f.FirstChoiceEnd
	case DateChoiceSecond:
		f.ConfirmedDate = f.SecondChoiceDate
		f.StartTime = f.SecondChoiceStart
		f.EndTime = f.SecondChoiceEnd
	case DateChoiceOther:
		f.ConfirmedDate = ""
		f.StartTime = ""
		f.EndTime = ""
	}
}

// ApplyExtraction merges AI-extracted fields into the draft.
// Every field present in the extraction overwrites the draft, then the
// confirmed slot is taken from the first choice when it normalizes to a value.
func (f *Form) ApplyExtraction(x Extraction, loc *time.Location) {
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}

	set(&f.SchoolName, x.SchoolName)
	set(&f.ApplicantName, x.ApplicantName)
	set(&f.Phone, x.Phone)
	set(&f.FirstChoiceDate, x.FirstChoiceDate)
	set(&f.FirstChoiceStart, x.FirstChoiceStart)
	set(&f.FirstChoiceEnd, x.FirstChoiceEnd)
	set(&f.SecondChoiceDate, x.SecondChoiceDate)
	set(&f.SecondChoiceStart, x.SecondChoiceStart)
	set(&f.SecondChoiceEnd, x.SecondChoiceEnd)
	set(&f.ParticipantCount, x.ParticipantCount)
	set(&f.Difficulties, x.Difficulties)
	set(&f.Expectations, x.Expectations)

	if d := datefmt.FormatDate(deref(x.FirstChoiceDate)); d != "" {
		f.ConfirmedDate = d
	}
	if s := datefmt.FormatTimeIn(deref(x.FirstChoiceStart), loc); s != "" {
		f.StartTime = s
	}
	if e := datefmt.FormatTimeIn(deref(x.FirstChoiceEnd), loc); e != "" {
		f.EndTime = e
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
