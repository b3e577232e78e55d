package model

import (
	"strings"
)

// Status represents the processing state of an application
type Status string

const (
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
)

// StatusFilterAll selects every record regardless of status
const StatusFilterAll = "all"

// Statuses lists the valid statuses in display order
var Statuses = []Status{StatusProcessing, StatusCompleted}

// IsValid checks if the status is one of the known statuses
func (s Status) IsValid() bool {
	switch s {
	case StatusProcessing, StatusCompleted:
		return true
	}
	return false
}

// OrDefault returns the status, or processing when it is unset
func (s Status) OrDefault() Status {
	if s == "" {
		return StatusProcessing
	}
	return s
}

// Label returns the display label for the status
func (s Status) Label() string {
	switch s.OrDefault() {
	case StatusProcessing:
		return "進行中"
	case StatusCompleted:
		return "已完成"
	}
	return string(s)
}

// FilterLabel returns the display label for a status filter value
func FilterLabel(filter string) string {
	if filter == "" || filter == StatusFilterAll {
		return "全部"
	}
	return Status(filter).Label()
}

// StaffSeparator joins staff names when a staff list is flattened to a single cell
const StaffSeparator = ", "

// Staff is the list of staff assigned to a visit. Duplicates are tolerated.
type Staff []string

// ParseStaff splits a flattened staff cell back into names
func ParseStaff(s string) Staff {
	parts := strings.Split(s, ",")
	staff := make(Staff, 0, len(parts))
	for _, p := range parts {
		if name := strings.TrimSpace(p); name != "" {
			staff = append(staff, name)
		}
	}
	return staff
}

// String flattens the staff list into its display / storage form
func (s Staff) String() string {
	return strings.Join(s, StaffSeparator)
}

// Contains reports whether name is assigned
func (s Staff) Contains(name string) bool {
	for _, n := range s {
		if n == name {
			return true
		}
	}
	return false
}

// Without returns a copy of the list with every occurrence of name removed
func (s Staff) Without(name string) Staff {
	out := make(Staff, 0, len(s))
	for _, n := range s {
		if n != name {
			out = append(out, n)
		}
	}
	return out
}

// ApplicationRecord is one on-site visit application
type ApplicationRecord struct {
	ID                string `json:"id"`
	SchoolName        string `json:"schoolName"`
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
	DateOther         string `json:"dateOther,omitempty"`
	ParticipantCount  string `json:"participantCount"`
	Difficulties      string `json:"difficulties"`
	Expectations      string `json:"expectations"`
	Staff             Staff  `json:"staff"`
	Status            Status `json:"status"`
	CreatedAt         string `json:"createdAt,omitempty"`
}

// StaffDisplay returns the staff string shown in lists, or fallback when no one is assigned
func (r ApplicationRecord) StaffDisplay(fallback string) string {
	if len(r.Staff) == 0 {
		return fallback
	}
	return r.Staff.String()
}
