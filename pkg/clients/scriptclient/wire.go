package scriptclient

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/coe-onsite/onsite-manager/pkg/core/model"
	"github.com/coe-onsite/onsite-manager/pkg/db"
)

// flexString accepts JSON strings, numbers, booleans and null.
// Spreadsheet cells such as phone numbers come back as numbers.
type flexString string

func (s *flexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case len(data) == 0 || string(data) == "null":
		*s = ""
	case data[0] == '"':
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		*s = flexString(str)
	case data[0] == '[' || data[0] == '{':
		return fmt.Errorf("expected a scalar, got %s", data)
	default:
		*s = flexString(data)
	}
	return nil
}

// staffField accepts the joined display string or a JSON array of names
type staffField string

func (s *staffField) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '[' {
		var names []flexString
		if err := json.Unmarshal(data, &names); err != nil {
			return err
		}
		staff := make(model.Staff, 0, len(names))
		for _, n := range names {
			staff = append(staff, string(n))
		}
		*s = staffField(staff.String())
		return nil
	}

	var str flexString
	if err := str.UnmarshalJSON(data); err != nil {
		return err
	}
	*s = staffField(str)
	return nil
}

// wireRecord is a record as the Apps Script endpoint reads and writes it
type wireRecord struct {
	ID                flexString `json:"id"`
	SchoolName        flexString `json:"schoolName"`
	ApplicantName     flexString `json:"applicantName"`
	Phone             flexString `json:"phone"`
	ConfirmedDate     flexString `json:"confirmedDate"`
	StartTime         flexString `json:"startTime"`
	EndTime           flexString `json:"endTime"`
	FirstChoiceDate   flexString `json:"firstChoiceDate"`
	FirstChoiceStart  flexString `json:"firstChoiceStart"`
	FirstChoiceEnd    flexString `json:"firstChoiceEnd"`
	SecondChoiceDate  flexString `json:"secondChoiceDate"`
	SecondChoiceStart flexString `json:"secondChoiceStart"`
	SecondChoiceEnd   flexString `json:"secondChoiceEnd"`
	DateOther         flexString `json:"dateOther,omitempty"`
	ParticipantCount  flexString `json:"participantCount"`
	Difficulties      flexString `json:"difficulties"`
	Expectations      flexString `json:"expectations"`
	Staff             staffField `json:"staff"`
	Status            flexString `json:"status"`
	CreatedAt         flexString `json:"createdAt,omitempty"`
}

// mutation is the POST body for create and update
type mutation struct {
	Action string `json:"action"`
	wireRecord
}

// statusMutation only carries the fields a status change touches
type statusMutation struct {
	Action string `json:"action"`
	ID     string `json:"id"`
	Status string `json:"status,omitempty"`
}

func (w wireRecord) toRecord() db.ApplicationRecord {
	return db.ApplicationRecord{
		ID:                string(w.ID),
		SchoolName:        string(w.SchoolName),
		ApplicantName:     string(w.ApplicantName),
		Phone:             string(w.Phone),
		ConfirmedDate:     string(w.ConfirmedDate),
		StartTime:         string(w.StartTime),
		EndTime:           string(w.EndTime),
		FirstChoiceDate:   string(w.FirstChoiceDate),
		FirstChoiceStart:  string(w.FirstChoiceStart),
		FirstChoiceEnd:    string(w.FirstChoiceEnd),
		SecondChoiceDate:  string(w.SecondChoiceDate),
		SecondChoiceStart: string(w.SecondChoiceStart),
		SecondChoiceEnd:   string(w.SecondChoiceEnd),
		DateOther:         string(w.DateOther),
		ParticipantCount:  string(w.ParticipantCount),
		Difficulties:      string(w.Difficulties),
		Expectations:      string(w.Expectations),
		Staff:             string(w.Staff),
		Status:            string(w.Status),
		CreatedAt:         string(w.CreatedAt),
	}
}

func fromRecord(r *db.ApplicationRecord) wireRecord {
	return wireRecord{
		ID:                flexString(r.ID),
		SchoolName:        flexString(r.SchoolName),
		ApplicantName:     flexString(r.ApplicantName),
		Phone:             flexString(r.Phone),
		ConfirmedDate:     flexString(r.ConfirmedDate),
		StartTime:         flexString(r.StartTime),
		EndTime:           flexString(r.EndTime),
		FirstChoiceDate:   flexString(r.FirstChoiceDate),
		FirstChoiceStart:  flexString(r.FirstChoiceStart),
		FirstChoiceEnd:    flexString(r.FirstChoiceEnd),
		SecondChoiceDate:  flexString(r.SecondChoiceDate),
		SecondChoiceStart: flexString(r.SecondChoiceStart),
		SecondChoiceEnd:   flexString(r.SecondChoiceEnd),
		DateOther:         flexString(r.DateOther),
		ParticipantCount:  flexString(r.ParticipantCount),
		Difficulties:      flexString(r.Difficulties),
		Expectations:      flexString(r.Expectations),
		Staff:             staffField(r.Staff),
		Status:            flexString(r.Status),
		CreatedAt:         flexString(r.CreatedAt),
	}
}
