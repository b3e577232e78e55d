package services

import (
	"github.com/coe-onsite/onsite-manager/pkg/core/model"
	"github.com/coe-onsite/onsite-manager/pkg/db"
)

func recordFromDB(r db.ApplicationRecord) model.ApplicationRecord {
	return model.ApplicationRecord{
		ID:                r.ID,
		SchoolName:        r.SchoolName,
		ApplicantName:     r.ApplicantName,
		Phone:             r.Phone,
		ConfirmedDate:     r.ConfirmedDate,
		StartTime:         r.StartTime,
		EndTime:           r.EndTime,
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
		Staff:             model.ParseStaff(r.Staff),
		Status:            model.Status(r.Status),
		CreatedAt:         r.CreatedAt,
	}
}

func recordToDB(r model.ApplicationRecord) db.ApplicationRecord {
	return db.ApplicationRecord{
		ID:                r.ID,
		SchoolName:        r.SchoolName,
		ApplicantName:     r.ApplicantName,
		Phone:             r.Phone,
		ConfirmedDate:     r.ConfirmedDate,
		StartTime:         r.StartTime,
		EndTime:           r.EndTime,
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
		Staff:             r.Staff.String(),
		Status:            string(r.Status),
		CreatedAt:         r.CreatedAt,
	}
}
