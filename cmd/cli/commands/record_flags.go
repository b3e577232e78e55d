package commands

import (
	"fmt"

	"github.com/spf13/pflag"

	"github.com/coe-onsite/onsite-manager/pkg/core/model"
)

// textField binds one string flag to one draft field
type textField struct {
	flag  string
	usage string
	field func(f *model.Form) *string
}

var textFields = []textField{
	{"school", "School name", func(f *model.Form) *string { return &f.SchoolName }},
	{"applicant", "Applicant name", func(f *model.Form) *string { return &f.ApplicantName }},
	{"phone", "Contact phone", func(f *model.Form) *string { return &f.Phone }},
	{"date", "Confirmed date (YYYY-MM-DD)", func(f *model.Form) *string { return &f.ConfirmedDate }},
	{"start", "Confirmed start time (HH:mm)", func(f *model.Form) *string { return &f.StartTime }},
	{"end", "Confirmed end time (HH:mm)", func(f *model.Form) *string { return &f.EndTime }},
	{"first-date", "First choice date", func(f *model.Form) *string { return &f.FirstChoiceDate }},
	{"first-start", "First choice start time", func(f *model.Form) *string { return &f.FirstChoiceStart }},
	{"first-end", "First choice end time", func(f *model.Form) *string { return &f.FirstChoiceEnd }},
	{"second-date", "Second choice date", func(f *model.Form) *string { return &f.SecondChoiceDate }},
	{"second-start", "Second choice start time", func(f *model.Form) *string { return &f.SecondChoiceStart }},
	{"second-end", "Second choice end time", func(f *model.Form) *string { return &f.SecondChoiceEnd }},
	{"date-other", "Other date note", func(f *model.Form) *string { return &f.DateOther }},
	{"participants", "Participant count", func(f *model.Form) *string { return &f.ParticipantCount }},
	{"difficulties", "Difficulties", func(f *model.Form) *string { return &f.Difficulties }},
	{"expectations", "Expectations", func(f *model.Form) *string { return &f.Expectations }},
}

// addRecordFlags registers one flag per draft field on fs
func addRecordFlags(fs *pflag.FlagSet) {
	for _, tf := range textFields {
		fs.String(tf.flag, "", tf.usage)
	}
	fs.StringSlice("staff", nil, "Assigned staff (comma separated, replaces the current list)")
	fs.String("status", "", "Status (processing, completed)")
	fs.String("use", "", "Copy a requested slot into the confirmed slot (first, second, other)")
}

// applyRecordFlags copies every flag that was set on the command line into the draft.
// Flags left unset keep the draft's value. The slot selected by --use is applied
// after the choice fields, and explicit --date/--start/--end win over it.
func applyRecordFlags(fs *pflag.FlagSet, f *model.Form) error {
	for _, tf := range textFields {
		if tf.flag == "date" || tf.flag == "start" || tf.flag == "end" {
			continue
		}
		if err := setIfChanged(fs, tf, f); err != nil {
			return err
		}
	}

	if fs.Changed("use") {
		use, _ := fs.GetString("use")
		choice := model.DateChoice(use)
		if !choice.IsValid() {
			return fmt.Errorf("use must be one of first, second, other, got: %s", use)
		}
		f.ApplyDateSelection(choice)
	}

	for _, tf := range textFields {
		if tf.flag != "date" && tf.flag != "start" && tf.flag != "end" {
			continue
		}
		if err := setIfChanged(fs, tf, f); err != nil {
			return err
		}
	}

	if fs.Changed("staff") {
		names, _ := fs.GetStringSlice("staff")
		f.Staff = model.Staff{}
		for _, name := range names {
			f.AddStaff(name)
		}
	}

	if fs.Changed("status") {
		status, _ := fs.GetString("status")
		if !model.Status(status).IsValid() {
			return fmt.Errorf("status must be one of processing, completed, got: %s", status)
		}
		f.Status = model.Status(status)
	}

	return nil
}

func setIfChanged(fs *pflag.FlagSet, tf textField, f *model.Form) error {
	if !fs.Changed(tf.flag) {
		return nil
	}
	value, err := fs.GetString(tf.flag)
	if err != nil {
		return fmt.Errorf("failed to read --%s: %w", tf.flag, err)
	}
	*tf.field(f) = value
	return nil
}
