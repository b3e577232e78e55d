package model

// Extraction holds the fields an AI extractor read from an application PDF.
// A nil field was absent from the answer; a non-nil empty field was returned
// as an empty string and still overwrites the draft.
type Extraction struct {
	SchoolName        *string `json:"schoolName,omitempty"`
	ApplicantName     *string `json:"applicantName,omitempty"`
	Phone             *string `json:"phone,omitempty"`
	FirstChoiceDate   *string `json:"firstChoiceDate,omitempty"`
	FirstChoiceStart  *string `json:"firstChoiceStart,omitempty"`
	FirstChoiceEnd    *string `json:"firstChoiceEnd,omitempty"`
	SecondChoiceDate  *string `json:"secondChoiceDate,omitempty"`
	SecondChoiceStart *string `json:"secondChoiceStart,omitempty"`
	SecondChoiceEnd   *string `json:"secondChoiceEnd,omitempty"`
	ParticipantCount  *string `json:"participantCount,omitempty"`
	Difficulties      *string `json:"difficulties,omitempty"`
	Expectations      *string `json:"expectations,omitempty"`
}
