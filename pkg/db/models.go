package db

// ApplicationRecord is a stored on-site visit application.
// Staff is kept as the display string ("A, B").
type ApplicationRecord struct {
	ID                string `ssql_header:"id" ssql_type:"text"`
	SchoolName        string `ssql_header:"school_name" ssql_type:"text"`
	ApplicantName     string `ssql_header:"applicant_name" ssql_type:"text"`
	Phone             string `ssql_header:"phone" ssql_type:"text"`
	ConfirmedDate     string `ssql_header:"confirmed_date" ssql_type:"date"`
	StartTime         string `ssql_header:"start_time" ssql_type:"time"`
	EndTime           string `ssql_header:"end_time" ssql_type:"time"`
	FirstChoiceDate   string `ssql_header:"first_choice_date" ssql_type:"date"`
	FirstChoiceStart  string `ssql_header:"first_choice_start" ssql_type:"time"`
	FirstChoiceEnd    string `ssql_header:"first_choice_end" ssql_type:"time"`
	SecondChoiceDate  string `ssql_header:"second_choice_date" ssql_type:"date"`
	SecondChoiceStart string `ssql_header:"second_choice_start" ssql_type:"time"`
	SecondChoiceEnd   string `ssql_header:"second_choice_end" ssql_type:"time"`
	DateOther         string `ssql_header:"date_other" ssql_type:"text"`
	ParticipantCount  string `ssql_header:"participant_count" ssql_type:"text"`
	Difficulties      string `ssql_header:"difficulties" ssql_type:"text"`
	Expectations      string `ssql_header:"expectations" ssql_type:"text"`
	Staff             string `ssql_header:"staff" ssql_type:"text"`
	Status            string `ssql_header:"status" ssql_type:"text"`
	CreatedAt         string `ssql_header:"created_at" ssql_type:"timestamp"`
}
