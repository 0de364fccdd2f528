package domain

import "time"

// Location is a city/state/country triple. Empty fields mean "unspecified".
type Location struct {
	City    string
	State   string
	Country string
}

// Requirement is a read-only snapshot of a job requirement used for scoring.
type Requirement struct {
	ID             int64
	Title          string
	SkillsRequired []string
	ExperienceMin  *float64
	ExperienceMax  *float64
	EducationLevel string
	WorkMode       string
	Location       Location
	RateMin        *float64
	RateMax        *float64
	StartDate      *time.Time
	Status         string
	IsActive       bool
}

// Skill is one entry of a candidate's skill list.
type Skill struct {
	Name  string
	Level string
	Years float64
}

// EducationRecord is one entry of a candidate's education history.
type EducationRecord struct {
	Degree      string
	Field       string
	Institution string
	Year        int
}

// Candidate is a read-only snapshot of a candidate used for scoring.
type Candidate struct {
	ID                   int64
	FullName             string
	Email                string
	Skills               []Skill
	TotalExperienceYears *float64
	Education            []EducationRecord
	Location             Location
	DesiredRate          *float64
	AvailabilityDate     *time.Time
	WillingToRelocate    bool
	IsActive             bool
}

// InterviewFeedback is a single interview feedback record for a candidate.
// CultureFitScore is nil when the interviewer left no culture rating.
type InterviewFeedback struct {
	CandidateID     int64
	CultureFitScore *float64
}
