package profile

import (
	"time"

	"github.com/talentgrid/matchd/internal/domain"
)

// requirementRow is the persistence shape of a job requirement. List-valued
// fields are stored as JSON columns.
type requirementRow struct {
	ID             int64      `gorm:"primaryKey"`
	Title          string     `gorm:"type:text"`
	SkillsRequired []string   `gorm:"serializer:json;type:jsonb"`
	ExperienceMin  *float64   `gorm:"type:decimal(4,1)"`
	ExperienceMax  *float64   `gorm:"type:decimal(4,1)"`
	EducationLevel string     `gorm:"type:text"`
	WorkMode       string     `gorm:"type:text"`
	City           string     `gorm:"type:text"`
	State          string     `gorm:"type:text"`
	Country        string     `gorm:"type:text"`
	RateMin        *float64   `gorm:"type:decimal(10,2)"`
	RateMax        *float64   `gorm:"type:decimal(10,2)"`
	StartDate      *time.Time `gorm:""`
	Status         string     `gorm:"type:text;index"`
	IsActive       bool       `gorm:"index"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (requirementRow) TableName() string { return "requirements" }

func (r requirementRow) toDomain() domain.Requirement {
	return domain.Requirement{
		ID:             r.ID,
		Title:          r.Title,
		SkillsRequired: r.SkillsRequired,
		ExperienceMin:  r.ExperienceMin,
		ExperienceMax:  r.ExperienceMax,
		EducationLevel: r.EducationLevel,
		WorkMode:       r.WorkMode,
		Location:       domain.Location{City: r.City, State: r.State, Country: r.Country},
		RateMin:        r.RateMin,
		RateMax:        r.RateMax,
		StartDate:      r.StartDate,
		Status:         r.Status,
		IsActive:       r.IsActive,
	}
}

// candidateRow is the persistence shape of a candidate profile.
type candidateRow struct {
	ID                   int64                    `gorm:"primaryKey"`
	FullName             string                   `gorm:"type:text"`
	Email                string                   `gorm:"type:text;uniqueIndex"`
	Skills               []domain.Skill           `gorm:"serializer:json;type:jsonb"`
	TotalExperienceYears *float64                 `gorm:"type:decimal(4,1)"`
	Education            []domain.EducationRecord `gorm:"serializer:json;type:jsonb"`
	City                 string                   `gorm:"type:text"`
	State                string                   `gorm:"type:text"`
	Country              string                   `gorm:"type:text"`
	DesiredRate          *float64                 `gorm:"type:decimal(10,2)"`
	AvailabilityDate     *time.Time               `gorm:""`
	WillingToRelocate    bool
	IsActive             bool `gorm:"index"`
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

func (candidateRow) TableName() string { return "candidates" }

func (c candidateRow) toDomain() domain.Candidate {
	return domain.Candidate{
		ID:                   c.ID,
		FullName:             c.FullName,
		Email:                c.Email,
		Skills:               c.Skills,
		TotalExperienceYears: c.TotalExperienceYears,
		Education:            c.Education,
		Location:             domain.Location{City: c.City, State: c.State, Country: c.Country},
		DesiredRate:          c.DesiredRate,
		AvailabilityDate:     c.AvailabilityDate,
		WillingToRelocate:    c.WillingToRelocate,
		IsActive:             c.IsActive,
	}
}

// feedbackRow is the persistence shape of an interview feedback record.
// Only the culture rating is read by the matcher.
type feedbackRow struct {
	ID              int64    `gorm:"primaryKey;autoIncrement"`
	CandidateID     int64    `gorm:"index;not null"`
	CultureFitScore *float64 `gorm:"type:decimal(3,2)"`
	CreatedAt       time.Time
}

func (feedbackRow) TableName() string { return "interview_feedback" }

func (f feedbackRow) toDomain() domain.InterviewFeedback {
	return domain.InterviewFeedback{
		CandidateID:     f.CandidateID,
		CultureFitScore: f.CultureFitScore,
	}
}
