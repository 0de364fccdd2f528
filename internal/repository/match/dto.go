package match

import (
	"time"

	"github.com/talentgrid/matchd/internal/domain"
)

// matchRow is the persistence shape of a scored pair. The composite unique
// index is what makes batch upserts idempotent per pair.
type matchRow struct {
	ID            int64 `gorm:"primaryKey;autoIncrement"`
	RequirementID int64 `gorm:"uniqueIndex:idx_match_pair;not null"`
	CandidateID   int64 `gorm:"uniqueIndex:idx_match_pair;not null"`

	OverallScore      float64 `gorm:"type:decimal(4,3);index"`
	SkillScore        float64 `gorm:"type:decimal(4,3)"`
	ExperienceScore   float64 `gorm:"type:decimal(4,3)"`
	EducationScore    float64 `gorm:"type:decimal(4,3)"`
	LocationScore     float64 `gorm:"type:decimal(4,3)"`
	RateScore         float64 `gorm:"type:decimal(4,3)"`
	AvailabilityScore float64 `gorm:"type:decimal(4,3)"`
	CultureScore      float64 `gorm:"type:decimal(4,3)"`

	MissingSkills     []string           `gorm:"serializer:json;type:jsonb"`
	StandoutQualities []string           `gorm:"serializer:json;type:jsonb"`
	ScoreBreakdown    map[string]float64 `gorm:"serializer:json;type:jsonb"`

	Status    string `gorm:"type:text;default:'pending'"`
	MatchedAt time.Time
	MatchedBy string `gorm:"type:text"`
	Notes     string `gorm:"type:text"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (matchRow) TableName() string { return "match_scores" }

func fromDomain(m domain.MatchResult) matchRow {
	return matchRow{
		RequirementID:     m.RequirementID,
		CandidateID:       m.CandidateID,
		OverallScore:      m.OverallScore,
		SkillScore:        m.SkillScore,
		ExperienceScore:   m.ExperienceScore,
		EducationScore:    m.EducationScore,
		LocationScore:     m.LocationScore,
		RateScore:         m.RateScore,
		AvailabilityScore: m.AvailabilityScore,
		CultureScore:      m.CultureScore,
		MissingSkills:     m.MissingSkills,
		StandoutQualities: m.StandoutQualities,
		ScoreBreakdown:    m.ScoreBreakdown,
		Status:            string(m.Status),
		MatchedAt:         m.MatchedAt,
		MatchedBy:         m.MatchedBy,
		Notes:             m.Notes,
	}
}

func (r matchRow) toDomain() domain.MatchResult {
	return domain.MatchResult{
		RequirementID:     r.RequirementID,
		CandidateID:       r.CandidateID,
		OverallScore:      r.OverallScore,
		SkillScore:        r.SkillScore,
		ExperienceScore:   r.ExperienceScore,
		EducationScore:    r.EducationScore,
		LocationScore:     r.LocationScore,
		RateScore:         r.RateScore,
		AvailabilityScore: r.AvailabilityScore,
		CultureScore:      r.CultureScore,
		MissingSkills:     r.MissingSkills,
		StandoutQualities: r.StandoutQualities,
		ScoreBreakdown:    r.ScoreBreakdown,
		Status:            domain.MatchStatus(r.Status),
		MatchedAt:         r.MatchedAt,
		MatchedBy:         r.MatchedBy,
		Notes:             r.Notes,
	}
}
