// Package profile persists requirement and candidate profiles along with
// interview feedback, backed by Postgres through gorm.
package profile

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/talentgrid/matchd/internal/domain"
)

// AutoMigrate creates or updates the profile tables.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&requirementRow{}, &candidateRow{}, &feedbackRow{}); err != nil {
		return fmt.Errorf("migrate profile tables: %w", err)
	}
	return nil
}

// RequirementRepo implements the requirement reader contracts.
type RequirementRepo struct {
	db *gorm.DB
}

// NewRequirements creates a requirement repository.
func NewRequirements(db *gorm.DB) *RequirementRepo {
	return &RequirementRepo{db: db}
}

// Get returns one requirement by ID.
func (r *RequirementRepo) Get(ctx context.Context, id int64) (domain.Requirement, error) {
	var row requirementRow
	err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Requirement{}, domain.ErrRequirementNotFound
		}
		return domain.Requirement{}, fmt.Errorf("select requirement %d: %w", id, err)
	}
	return row.toDomain(), nil
}

// ListActive returns all requirements open for matching: active rows whose
// workflow status is "active".
func (r *RequirementRepo) ListActive(ctx context.Context) ([]domain.Requirement, error) {
	var rows []requirementRow
	err := r.db.WithContext(ctx).
		Where("is_active = ? AND status = ?", true, "active").
		Order("id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("list active requirements: %w", err)
	}

	reqs := make([]domain.Requirement, 0, len(rows))
	for _, row := range rows {
		reqs = append(reqs, row.toDomain())
	}
	return reqs, nil
}

// CandidateRepo implements the candidate reader contracts.
type CandidateRepo struct {
	db *gorm.DB
}

// NewCandidates creates a candidate repository.
func NewCandidates(db *gorm.DB) *CandidateRepo {
	return &CandidateRepo{db: db}
}

// Get returns one candidate by ID.
func (r *CandidateRepo) Get(ctx context.Context, id int64) (domain.Candidate, error) {
	var row candidateRow
	err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Candidate{}, domain.ErrCandidateNotFound
		}
		return domain.Candidate{}, fmt.Errorf("select candidate %d: %w", id, err)
	}
	return row.toDomain(), nil
}

// ListActive returns a page of active candidates ordered by ID, so repeated
// paging over a stable dataset never skips or repeats a profile.
func (r *CandidateRepo) ListActive(ctx context.Context, offset, limit int) ([]domain.Candidate, error) {
	var rows []candidateRow
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("id ASC").
		Offset(offset).
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("list active candidates at offset %d: %w", offset, err)
	}

	cands := make([]domain.Candidate, 0, len(rows))
	for _, row := range rows {
		cands = append(cands, row.toDomain())
	}
	return cands, nil
}

// FeedbackRepo implements the interview feedback reader contract.
type FeedbackRepo struct {
	db *gorm.DB
}

// NewFeedback creates an interview feedback repository.
func NewFeedback(db *gorm.DB) *FeedbackRepo {
	return &FeedbackRepo{db: db}
}

// ListForCandidate returns every feedback record for a candidate.
func (r *FeedbackRepo) ListForCandidate(ctx context.Context, candidateID int64) ([]domain.InterviewFeedback, error) {
	var rows []feedbackRow
	err := r.db.WithContext(ctx).
		Where("candidate_id = ?", candidateID).
		Order("id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("list feedback for candidate %d: %w", candidateID, err)
	}

	feedback := make([]domain.InterviewFeedback, 0, len(rows))
	for _, row := range rows {
		feedback = append(feedback, row.toDomain())
	}
	return feedback, nil
}
