// Package match persists scored pairs in Postgres through gorm. The table
// carries one row per (requirement, candidate) pair, enforced by a composite
// unique index; batch runs converge on that row instead of duplicating it.
package match

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/talentgrid/matchd/internal/domain"
)

// AutoMigrate creates or updates the match_scores table.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&matchRow{}); err != nil {
		return fmt.Errorf("migrate match_scores: %w", err)
	}
	return nil
}

// Repo implements the match reader and writer contracts.
type Repo struct {
	db *gorm.DB
}

// New creates a match score repository.
func New(db *gorm.DB) *Repo {
	return &Repo{db: db}
}

// scoreColumns are the columns a re-run is allowed to rewrite. Review state
// (status) and recruiter notes survive recalculation.
var scoreColumns = []string{
	"overall_score",
	"skill_score",
	"experience_score",
	"education_score",
	"location_score",
	"rate_score",
	"availability_score",
	"culture_score",
	"missing_skills",
	"standout_qualities",
	"score_breakdown",
	"matched_at",
	"matched_by",
	"updated_at",
}

// Upsert writes a scored pair, converging on the existing row when the pair
// was scored before. Returns true when a new row was created. The flag comes
// from the insert outcome itself, so concurrent first writers of the same
// pair cannot both report created.
func (r *Repo) Upsert(ctx context.Context, result domain.MatchResult) (bool, error) {
	row := fromDomain(result)
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "requirement_id"}, {Name: "candidate_id"}},
			DoNothing: true,
		}).
		Create(&row)
	if res.Error != nil {
		return false, fmt.Errorf("insert match %d/%d: %w", result.RequirementID, result.CandidateID, res.Error)
	}
	if res.RowsAffected > 0 {
		return true, nil
	}

	// The pair lost the insert: rewrite its score columns in place. Select
	// forces zero-valued scores through, which Updates would otherwise skip.
	err := r.db.WithContext(ctx).Model(&matchRow{}).
		Where("requirement_id = ? AND candidate_id = ?", result.RequirementID, result.CandidateID).
		Select(scoreColumns).
		Updates(&row).Error
	if err != nil {
		return false, fmt.Errorf("update match %d/%d: %w", result.RequirementID, result.CandidateID, err)
	}
	return false, nil
}

// Override rewrites the overall score, provenance, notes and timestamp of an
// existing row. Component scores are left as the last system run wrote them.
func (r *Repo) Override(
	ctx context.Context, requirementID, candidateID int64, score float64, notes string,
) (domain.MatchResult, error) {
	res := r.db.WithContext(ctx).Model(&matchRow{}).
		Where("requirement_id = ? AND candidate_id = ?", requirementID, candidateID).
		Updates(map[string]any{
			"overall_score": score,
			"matched_by":    domain.MatchedByManualOverride,
			"notes":         notes,
			"matched_at":    gorm.Expr("CURRENT_TIMESTAMP"),
		})
	if res.Error != nil {
		return domain.MatchResult{}, fmt.Errorf(
			"override match %d/%d: %w", requirementID, candidateID, res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.MatchResult{}, domain.ErrMatchNotFound
	}

	return r.Get(ctx, requirementID, candidateID)
}

// Get returns the stored score for one pair.
func (r *Repo) Get(ctx context.Context, requirementID, candidateID int64) (domain.MatchResult, error) {
	var row matchRow
	err := r.db.WithContext(ctx).
		Where("requirement_id = ? AND candidate_id = ?", requirementID, candidateID).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.MatchResult{}, domain.ErrMatchNotFound
		}
		return domain.MatchResult{}, fmt.Errorf(
			"select match %d/%d: %w", requirementID, candidateID, err)
	}
	return row.toDomain(), nil
}

// ListForRequirement returns stored scores for one requirement ordered best
// first, plus the total row count for pagination.
func (r *Repo) ListForRequirement(
	ctx context.Context, requirementID int64, limit, offset int,
) ([]domain.MatchResult, int, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&matchRow{}).
		Where("requirement_id = ?", requirementID).
		Count(&total).Error
	if err != nil {
		return nil, 0, fmt.Errorf("count matches for requirement %d: %w", requirementID, err)
	}

	var rows []matchRow
	err = r.db.WithContext(ctx).
		Where("requirement_id = ?", requirementID).
		Order("overall_score DESC, candidate_id ASC").
		Limit(limit).
		Offset(offset).
		Find(&rows).Error
	if err != nil {
		return nil, 0, fmt.Errorf("list matches for requirement %d: %w", requirementID, err)
	}

	results := make([]domain.MatchResult, 0, len(rows))
	for _, row := range rows {
		results = append(results, row.toDomain())
	}
	return results, int(total), nil
}
