package repositories

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"gridiron/internal/models"
)

// ProjectionFilter narrows projection and ranking queries. Zero values match all.
type ProjectionFilter struct {
	Source   string
	Position string
	Limit    int
	Offset   int
}

// ProjectionRepository stores imported fantasy projections and rankings.
type ProjectionRepository interface {
	// ReplaceProjections swaps every projection of source for rows in one transaction.
	ReplaceProjections(ctx context.Context, source string, rows []models.Projection) error
	ListProjections(ctx context.Context, filter ProjectionFilter) ([]models.Projection, int64, error)

	// ReplaceRankings swaps every ranking of source for rows in one transaction.
	ReplaceRankings(ctx context.Context, source string, rows []models.Ranking) error
	ListRankings(ctx context.Context, filter ProjectionFilter) ([]models.Ranking, int64, error)
}

const importBatchSize = 200

type projectionRepository struct {
	db *gorm.DB
}

func NewProjectionRepository(db *gorm.DB) ProjectionRepository {
	return &projectionRepository{db: db}
}

func (r *projectionRepository) ReplaceProjections(ctx context.Context, source string, rows []models.Projection) error {
	for i := range rows {
		rows[i].Source = source
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("source = ?", source).Delete(&models.Projection{}).Error; err != nil {
			return fmt.Errorf("failed to clear projections: %w", err)
		}
		if len(rows) == 0 {
			return nil
		}
		if err := tx.CreateInBatches(rows, importBatchSize).Error; err != nil {
			return fmt.Errorf("failed to insert projections: %w", err)
		}
		return nil
	})
}

func (r *projectionRepository) ListProjections(ctx context.Context, filter ProjectionFilter) ([]models.Projection, int64, error) {
	var (
		rows  []models.Projection
		total int64
	)

	scope := func() *gorm.DB {
		return applyFilter(r.db.WithContext(ctx).Model(&models.Projection{}), filter)
	}
	if err := scope().Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count projections: %w", err)
	}
	err := paginate(scope(), filter).
		Order("fantasy_points DESC").
		Order("name ASC").
		Find(&rows).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list projections: %w", err)
	}
	return rows, total, nil
}

func (r *projectionRepository) ReplaceRankings(ctx context.Context, source string, rows []models.Ranking) error {
	for i := range rows {
		rows[i].Source = source
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("source = ?", source).Delete(&models.Ranking{}).Error; err != nil {
			return fmt.Errorf("failed to clear rankings: %w", err)
		}
		if len(rows) == 0 {
			return nil
		}
		if err := tx.CreateInBatches(rows, importBatchSize).Error; err != nil {
			return fmt.Errorf("failed to insert rankings: %w", err)
		}
		return nil
	})
}

func (r *projectionRepository) ListRankings(ctx context.Context, filter ProjectionFilter) ([]models.Ranking, int64, error) {
	var (
		rows  []models.Ranking
		total int64
	)

	scope := func() *gorm.DB {
		return applyFilter(r.db.WithContext(ctx).Model(&models.Ranking{}), filter)
	}
	if err := scope().Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count rankings: %w", err)
	}
	err := paginate(scope(), filter).
		Order("overall_rank ASC").
		Find(&rows).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list rankings: %w", err)
	}
	return rows, total, nil
}

func applyFilter(db *gorm.DB, filter ProjectionFilter) *gorm.DB {
	if filter.Source != "" {
		db = db.Where("source = ?", filter.Source)
	}
	if filter.Position != "" {
		db = db.Where("position = ?", filter.Position)
	}
	return db
}

func paginate(db *gorm.DB, filter ProjectionFilter) *gorm.DB {
	if filter.Limit > 0 {
		db = db.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		db = db.Offset(filter.Offset)
	}
	return db
}
