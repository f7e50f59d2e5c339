package repository

import (
	"context"

	logger "github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"strategystudio/src/database"
	"strategystudio/src/model"
)

// GormStrategyRepository persists the whole strategy collection. The service
// layer treats it as an opaque load/save capability: Save writes the full
// collection (last write wins), Load returns whatever was saved most recently.
type GormStrategyRepository struct {
	db *gorm.DB
}

func NewStrategyRepository() *GormStrategyRepository {
	logger.WithField("component", "GormStrategyRepository").
		Info("Creating new GormStrategyRepository with MainDB")

	return &GormStrategyRepository{
		db: database.MainDB,
	}
}

// Load returns the saved collection, most recently modified first.
func (r *GormStrategyRepository) Load(ctx context.Context) ([]model.Strategy, error) {
	var strategies []model.Strategy
	err := r.db.WithContext(ctx).
		Order("last_modified DESC").
		Find(&strategies).Error

	if err != nil {
		return nil, err
	}

	return strategies, nil
}

// Save replaces the stored collection with the given one: every strategy is
// upserted and rows absent from the collection are deleted, in one
// transaction.
func (r *GormStrategyRepository) Save(ctx context.Context, strategies []model.Strategy) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(strategies) == 0 {
			return tx.Where("1 = 1").Delete(&model.Strategy{}).Error
		}

		ids := make([]string, 0, len(strategies))
		for i := range strategies {
			ids = append(ids, strategies[i].ID)
		}

		rows := make([]model.Strategy, len(strategies))
		copy(rows, strategies)
		if err := tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(&rows).Error; err != nil {
			return err
		}

		return tx.Where("id NOT IN ?", ids).Delete(&model.Strategy{}).Error
	})
}
