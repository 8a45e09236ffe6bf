package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/dev-tective/DraftLabs/internal/model"
)

// HeroRepository reads the static hero/lane/role reference data. Loaded
// once per session on the client side; nothing here mutates.
type HeroRepository struct {
	db *gorm.DB
}

func NewHeroRepository(db *gorm.DB) *HeroRepository {
	return &HeroRepository{db: db}
}

func (r *HeroRepository) ListHeroes(ctx context.Context, game model.Game) ([]model.Hero, error) {
	var heroes []model.Hero
	err := r.db.WithContext(ctx).
		Preload("Lanes").
		Preload("Roles").
		Where("game = ?", game).
		Order("name").
		Find(&heroes).Error
	if err != nil {
		return nil, mapError(err)
	}
	return heroes, nil
}

func (r *HeroRepository) ListLanes(ctx context.Context, game model.Game) ([]model.Lane, error) {
	var lanes []model.Lane
	err := r.db.WithContext(ctx).
		Where("game = ?", game).
		Order("name").
		Find(&lanes).Error
	if err != nil {
		return nil, mapError(err)
	}
	return lanes, nil
}

func (r *HeroRepository) ListRoles(ctx context.Context, game model.Game) ([]model.Role, error) {
	var roles []model.Role
	err := r.db.WithContext(ctx).
		Where("game = ?", game).
		Order("name").
		Find(&roles).Error
	if err != nil {
		return nil, mapError(err)
	}
	return roles, nil
}
