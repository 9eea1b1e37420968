package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/parcelbay/parcelbay/internal/shipment/domain"
	"github.com/parcelbay/parcelbay/pkg/db/option"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, shipment *domain.Shipment) error {
	return db.WithContext(ctx).Create(shipment).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID, forUpdate bool) (*domain.Shipment, error) {
	stmt := db.WithContext(ctx).Model(&domain.Shipment{}).Where("id = ?", id)
	if forUpdate {
		stmt = option.WithLockForUpdate().Apply(stmt)
	}
	var shipment domain.Shipment
	err := stmt.First(&shipment).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &shipment, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, filter domain.ListFilter) ([]*domain.Shipment, error) {
	stmt := db.WithContext(ctx).Model(&domain.Shipment{})
	if filter.OwnerID != 0 {
		stmt = stmt.Where("owner_id = ?", filter.OwnerID)
	}
	if filter.Status != "" {
		stmt = stmt.Where("status = ?", filter.Status)
	}
	if filter.Limit > 0 {
		stmt = option.WithLimit(filter.Limit).Apply(stmt)
	}

	var shipments []*domain.Shipment
	err := stmt.Order("created_at desc, id desc").Find(&shipments).Error
	if err != nil {
		return nil, err
	}
	return shipments, nil
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, shipment *domain.Shipment) error {
	return db.WithContext(ctx).Save(shipment).Error
}

func (r *repo) Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) error {
	return db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&domain.Shipment{}).Error
}
