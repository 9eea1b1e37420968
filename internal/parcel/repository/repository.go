package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/parcelbay/parcelbay/internal/parcel/domain"
	"github.com/parcelbay/parcelbay/pkg/db/option"
	"github.com/parcelbay/parcelbay/pkg/db/pagination"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, pkg *domain.Package) error {
	return db.WithContext(ctx).Create(pkg).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Package, error) {
	var pkg domain.Package
	err := db.WithContext(ctx).
		Model(&domain.Package{}).
		Where("id = ?", id).
		First(&pkg).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &pkg, nil
}

func (r *repo) FindByIDs(ctx context.Context, db *gorm.DB, ids []snowflake.ID, forUpdate bool) ([]*domain.Package, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	stmt := db.WithContext(ctx).Model(&domain.Package{}).Where("id IN ?", ids)
	if forUpdate {
		stmt = option.WithLockForUpdate().Apply(stmt)
	}
	var packages []*domain.Package
	err := stmt.Order("id asc").Find(&packages).Error
	if err != nil {
		return nil, err
	}
	return packages, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, filter domain.ListFilter, page pagination.Pagination) ([]*domain.Package, error) {
	stmt := db.WithContext(ctx).Model(&domain.Package{})
	if filter.OwnerID != 0 {
		stmt = stmt.Where("owner_id = ?", filter.OwnerID)
	}
	if filter.Status != "" {
		stmt = stmt.Where("status = ?", filter.Status)
	}
	stmt = option.ApplyPagination(page).Apply(stmt)

	var packages []*domain.Package
	err := stmt.Order("created_at desc, id desc").Find(&packages).Error
	if err != nil {
		return nil, err
	}
	return packages, nil
}

func (r *repo) ListBoxes(ctx context.Context, db *gorm.DB, packageIDs []snowflake.ID) ([]domain.MeasuredBox, error) {
	if len(packageIDs) == 0 {
		return nil, nil
	}
	var boxes []domain.MeasuredBox
	err := db.WithContext(ctx).
		Model(&domain.MeasuredBox{}).
		Where("package_id IN ?", packageIDs).
		Order("package_id asc, id asc").
		Find(&boxes).Error
	if err != nil {
		return nil, err
	}
	return boxes, nil
}

func (r *repo) InsertBoxes(ctx context.Context, db *gorm.DB, boxes []domain.MeasuredBox) error {
	if len(boxes) == 0 {
		return nil
	}
	return db.WithContext(ctx).Create(&boxes).Error
}

func (r *repo) DeleteBoxes(ctx context.Context, db *gorm.DB, packageID snowflake.ID) error {
	return db.WithContext(ctx).
		Where("package_id = ?", packageID).
		Delete(&domain.MeasuredBox{}).Error
}

func (r *repo) MarkArrived(ctx context.Context, db *gorm.DB, id snowflake.ID, at time.Time) error {
	return db.WithContext(ctx).Exec(
		`UPDATE packages SET status = ?, arrived_at = ?, updated_at = ? WHERE id = ?`,
		domain.StatusArrived,
		at,
		at,
		id,
	).Error
}

func (r *repo) Bind(ctx context.Context, db *gorm.DB, packageIDs []snowflake.ID, shipmentID snowflake.ID, at time.Time) (int64, error) {
	if len(packageIDs) == 0 {
		return 0, nil
	}
	// Guarded update: only free ARRIVED packages bind, so a concurrent
	// create racing on the same packages cannot double-book them.
	result := db.WithContext(ctx).Exec(
		`UPDATE packages SET status = ?, shipment_id = ?, updated_at = ?
		 WHERE id IN ? AND status = ? AND shipment_id IS NULL`,
		domain.StatusInShipment,
		shipmentID,
		at,
		packageIDs,
		domain.StatusArrived,
	)
	return result.RowsAffected, result.Error
}

func (r *repo) Release(ctx context.Context, db *gorm.DB, shipmentID snowflake.ID, at time.Time) (int64, error) {
	result := db.WithContext(ctx).Exec(
		`UPDATE packages SET status = ?, shipment_id = NULL, updated_at = ? WHERE shipment_id = ?`,
		domain.StatusArrived,
		at,
		shipmentID,
	)
	return result.RowsAffected, result.Error
}

func (r *repo) Complete(ctx context.Context, db *gorm.DB, shipmentID snowflake.ID, at time.Time) (int64, error) {
	result := db.WithContext(ctx).Exec(
		`UPDATE packages SET status = ?, updated_at = ? WHERE shipment_id = ?`,
		domain.StatusCompleted,
		at,
		shipmentID,
	)
	return result.RowsAffected, result.Error
}
