// Package domain contains persistence models for inbound packages.
package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/parcelbay/parcelbay/pkg/db/pagination"
	"gorm.io/gorm"
)

// Status tracks a package through the warehouse.
type Status string

const (
	StatusPending    Status = "PENDING"     // forecast by the customer, not yet received
	StatusArrived    Status = "ARRIVED"     // measured at intake, free to join a shipment
	StatusInShipment Status = "IN_SHIPMENT" // bound to an active shipment
	StatusCompleted  Status = "COMPLETED"   // terminal, shipment delivered
)

// Package is one forecast inbound parcel. A package belongs to at most
// one active shipment; ShipmentID is nil while it sits in inventory.
type Package struct {
	ID             snowflake.ID  `gorm:"primaryKey"`
	OwnerID        snowflake.ID  `gorm:"not null;index"`
	TrackingNumber string        `gorm:"type:text;not null;uniqueIndex"`
	Status         Status        `gorm:"type:text;not null;default:'PENDING'"`
	ShipmentID     *snowflake.ID `gorm:"index"`
	// FlatFee is the stored fallback price for legacy packages that
	// predate per-box measurement.
	FlatFee   int64     `gorm:"not null;default:0"`
	Note      string    `gorm:"type:text"`
	ArrivedAt *time.Time
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (Package) TableName() string { return "packages" }

// MeasuredBox is one carton measured at intake. Immutable once the
// owning package enters a shipment.
type MeasuredBox struct {
	ID          snowflake.ID `gorm:"primaryKey"`
	PackageID   snowflake.ID `gorm:"not null;index"`
	CategoryKey string       `gorm:"type:text;not null"`
	LengthCm    float64      `gorm:"not null"`
	WidthCm     float64      `gorm:"not null"`
	HeightCm    float64      `gorm:"not null"`
	WeightKg    float64      `gorm:"not null"`
	CreatedAt   time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (MeasuredBox) TableName() string { return "measured_boxes" }

// BoxMeasurement is the intake input for one carton.
type BoxMeasurement struct {
	CategoryKey string
	LengthCm    float64
	WidthCm     float64
	HeightCm    float64
	WeightKg    float64
}

type ListFilter struct {
	OwnerID snowflake.ID
	Status  Status
}

// Repository accesses packages and their measured boxes. Methods take
// the gorm handle explicitly so callers can pass a transaction.
type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, pkg *Package) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Package, error)
	FindByIDs(ctx context.Context, db *gorm.DB, ids []snowflake.ID, forUpdate bool) ([]*Package, error)
	List(ctx context.Context, db *gorm.DB, filter ListFilter, page pagination.Pagination) ([]*Package, error)
	ListBoxes(ctx context.Context, db *gorm.DB, packageIDs []snowflake.ID) ([]MeasuredBox, error)
	InsertBoxes(ctx context.Context, db *gorm.DB, boxes []MeasuredBox) error
	DeleteBoxes(ctx context.Context, db *gorm.DB, packageID snowflake.ID) error
	MarkArrived(ctx context.Context, db *gorm.DB, id snowflake.ID, at time.Time) error
	Bind(ctx context.Context, db *gorm.DB, packageIDs []snowflake.ID, shipmentID snowflake.ID, at time.Time) (int64, error)
	Release(ctx context.Context, db *gorm.DB, shipmentID snowflake.ID, at time.Time) (int64, error)
	Complete(ctx context.Context, db *gorm.DB, shipmentID snowflake.ID, at time.Time) (int64, error)
}

// Service exposes warehouse intake operations.
type Service interface {
	Forecast(ctx context.Context, ownerID snowflake.ID, trackingNumber, note string) (*Package, error)
	MarkArrived(ctx context.Context, packageID snowflake.ID, boxes []BoxMeasurement) (*Package, error)
	List(ctx context.Context, filter ListFilter, page pagination.Pagination) ([]*Package, error)
	GetByID(ctx context.Context, id snowflake.ID) (*Package, error)
}

var (
	ErrNotFound             = errors.New("package_not_found")
	ErrInvalidTracking      = errors.New("invalid_tracking_number")
	ErrDuplicateTracking    = errors.New("duplicate_tracking_number")
	ErrInvalidMeasurement   = errors.New("invalid_measurement")
	ErrImmutableInShipment  = errors.New("package_in_shipment")
	ErrNotAvailable         = errors.New("package_not_available")
	ErrInvalidOwner         = errors.New("invalid_owner")
	ErrMeasurementsRequired = errors.New("measurements_required")
)
