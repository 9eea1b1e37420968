package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type ListFilter struct {
	OwnerID snowflake.ID
	Status  Status
	Limit   int
}

// Repository accesses shipment rows. Methods take the gorm handle
// explicitly so callers can pass a transaction.
type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, shipment *Shipment) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID, forUpdate bool) (*Shipment, error)
	List(ctx context.Context, db *gorm.DB, filter ListFilter) ([]*Shipment, error)
	Update(ctx context.Context, db *gorm.DB, shipment *Shipment) error
	Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) error
}
