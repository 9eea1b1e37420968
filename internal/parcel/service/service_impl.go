package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/parcelbay/parcelbay/internal/clock"
	"github.com/parcelbay/parcelbay/internal/parcel/domain"
	ratingservice "github.com/parcelbay/parcelbay/internal/rating/service"
	"github.com/parcelbay/parcelbay/pkg/db"
	"github.com/parcelbay/parcelbay/pkg/db/pagination"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	clock clock.Clock
	repo  domain.Repository
}

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Clock clock.Clock
	Repo  domain.Repository
}

func NewService(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("parcel.service"),
		genID: p.GenID,
		clock: p.Clock,
		repo:  p.Repo,
	}
}

func (s *Service) Forecast(ctx context.Context, ownerID snowflake.ID, trackingNumber, note string) (*domain.Package, error) {
	if ownerID == 0 {
		return nil, domain.ErrInvalidOwner
	}
	trackingNumber = strings.ToUpper(strings.TrimSpace(trackingNumber))
	if trackingNumber == "" {
		return nil, domain.ErrInvalidTracking
	}

	now := s.clock.Now()
	pkg := &domain.Package{
		ID:             s.genID.Generate(),
		OwnerID:        ownerID,
		TrackingNumber: trackingNumber,
		Status:         domain.StatusPending,
		Note:           strings.TrimSpace(note),
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.repo.Insert(ctx, s.db, pkg); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return nil, domain.ErrDuplicateTracking
		}
		return nil, err
	}

	s.log.Info("package forecast",
		zap.String("package_id", pkg.ID.String()),
		zap.String("tracking_number", trackingNumber),
	)
	return pkg, nil
}

// MarkArrived records intake measurements and moves the package to
// ARRIVED. Measurements are validated here, at the storage boundary;
// downstream rating assumes valid boxes. Weights are rounded up to one
// decimal before storage so rating and re-rating agree. A repeat call
// replaces the stored box set, so a warehouse correction never leaves
// two measurements of the same carton behind.
func (s *Service) MarkArrived(ctx context.Context, packageID snowflake.ID, boxes []domain.BoxMeasurement) (*domain.Package, error) {
	if len(boxes) == 0 {
		return nil, domain.ErrMeasurementsRequired
	}

	now := s.clock.Now()
	rows := make([]domain.MeasuredBox, 0, len(boxes))
	for _, box := range boxes {
		if box.LengthCm <= 0 || box.WidthCm <= 0 || box.HeightCm <= 0 || box.WeightKg <= 0 {
			return nil, domain.ErrInvalidMeasurement
		}
		rows = append(rows, domain.MeasuredBox{
			ID:          s.genID.Generate(),
			PackageID:   packageID,
			CategoryKey: strings.ToLower(strings.TrimSpace(box.CategoryKey)),
			LengthCm:    box.LengthCm,
			WidthCm:     box.WidthCm,
			HeightCm:    box.HeightCm,
			WeightKg:    ratingservice.CeilWeight(box.WeightKg),
			CreatedAt:   now,
		})
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		pkg, err := s.repo.FindByID(ctx, tx, packageID)
		if err != nil {
			return err
		}
		if pkg == nil {
			return domain.ErrNotFound
		}
		if pkg.Status == domain.StatusInShipment || pkg.Status == domain.StatusCompleted {
			return domain.ErrImmutableInShipment
		}

		if err := s.repo.DeleteBoxes(ctx, tx, packageID); err != nil {
			return err
		}
		if err := s.repo.InsertBoxes(ctx, tx, rows); err != nil {
			return err
		}
		return s.repo.MarkArrived(ctx, tx, packageID, now)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("package arrived",
		zap.String("package_id", packageID.String()),
		zap.Int("boxes", len(rows)),
	)
	return s.GetByID(ctx, packageID)
}

func (s *Service) List(ctx context.Context, filter domain.ListFilter, page pagination.Pagination) ([]*domain.Package, error) {
	return s.repo.List(ctx, s.db, filter, page)
}

func (s *Service) GetByID(ctx context.Context, id snowflake.ID) (*domain.Package, error) {
	pkg, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if pkg == nil {
		return nil, domain.ErrNotFound
	}
	return pkg, nil
}
