package service

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/parcelbay/parcelbay/internal/clock"
	invoicedomain "github.com/parcelbay/parcelbay/internal/invoiceprovider/domain"
	"github.com/parcelbay/parcelbay/internal/notification"
	"github.com/parcelbay/parcelbay/internal/observability/metrics"
	parceldomain "github.com/parcelbay/parcelbay/internal/parcel/domain"
	ratetabledomain "github.com/parcelbay/parcelbay/internal/ratetable/domain"
	ratingdomain "github.com/parcelbay/parcelbay/internal/rating/domain"
	ratingservice "github.com/parcelbay/parcelbay/internal/rating/service"
	"github.com/parcelbay/parcelbay/internal/settlement/domain"
	shipmentdomain "github.com/parcelbay/parcelbay/internal/shipment/domain"
	walletdomain "github.com/parcelbay/parcelbay/internal/wallet/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Service coordinates rating, package binding, wallet settlement, and
// invoice issuance around shipment lifecycle changes.
type Service struct {
	db        *gorm.DB
	log       *zap.Logger
	genID     *snowflake.Node
	clock     clock.Clock
	rates     ratetabledomain.Provider
	calc      *ratingservice.Calculator
	packages  parceldomain.Repository
	shipments shipmentdomain.Repository
	wallets   walletdomain.Service
	invoices  invoicedomain.Provider
	sink      notification.Sink
	metrics   *metrics.Metrics
}

type Params struct {
	fx.In

	DB        *gorm.DB
	Log       *zap.Logger
	GenID     *snowflake.Node
	Clock     clock.Clock
	Rates     ratetabledomain.Provider
	Calc      *ratingservice.Calculator
	Packages  parceldomain.Repository
	Shipments shipmentdomain.Repository
	Wallets   walletdomain.Service
	Invoices  invoicedomain.Provider
	Sink      notification.Sink
	Metrics   *metrics.Metrics `optional:"true"`
}

func NewService(p Params) domain.Service {
	return &Service{
		db:        p.DB,
		log:       p.Log.Named("settlement.service"),
		genID:     p.GenID,
		clock:     p.Clock,
		rates:     p.Rates,
		calc:      p.Calc,
		packages:  p.Packages,
		shipments: p.Shipments,
		wallets:   p.Wallets,
		invoices:  p.Invoices,
		sink:      p.Sink,
		metrics:   p.Metrics,
	}
}

// Preview rates the selected packages without committing anything.
func (s *Service) Preview(ctx context.Context, req domain.PreviewRequest) (*ratingdomain.CostBreakdown, error) {
	if len(req.PackageIDs) == 0 {
		return nil, shipmentdomain.ErrNoPackages
	}

	inputs, err := s.loadInputs(ctx, s.db, req.OwnerID, req.PackageIDs, false)
	if err != nil {
		return nil, err
	}

	table, err := s.rates.Get(ctx)
	if err != nil {
		return nil, err
	}

	breakdown, err := s.calc.Calculate(inputs, table, req.DeliveryRate)
	if err != nil {
		return nil, err
	}
	s.metrics.RecordPreview(ctx)
	return &breakdown, nil
}

// CreateShipment commits a calculation. Wallet-paid shipments settle
// immediately and open in PROCESSING; transfer-paid shipments wait for
// payment confirmation in PENDING_PAYMENT. Binding, debit, ledger row,
// and the shipment row commit in one transaction.
func (s *Service) CreateShipment(ctx context.Context, req domain.CreateShipmentRequest) (*domain.CreateShipmentResult, error) {
	if len(req.PackageIDs) == 0 {
		return nil, shipmentdomain.ErrNoPackages
	}
	switch req.PaymentMethod {
	case shipmentdomain.PaymentMethodWallet, shipmentdomain.PaymentMethodTransfer:
	default:
		return nil, shipmentdomain.ErrInvalidPayment
	}

	table, err := s.rates.Get(ctx)
	if err != nil {
		return nil, err
	}

	var wallet *walletdomain.Wallet
	if req.PaymentMethod == shipmentdomain.PaymentMethodWallet {
		wallet, err = s.wallets.EnsureWallet(ctx, req.OwnerID)
		if err != nil {
			return nil, err
		}
	}

	shipmentID := s.genID.Generate()
	now := s.clock.Now()

	recipient := req.RecipientInfo
	if req.BuyerTaxID != "" {
		recipient = make(map[string]any, len(req.RecipientInfo)+1)
		for k, v := range req.RecipientInfo {
			recipient[k] = v
		}
		recipient["tax_id"] = req.BuyerTaxID
	}

	var (
		created   *shipmentdomain.Shipment
		breakdown ratingdomain.CostBreakdown
	)
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		inputs, txErr := s.loadAvailableForUpdate(ctx, tx, req.OwnerID, req.PackageIDs)
		if txErr != nil {
			return txErr
		}

		// Authoritative re-run; the preview the client saw is advisory.
		breakdown, txErr = s.calc.Calculate(inputs, table, req.DeliveryRate)
		if txErr != nil {
			return txErr
		}

		snapshot, txErr := json.Marshal(breakdown)
		if txErr != nil {
			return txErr
		}

		shipment := &shipmentdomain.Shipment{
			ID:            shipmentID,
			OwnerID:       req.OwnerID,
			Status:        shipmentdomain.StatusPendingPayment,
			PaymentMethod: req.PaymentMethod,
			TotalCost:     breakdown.Total,
			DeliveryRate:  req.DeliveryRate,
			RecipientInfo: datatypes.JSONMap(recipient),
			Breakdown:     datatypes.JSON(snapshot),
			CreatedAt:     now,
			UpdatedAt:     now,
		}

		if req.PaymentMethod == shipmentdomain.PaymentMethodWallet {
			if breakdown.Total > 0 {
				txn, debitErr := s.wallets.DebitTx(
					ctx, tx, wallet.ID, breakdown.Total,
					walletdomain.TransactionTypePayment, &shipmentID,
					"shipment payment",
				)
				if debitErr != nil {
					return debitErr
				}
				shipment.TransactionID = &txn.ID
			}
			shipment.Status = shipmentdomain.StatusProcessing
		}

		bound, txErr := s.packages.Bind(ctx, tx, req.PackageIDs, shipmentID, now)
		if txErr != nil {
			return txErr
		}
		if bound != int64(len(req.PackageIDs)) {
			return parceldomain.ErrNotAvailable
		}

		if txErr := s.shipments.Insert(ctx, tx, shipment); txErr != nil {
			return txErr
		}
		created = shipment
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, created, "")
	s.metrics.RecordSettlement(ctx, string(created.PaymentMethod))
	s.log.Info("shipment created",
		zap.Int64("shipment_id", int64(created.ID)),
		zap.String("status", string(created.Status)),
		zap.String("payment_method", string(created.PaymentMethod)),
		zap.Int64("total_cost", created.TotalCost),
		zap.Int64("rate_version", breakdown.RateVersion),
	)

	return &domain.CreateShipmentResult{Shipment: created, Breakdown: breakdown}, nil
}

func (s *Service) GetShipment(ctx context.Context, ownerID, shipmentID snowflake.ID) (*shipmentdomain.Shipment, error) {
	shipment, err := s.shipments.FindByID(ctx, s.db, shipmentID, false)
	if err != nil {
		return nil, err
	}
	if shipment == nil || (ownerID != 0 && shipment.OwnerID != ownerID) {
		return nil, shipmentdomain.ErrNotFound
	}
	return shipment, nil
}

func (s *Service) ListShipments(ctx context.Context, ownerID snowflake.ID, status shipmentdomain.Status, limit int) ([]*shipmentdomain.Shipment, error) {
	if status != "" && !status.Valid() {
		return nil, shipmentdomain.ErrInvalidStatus
	}
	if limit <= 0 || limit > 250 {
		limit = 50
	}
	return s.shipments.List(ctx, s.db, shipmentdomain.ListFilter{
		OwnerID: ownerID,
		Status:  status,
		Limit:   limit,
	})
}

// TransitionStatus moves a shipment one step along the lifecycle.
// CANCELLED and RETURNED are delegated to CancelOrReturn so the refund
// and release side effects always run through the one guarded path.
func (s *Service) TransitionStatus(ctx context.Context, shipmentID snowflake.ID, next shipmentdomain.Status, reason string) (*shipmentdomain.Shipment, error) {
	if !next.Valid() {
		return nil, shipmentdomain.ErrInvalidStatus
	}
	if next == shipmentdomain.StatusCancelled || next == shipmentdomain.StatusReturned {
		result, err := s.CancelOrReturn(ctx, shipmentID, next, reason)
		if err != nil {
			return nil, err
		}
		return result.Shipment, nil
	}

	var (
		updated *shipmentdomain.Shipment
		from    shipmentdomain.Status
	)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		shipment, txErr := s.lockShipment(ctx, tx, shipmentID)
		if txErr != nil {
			return txErr
		}
		from = shipment.Status
		if !shipment.Status.CanTransitionTo(next) {
			return shipmentdomain.ErrInvalidTransition
		}

		shipment.Status = next
		shipment.UpdatedAt = s.clock.Now()
		if txErr := s.shipments.Update(ctx, tx, shipment); txErr != nil {
			return txErr
		}

		if next == shipmentdomain.StatusCompleted {
			if _, txErr := s.packages.Complete(ctx, tx, shipmentID, shipment.UpdatedAt); txErr != nil {
				return txErr
			}
		}
		updated = shipment
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, updated, from)

	// Payment confirmed; issue the tax invoice outside the status
	// transaction so a provider outage cannot roll the status back.
	if next == shipmentdomain.StatusProcessing {
		updated = s.autoIssueInvoice(ctx, updated)
	}
	return updated, nil
}

// BulkTransition applies one target status to many shipments, each in
// its own transaction so one failure or one long lock never stalls the
// rest of the batch.
func (s *Service) BulkTransition(ctx context.Context, shipmentIDs []snowflake.ID, next shipmentdomain.Status) (*domain.BulkTransitionResult, error) {
	if !next.Valid() {
		return nil, shipmentdomain.ErrInvalidStatus
	}

	result := &domain.BulkTransitionResult{
		Updated: make([]snowflake.ID, 0, len(shipmentIDs)),
		Failed:  map[snowflake.ID]error{},
	}
	for _, id := range shipmentIDs {
		if _, err := s.TransitionStatus(ctx, id, next, ""); err != nil {
			result.Failed[id] = err
			continue
		}
		result.Updated = append(result.Updated, id)
	}
	return result, nil
}

// CancelOrReturn cancels or returns a shipment: refund the wallet if it
// paid, release every bound package back to inventory, and flip the
// status, all in one transaction. A repeat call on an already cancelled
// shipment is a no-op so the refund can never run twice.
func (s *Service) CancelOrReturn(ctx context.Context, shipmentID snowflake.ID, next shipmentdomain.Status, reason string) (*domain.CancelResult, error) {
	if next != shipmentdomain.StatusCancelled && next != shipmentdomain.StatusReturned {
		return nil, shipmentdomain.ErrInvalidStatus
	}

	var (
		result domain.CancelResult
		from   shipmentdomain.Status
		noop   bool
	)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		shipment, txErr := s.lockShipment(ctx, tx, shipmentID)
		if txErr != nil {
			return txErr
		}
		from = shipment.Status

		if shipment.Status == next {
			// Already settled; the locked status is the refund guard.
			noop = true
			result = domain.CancelResult{
				Shipment: shipment,
				Refund:   domain.RefundOutcomeNotRequired,
			}
			return nil
		}
		if !shipment.Status.CanTransitionTo(next) {
			return shipmentdomain.ErrInvalidTransition
		}

		refund := domain.RefundOutcomeNotRequired
		var refunded int64
		if shipment.PaymentMethod == shipmentdomain.PaymentMethodWallet && shipment.TotalCost > 0 {
			wallet, walletErr := s.wallets.GetByOwner(ctx, shipment.OwnerID)
			if walletErr != nil {
				return walletErr
			}
			if _, walletErr := s.wallets.CreditTx(
				ctx, tx, wallet.ID, shipment.TotalCost,
				walletdomain.TransactionTypeRefund, &shipment.ID,
				"refund: "+strings.TrimSpace(reason),
			); walletErr != nil {
				return walletErr
			}
			refund = domain.RefundOutcomeRefunded
			refunded = shipment.TotalCost
		}

		released, txErr := s.packages.Release(ctx, tx, shipment.ID, s.clock.Now())
		if txErr != nil {
			return txErr
		}

		shipment.Status = next
		shipment.CancelReason = strings.TrimSpace(reason)
		shipment.UpdatedAt = s.clock.Now()
		if txErr := s.shipments.Update(ctx, tx, shipment); txErr != nil {
			return txErr
		}

		result = domain.CancelResult{
			Shipment:         shipment,
			ReleasedPackages: released,
			Refund:           refund,
			RefundedAmount:   refunded,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if !noop {
		s.publish(ctx, result.Shipment, from)
		if result.Refund == domain.RefundOutcomeRefunded {
			s.metrics.RecordRefund(ctx)
		}
		s.log.Info("shipment cancelled",
			zap.Int64("shipment_id", int64(shipmentID)),
			zap.String("to", string(next)),
			zap.Int64("released_packages", result.ReleasedPackages),
			zap.String("refund", string(result.Refund)),
			zap.Int64("refunded_amount", result.RefundedAmount),
		)
	}
	return &result, nil
}

// DeleteShipment removes the shipment row. An active shipment is first
// settled through the cancel side effects so no money or package is
// stranded; a COMPLETED shipment cannot be deleted.
func (s *Service) DeleteShipment(ctx context.Context, shipmentID snowflake.ID) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		shipment, txErr := s.lockShipment(ctx, tx, shipmentID)
		if txErr != nil {
			return txErr
		}
		if shipment.Status == shipmentdomain.StatusCompleted {
			return domain.ErrDeleteActiveShipment
		}

		if !shipment.Status.Terminal() &&
			shipment.PaymentMethod == shipmentdomain.PaymentMethodWallet &&
			shipment.TotalCost > 0 {
			wallet, walletErr := s.wallets.GetByOwner(ctx, shipment.OwnerID)
			if walletErr != nil {
				return walletErr
			}
			if _, walletErr := s.wallets.CreditTx(
				ctx, tx, wallet.ID, shipment.TotalCost,
				walletdomain.TransactionTypeRefund, &shipment.ID,
				"refund: shipment deleted",
			); walletErr != nil {
				return walletErr
			}
		}

		if _, txErr := s.packages.Release(ctx, tx, shipment.ID, s.clock.Now()); txErr != nil {
			return txErr
		}
		return s.shipments.Delete(ctx, tx, shipment.ID)
	})
}

// AdjustPrice sets a new total and settles the difference against the
// wallet for wallet-paid shipments. Forbidden once an invoice is
// ISSUED; the invoice must be voided first.
func (s *Service) AdjustPrice(ctx context.Context, shipmentID snowflake.ID, newTotal int64, note string) (*shipmentdomain.Shipment, error) {
	if newTotal < 0 {
		return nil, shipmentdomain.ErrInvalidPrice
	}
	note = strings.TrimSpace(note)
	if note == "" {
		return nil, shipmentdomain.ErrReasonRequired
	}

	var updated *shipmentdomain.Shipment
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		shipment, txErr := s.lockShipment(ctx, tx, shipmentID)
		if txErr != nil {
			return txErr
		}
		if shipment.InvoiceStatus == shipmentdomain.InvoiceStatusIssued {
			return shipmentdomain.ErrInvoiceAlreadyIssued
		}
		if shipment.Status.Terminal() {
			return shipmentdomain.ErrInvalidTransition
		}

		diff := shipment.TotalCost - newTotal
		if diff != 0 && shipment.PaymentMethod == shipmentdomain.PaymentMethodWallet {
			wallet, walletErr := s.wallets.GetByOwner(ctx, shipment.OwnerID)
			if walletErr != nil {
				return walletErr
			}
			if diff > 0 {
				if _, walletErr := s.wallets.CreditTx(
					ctx, tx, wallet.ID, diff,
					walletdomain.TransactionTypeRefund, &shipment.ID,
					"price adjustment: "+note,
				); walletErr != nil {
					return walletErr
				}
			} else {
				if _, walletErr := s.wallets.DebitTx(
					ctx, tx, wallet.ID, -diff,
					walletdomain.TransactionTypeAdjust, &shipment.ID,
					"price adjustment: "+note,
				); walletErr != nil {
					return walletErr
				}
			}
		}

		shipment.TotalCost = newTotal
		shipment.UpdatedAt = s.clock.Now()
		if txErr := s.shipments.Update(ctx, tx, shipment); txErr != nil {
			return txErr
		}
		updated = shipment
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("shipment price adjusted",
		zap.Int64("shipment_id", int64(shipmentID)),
		zap.Int64("new_total", newTotal),
		zap.String("note", note),
	)
	return updated, nil
}

// IssueInvoice requests a tax invoice for the shipment. At most one
// invoice is ever issued per shipment; the shipment ID doubles as the
// provider idempotency key.
func (s *Service) IssueInvoice(ctx context.Context, shipmentID snowflake.ID) (*shipmentdomain.Shipment, error) {
	shipment, err := s.GetShipment(ctx, 0, shipmentID)
	if err != nil {
		return nil, err
	}
	if shipment.InvoiceNumber != "" || shipment.InvoiceStatus == shipmentdomain.InvoiceStatusVoid {
		return nil, shipmentdomain.ErrInvoiceAlreadyIssued
	}
	if shipment.TotalCost <= 0 {
		return nil, shipmentdomain.ErrNothingToInvoice
	}
	return s.issueInvoice(ctx, shipment)
}

// VoidInvoice voids an ISSUED invoice. The shipment's cost and payment
// state are untouched.
func (s *Service) VoidInvoice(ctx context.Context, shipmentID snowflake.ID, reason string) (*shipmentdomain.Shipment, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, shipmentdomain.ErrReasonRequired
	}

	shipment, err := s.GetShipment(ctx, 0, shipmentID)
	if err != nil {
		return nil, err
	}
	if shipment.InvoiceStatus != shipmentdomain.InvoiceStatusIssued {
		return nil, shipmentdomain.ErrInvoiceNotIssued
	}

	if err := s.invoices.Void(ctx, invoicedomain.VoidRequest{
		InvoiceNumber: shipment.InvoiceNumber,
		Reason:        reason,
	}); err != nil {
		return nil, err
	}

	shipment.InvoiceStatus = shipmentdomain.InvoiceStatusVoid
	shipment.UpdatedAt = s.clock.Now()
	if err := s.shipments.Update(ctx, s.db, shipment); err != nil {
		return nil, err
	}
	s.log.Info("invoice voided",
		zap.Int64("shipment_id", int64(shipmentID)),
		zap.String("invoice_number", shipment.InvoiceNumber),
	)
	return shipment, nil
}

// autoIssueInvoice runs the best-effort issuance that follows a
// transfer payment confirmation. Wallet payments and zero-cost
// shipments are skipped; failures mark the shipment FAILED and are
// retryable through IssueInvoice.
func (s *Service) autoIssueInvoice(ctx context.Context, shipment *shipmentdomain.Shipment) *shipmentdomain.Shipment {
	if shipment.PaymentMethod == shipmentdomain.PaymentMethodWallet ||
		shipment.TotalCost <= 0 ||
		shipment.InvoiceNumber != "" ||
		shipment.InvoiceStatus == shipmentdomain.InvoiceStatusVoid {
		return shipment
	}
	updated, err := s.issueInvoice(ctx, shipment)
	if err != nil {
		s.log.Warn("invoice issuance failed, shipment proceeds",
			zap.Int64("shipment_id", int64(shipment.ID)),
			zap.Error(err),
		)
		return shipment
	}
	return updated
}

func (s *Service) issueInvoice(ctx context.Context, shipment *shipmentdomain.Shipment) (*shipmentdomain.Shipment, error) {
	buyerTaxID, _ := shipment.RecipientInfo["tax_id"].(string)
	buyerName, _ := shipment.RecipientInfo["name"].(string)
	orderRef := shipment.ID.String()

	result, err := s.invoices.Issue(ctx, invoicedomain.IssueRequest{
		Amount:         shipment.TotalCost,
		BuyerTaxID:     buyerTaxID,
		BuyerName:      buyerName,
		OrderRef:       orderRef,
		Description:    "international freight",
		IdempotencyKey: orderRef,
	})
	now := s.clock.Now()
	if err != nil || result == nil || !result.Success {
		shipment.InvoiceStatus = shipmentdomain.InvoiceStatusFailed
		shipment.UpdatedAt = now
		if saveErr := s.shipments.Update(ctx, s.db, shipment); saveErr != nil {
			s.log.Error("persist failed invoice status",
				zap.Int64("shipment_id", int64(shipment.ID)),
				zap.Error(saveErr),
			)
		}
		if err == nil {
			err = invoicedomain.ErrRejected
		}
		s.metrics.RecordInvoice(ctx, "failed")
		return shipment, err
	}

	shipment.InvoiceNumber = result.InvoiceNumber
	shipment.InvoiceStatus = shipmentdomain.InvoiceStatusIssued
	shipment.UpdatedAt = now
	if err := s.shipments.Update(ctx, s.db, shipment); err != nil {
		return nil, err
	}
	s.metrics.RecordInvoice(ctx, "issued")
	s.log.Info("invoice issued",
		zap.Int64("shipment_id", int64(shipment.ID)),
		zap.String("invoice_number", result.InvoiceNumber),
	)
	return shipment, nil
}

func (s *Service) lockShipment(ctx context.Context, tx *gorm.DB, id snowflake.ID) (*shipmentdomain.Shipment, error) {
	shipment, err := s.shipments.FindByID(ctx, tx, id, true)
	if err != nil {
		return nil, err
	}
	if shipment == nil {
		return nil, shipmentdomain.ErrNotFound
	}
	return shipment, nil
}

// loadInputs resolves packages into rating inputs. Measured boxes feed
// the rater; a package without boxes carries its stored flat fee.
func (s *Service) loadInputs(ctx context.Context, db *gorm.DB, ownerID snowflake.ID, ids []snowflake.ID, forUpdate bool) ([]ratingdomain.PackageInput, error) {
	packages, err := s.packages.FindByIDs(ctx, db, ids, forUpdate)
	if err != nil {
		return nil, err
	}
	if len(packages) != len(ids) {
		return nil, parceldomain.ErrNotFound
	}
	for _, pkg := range packages {
		if ownerID != 0 && pkg.OwnerID != ownerID {
			return nil, parceldomain.ErrNotFound
		}
	}

	boxes, err := s.packages.ListBoxes(ctx, db, ids)
	if err != nil {
		return nil, err
	}
	byPackage := make(map[snowflake.ID][]ratingdomain.Box, len(packages))
	for _, box := range boxes {
		byPackage[box.PackageID] = append(byPackage[box.PackageID], ratingdomain.Box{
			CategoryKey: box.CategoryKey,
			LengthCm:    box.LengthCm,
			WidthCm:     box.WidthCm,
			HeightCm:    box.HeightCm,
			WeightKg:    box.WeightKg,
		})
	}

	inputs := make([]ratingdomain.PackageInput, 0, len(packages))
	for _, pkg := range packages {
		inputs = append(inputs, ratingdomain.PackageInput{
			PackageID:      pkg.ID,
			TrackingNumber: pkg.TrackingNumber,
			Boxes:          byPackage[pkg.ID],
			LegacyFlatFee:  pkg.FlatFee,
		})
	}
	return inputs, nil
}

// loadAvailableForUpdate locks the packages and rejects the whole set
// if any of them is not free ARRIVED inventory. Nothing mutates before
// this check passes.
func (s *Service) loadAvailableForUpdate(ctx context.Context, tx *gorm.DB, ownerID snowflake.ID, ids []snowflake.ID) ([]ratingdomain.PackageInput, error) {
	packages, err := s.packages.FindByIDs(ctx, tx, ids, true)
	if err != nil {
		return nil, err
	}
	if len(packages) != len(ids) {
		return nil, parceldomain.ErrNotFound
	}
	for _, pkg := range packages {
		if pkg.OwnerID != ownerID {
			return nil, parceldomain.ErrNotFound
		}
		if pkg.Status != parceldomain.StatusArrived || pkg.ShipmentID != nil {
			return nil, parceldomain.ErrNotAvailable
		}
	}
	return s.loadInputs(ctx, tx, ownerID, ids, false)
}

func (s *Service) publish(ctx context.Context, shipment *shipmentdomain.Shipment, from shipmentdomain.Status) {
	_ = s.sink.Publish(ctx, notification.StatusEvent{
		ShipmentID: shipment.ID,
		OwnerID:    shipment.OwnerID,
		From:       string(from),
		To:         string(shipment.Status),
		OccurredAt: s.clock.Now(),
	})
}
