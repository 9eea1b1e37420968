package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/parcelbay/parcelbay/internal/clock"
	invoicedomain "github.com/parcelbay/parcelbay/internal/invoiceprovider/domain"
	"github.com/parcelbay/parcelbay/internal/notification"
	parceldomain "github.com/parcelbay/parcelbay/internal/parcel/domain"
	parcelrepository "github.com/parcelbay/parcelbay/internal/parcel/repository"
	ratetabledomain "github.com/parcelbay/parcelbay/internal/ratetable/domain"
	ratingservice "github.com/parcelbay/parcelbay/internal/rating/service"
	"github.com/parcelbay/parcelbay/internal/settlement/domain"
	shipmentdomain "github.com/parcelbay/parcelbay/internal/shipment/domain"
	shipmentrepository "github.com/parcelbay/parcelbay/internal/shipment/repository"
	walletdomain "github.com/parcelbay/parcelbay/internal/wallet/domain"
	walletservice "github.com/parcelbay/parcelbay/internal/wallet/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type fakeRates struct {
	table *ratetabledomain.Table
}

func (f *fakeRates) Get(context.Context) (*ratetabledomain.Table, error) { return f.table, nil }
func (f *fakeRates) Invalidate()                                         {}

type fakeInvoices struct {
	issueCalls int
	voidCalls  int
	fail       bool
	lastIssue  invoicedomain.IssueRequest
}

func (f *fakeInvoices) Issue(_ context.Context, req invoicedomain.IssueRequest) (*invoicedomain.IssueResult, error) {
	f.issueCalls++
	f.lastIssue = req
	if f.fail {
		return nil, invoicedomain.ErrUnavailable
	}
	return &invoicedomain.IssueResult{
		Success:       true,
		InvoiceNumber: fmt.Sprintf("INV-%s-%03d", req.IdempotencyKey, f.issueCalls),
	}, nil
}

func (f *fakeInvoices) Void(context.Context, invoicedomain.VoidRequest) error {
	f.voidCalls++
	return nil
}

type fixture struct {
	svc      domain.Service
	db       *gorm.DB
	node     *snowflake.Node
	wallets  walletdomain.Service
	parcels  parceldomain.Repository
	invoices *fakeInvoices
	owner    snowflake.ID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&parceldomain.Package{},
		&parceldomain.MeasuredBox{},
		&walletdomain.Wallet{},
		&walletdomain.Transaction{},
		&shipmentdomain.Shipment{},
	))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	log := zap.NewNop()
	fixedClock := clock.NewFakeClock(time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC))

	wallets := walletservice.NewService(walletservice.Params{
		DB: db, Log: log, GenID: node, Clock: fixedClock,
	})
	invoices := &fakeInvoices{}

	table := &ratetabledomain.Table{
		Version: 1,
		Categories: map[string]ratetabledomain.CategoryRate{
			"general": {Key: "general", Name: "General goods", WeightRate: 20, VolumeRate: 10},
		},
		Constants: ratetabledomain.Constants{
			VolumeDivisor:     6000,
			CbmToCaiFactor:    35.3,
			MinimumCharge:     2000,
			OversizedLimitCm:  150,
			OversizedFee:      800,
			OverweightLimitKg: 100,
			OverweightFee:     800,
		},
		LoadedAt: time.Now().UTC(),
	}

	svc := NewService(Params{
		DB:        db,
		Log:       log,
		GenID:     node,
		Clock:     fixedClock,
		Rates:     &fakeRates{table: table},
		Calc:      ratingservice.NewCalculator(ratingservice.Params{Log: log}),
		Packages:  parcelrepository.Provide(),
		Shipments: shipmentrepository.Provide(),
		Wallets:   wallets,
		Invoices:  invoices,
		Sink:      notification.NoOpSink{},
	})

	return &fixture{
		svc:      svc,
		db:       db,
		node:     node,
		wallets:  wallets,
		parcels:  parcelrepository.Provide(),
		invoices: invoices,
		owner:    snowflake.ID(42),
	}
}

// arrivedPackage seeds one ARRIVED package with a single measured box.
// The default box rates to 604, topped up to the 2000 minimum.
func (f *fixture) arrivedPackage(t *testing.T) snowflake.ID {
	t.Helper()
	ctx := context.Background()
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	pkg := &parceldomain.Package{
		ID:             f.node.Generate(),
		OwnerID:        f.owner,
		TrackingNumber: fmt.Sprintf("SF%d", f.node.Generate()),
		Status:         parceldomain.StatusArrived,
		ArrivedAt:      &now,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	require.NoError(t, f.parcels.Insert(ctx, f.db, pkg))
	require.NoError(t, f.parcels.InsertBoxes(ctx, f.db, []parceldomain.MeasuredBox{{
		ID:          f.node.Generate(),
		PackageID:   pkg.ID,
		CategoryKey: "general",
		LengthCm:    60, WidthCm: 60, HeightCm: 60,
		WeightKg:  30.2,
		CreatedAt: now,
	}}))
	return pkg.ID
}

func (f *fixture) deposit(t *testing.T, amount int64) *walletdomain.Wallet {
	t.Helper()
	_, err := f.wallets.Deposit(context.Background(), f.owner, amount, "test deposit")
	require.NoError(t, err)
	wallet, err := f.wallets.GetByOwner(context.Background(), f.owner)
	require.NoError(t, err)
	return wallet
}

func (f *fixture) packageStatus(t *testing.T, id snowflake.ID) parceldomain.Status {
	t.Helper()
	pkg, err := f.parcels.FindByID(context.Background(), f.db, id)
	require.NoError(t, err)
	require.NotNil(t, pkg)
	return pkg.Status
}

func (f *fixture) balance(t *testing.T) int64 {
	t.Helper()
	wallet, err := f.wallets.GetByOwner(context.Background(), f.owner)
	require.NoError(t, err)
	return wallet.Balance
}

func TestPreviewHasNoSideEffects(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	pkgID := f.arrivedPackage(t)

	breakdown, err := f.svc.Preview(ctx, domain.PreviewRequest{
		OwnerID:    f.owner,
		PackageIDs: []snowflake.ID{pkgID},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2000), breakdown.Total)
	assert.Equal(t, int64(604), breakdown.Subtotal)
	assert.Equal(t, int64(1396), breakdown.MinimumTopUp)

	assert.Equal(t, parceldomain.StatusArrived, f.packageStatus(t, pkgID))
	var count int64
	require.NoError(t, f.db.Model(&shipmentdomain.Shipment{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}

func TestPreviewRejectsForeignPackages(t *testing.T) {
	f := newFixture(t)
	pkgID := f.arrivedPackage(t)

	_, err := f.svc.Preview(context.Background(), domain.PreviewRequest{
		OwnerID:    snowflake.ID(777),
		PackageIDs: []snowflake.ID{pkgID},
	})
	assert.ErrorIs(t, err, parceldomain.ErrNotFound)
}

func TestCreateShipmentWalletPaid(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	pkgID := f.arrivedPackage(t)
	f.deposit(t, 5000)

	result, err := f.svc.CreateShipment(ctx, domain.CreateShipmentRequest{
		OwnerID:       f.owner,
		PackageIDs:    []snowflake.ID{pkgID},
		PaymentMethod: shipmentdomain.PaymentMethodWallet,
		RecipientInfo: map[string]any{"name": "Lin", "tax_id": "12345678"},
	})
	require.NoError(t, err)

	shipment := result.Shipment
	assert.Equal(t, shipmentdomain.StatusProcessing, shipment.Status)
	assert.Equal(t, int64(2000), shipment.TotalCost)
	require.NotNil(t, shipment.TransactionID)

	assert.Equal(t, parceldomain.StatusInShipment, f.packageStatus(t, pkgID))
	assert.Equal(t, int64(3000), f.balance(t))

	var txn walletdomain.Transaction
	require.NoError(t, f.db.First(&txn, "id = ?", *shipment.TransactionID).Error)
	assert.Equal(t, walletdomain.TransactionTypePayment, txn.Type)
	assert.Equal(t, int64(-2000), txn.Amount)
	require.NotNil(t, txn.ShipmentID)
	assert.Equal(t, shipment.ID, *txn.ShipmentID)
}

func TestCreateShipmentInsufficientBalanceLeavesNoPartialState(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	pkgID := f.arrivedPackage(t)
	f.deposit(t, 500)

	_, err := f.svc.CreateShipment(ctx, domain.CreateShipmentRequest{
		OwnerID:       f.owner,
		PackageIDs:    []snowflake.ID{pkgID},
		PaymentMethod: shipmentdomain.PaymentMethodWallet,
	})
	assert.ErrorIs(t, err, walletdomain.ErrInsufficientBalance)

	assert.Equal(t, parceldomain.StatusArrived, f.packageStatus(t, pkgID))
	assert.Equal(t, int64(500), f.balance(t))
	var count int64
	require.NoError(t, f.db.Model(&shipmentdomain.Shipment{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}

func TestCreateShipmentTransferAwaitsPayment(t *testing.T) {
	f := newFixture(t)
	pkgID := f.arrivedPackage(t)

	result, err := f.svc.CreateShipment(context.Background(), domain.CreateShipmentRequest{
		OwnerID:       f.owner,
		PackageIDs:    []snowflake.ID{pkgID},
		PaymentMethod: shipmentdomain.PaymentMethodTransfer,
	})
	require.NoError(t, err)

	assert.Equal(t, shipmentdomain.StatusPendingPayment, result.Shipment.Status)
	assert.Nil(t, result.Shipment.TransactionID)
	assert.Equal(t, parceldomain.StatusInShipment, f.packageStatus(t, pkgID))
	assert.Equal(t, 0, f.invoices.issueCalls)
}

func TestCreateShipmentRejectsUnavailablePackage(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	arrived := f.arrivedPackage(t)

	pending := &parceldomain.Package{
		ID:             f.node.Generate(),
		OwnerID:        f.owner,
		TrackingNumber: "SFPENDING",
		Status:         parceldomain.StatusPending,
	}
	require.NoError(t, f.parcels.Insert(ctx, f.db, pending))

	_, err := f.svc.CreateShipment(ctx, domain.CreateShipmentRequest{
		OwnerID:       f.owner,
		PackageIDs:    []snowflake.ID{arrived, pending.ID},
		PaymentMethod: shipmentdomain.PaymentMethodTransfer,
	})
	assert.ErrorIs(t, err, parceldomain.ErrNotAvailable)

	// Whole create rejected, nothing bound.
	assert.Equal(t, parceldomain.StatusArrived, f.packageStatus(t, arrived))
}

func TestCancelRefundsWalletOnce(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	pkgID := f.arrivedPackage(t)
	f.deposit(t, 5000)

	created, err := f.svc.CreateShipment(ctx, domain.CreateShipmentRequest{
		OwnerID:       f.owner,
		PackageIDs:    []snowflake.ID{pkgID},
		PaymentMethod: shipmentdomain.PaymentMethodWallet,
	})
	require.NoError(t, err)
	require.Equal(t, int64(3000), f.balance(t))

	result, err := f.svc.CancelOrReturn(ctx, created.Shipment.ID, shipmentdomain.StatusCancelled, "customer request")
	require.NoError(t, err)
	assert.Equal(t, domain.RefundOutcomeRefunded, result.Refund)
	assert.Equal(t, int64(2000), result.RefundedAmount)
	assert.Equal(t, int64(1), result.ReleasedPackages)
	assert.Equal(t, int64(5000), f.balance(t))
	assert.Equal(t, parceldomain.StatusArrived, f.packageStatus(t, pkgID))

	// Second cancel is a no-op: no double refund.
	again, err := f.svc.CancelOrReturn(ctx, created.Shipment.ID, shipmentdomain.StatusCancelled, "retry")
	require.NoError(t, err)
	assert.Equal(t, domain.RefundOutcomeNotRequired, again.Refund)
	assert.Equal(t, int64(5000), f.balance(t))
}

func TestCancelTransferPaidReleasesWithoutRefund(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	pkgID := f.arrivedPackage(t)

	created, err := f.svc.CreateShipment(ctx, domain.CreateShipmentRequest{
		OwnerID:       f.owner,
		PackageIDs:    []snowflake.ID{pkgID},
		PaymentMethod: shipmentdomain.PaymentMethodTransfer,
	})
	require.NoError(t, err)

	result, err := f.svc.CancelOrReturn(ctx, created.Shipment.ID, shipmentdomain.StatusReturned, "address unknown")
	require.NoError(t, err)
	assert.Equal(t, domain.RefundOutcomeNotRequired, result.Refund)
	assert.Equal(t, shipmentdomain.StatusReturned, result.Shipment.Status)
	assert.Equal(t, parceldomain.StatusArrived, f.packageStatus(t, pkgID))
}

func TestTransitionToProcessingIssuesInvoiceForTransfer(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	pkgID := f.arrivedPackage(t)

	created, err := f.svc.CreateShipment(ctx, domain.CreateShipmentRequest{
		OwnerID:       f.owner,
		PackageIDs:    []snowflake.ID{pkgID},
		PaymentMethod: shipmentdomain.PaymentMethodTransfer,
		RecipientInfo: map[string]any{"tax_id": "12345678"},
	})
	require.NoError(t, err)

	updated, err := f.svc.TransitionStatus(ctx, created.Shipment.ID, shipmentdomain.StatusProcessing, "")
	require.NoError(t, err)

	assert.Equal(t, shipmentdomain.StatusProcessing, updated.Status)
	assert.Equal(t, shipmentdomain.InvoiceStatusIssued, updated.InvoiceStatus)
	assert.NotEmpty(t, updated.InvoiceNumber)
	assert.Equal(t, 1, f.invoices.issueCalls)

	// Explicit reissue is rejected and the provider is not called again.
	_, err = f.svc.IssueInvoice(ctx, created.Shipment.ID)
	assert.ErrorIs(t, err, shipmentdomain.ErrInvoiceAlreadyIssued)
	assert.Equal(t, 1, f.invoices.issueCalls)
}

func TestCreateShipmentBuyerTaxIDReachesInvoice(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	pkgID := f.arrivedPackage(t)

	created, err := f.svc.CreateShipment(ctx, domain.CreateShipmentRequest{
		OwnerID:       f.owner,
		PackageIDs:    []snowflake.ID{pkgID},
		PaymentMethod: shipmentdomain.PaymentMethodTransfer,
		RecipientInfo: map[string]any{"name": "Lin"},
		BuyerTaxID:    "87654321",
	})
	require.NoError(t, err)

	_, err = f.svc.TransitionStatus(ctx, created.Shipment.ID, shipmentdomain.StatusProcessing, "")
	require.NoError(t, err)

	require.Equal(t, 1, f.invoices.issueCalls)
	assert.Equal(t, "87654321", f.invoices.lastIssue.BuyerTaxID)
	assert.Equal(t, "Lin", f.invoices.lastIssue.BuyerName)
}

func TestInvoiceFailureDoesNotBlockTransition(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	pkgID := f.arrivedPackage(t)
	f.invoices.fail = true

	created, err := f.svc.CreateShipment(ctx, domain.CreateShipmentRequest{
		OwnerID:       f.owner,
		PackageIDs:    []snowflake.ID{pkgID},
		PaymentMethod: shipmentdomain.PaymentMethodTransfer,
	})
	require.NoError(t, err)

	updated, err := f.svc.TransitionStatus(ctx, created.Shipment.ID, shipmentdomain.StatusProcessing, "")
	require.NoError(t, err)
	assert.Equal(t, shipmentdomain.StatusProcessing, updated.Status)

	reloaded, err := f.svc.GetShipment(ctx, f.owner, created.Shipment.ID)
	require.NoError(t, err)
	assert.Equal(t, shipmentdomain.InvoiceStatusFailed, reloaded.InvoiceStatus)
	assert.Empty(t, reloaded.InvoiceNumber)

	// Independently retryable once the provider recovers.
	f.invoices.fail = false
	retried, err := f.svc.IssueInvoice(ctx, created.Shipment.ID)
	require.NoError(t, err)
	assert.Equal(t, shipmentdomain.InvoiceStatusIssued, retried.InvoiceStatus)
	assert.NotEmpty(t, retried.InvoiceNumber)
}

func TestTransitionRejectsInvalidMoves(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	pkgID := f.arrivedPackage(t)

	created, err := f.svc.CreateShipment(ctx, domain.CreateShipmentRequest{
		OwnerID:       f.owner,
		PackageIDs:    []snowflake.ID{pkgID},
		PaymentMethod: shipmentdomain.PaymentMethodTransfer,
	})
	require.NoError(t, err)

	_, err = f.svc.TransitionStatus(ctx, created.Shipment.ID, shipmentdomain.StatusUnstuffing, "")
	assert.ErrorIs(t, err, shipmentdomain.ErrInvalidTransition)

	_, err = f.svc.TransitionStatus(ctx, created.Shipment.ID, "DELIVERED", "")
	assert.ErrorIs(t, err, shipmentdomain.ErrInvalidStatus)
}

func TestTransitionToCompletedCompletesPackages(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	pkgID := f.arrivedPackage(t)
	f.deposit(t, 5000)

	created, err := f.svc.CreateShipment(ctx, domain.CreateShipmentRequest{
		OwnerID:       f.owner,
		PackageIDs:    []snowflake.ID{pkgID},
		PaymentMethod: shipmentdomain.PaymentMethodWallet,
	})
	require.NoError(t, err)

	for _, next := range []shipmentdomain.Status{
		shipmentdomain.StatusShipped,
		shipmentdomain.StatusCustomsCheck,
		shipmentdomain.StatusUnstuffing,
		shipmentdomain.StatusCompleted,
	} {
		_, err = f.svc.TransitionStatus(ctx, created.Shipment.ID, next, "")
		require.NoError(t, err)
	}

	assert.Equal(t, parceldomain.StatusCompleted, f.packageStatus(t, pkgID))

	// Terminal: cancel is rejected, not refunded.
	_, err = f.svc.CancelOrReturn(ctx, created.Shipment.ID, shipmentdomain.StatusCancelled, "too late")
	assert.ErrorIs(t, err, shipmentdomain.ErrInvalidTransition)
}

func TestBulkTransitionIsolatesFailures(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first, err := f.svc.CreateShipment(ctx, domain.CreateShipmentRequest{
		OwnerID:       f.owner,
		PackageIDs:    []snowflake.ID{f.arrivedPackage(t)},
		PaymentMethod: shipmentdomain.PaymentMethodTransfer,
	})
	require.NoError(t, err)

	missing := f.node.Generate()
	result, err := f.svc.BulkTransition(ctx, []snowflake.ID{first.Shipment.ID, missing}, shipmentdomain.StatusProcessing)
	require.NoError(t, err)

	assert.Equal(t, []snowflake.ID{first.Shipment.ID}, result.Updated)
	require.Contains(t, result.Failed, missing)
	assert.ErrorIs(t, result.Failed[missing], shipmentdomain.ErrNotFound)
}

func TestAdjustPriceSettlesWalletDifference(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	pkgID := f.arrivedPackage(t)
	f.deposit(t, 5000)

	created, err := f.svc.CreateShipment(ctx, domain.CreateShipmentRequest{
		OwnerID:       f.owner,
		PackageIDs:    []snowflake.ID{pkgID},
		PaymentMethod: shipmentdomain.PaymentMethodWallet,
	})
	require.NoError(t, err)
	require.Equal(t, int64(3000), f.balance(t))

	// Price drops 2000 -> 1500, the 500 difference is refunded.
	updated, err := f.svc.AdjustPrice(ctx, created.Shipment.ID, 1500, "damaged box discount")
	require.NoError(t, err)
	assert.Equal(t, int64(1500), updated.TotalCost)
	assert.Equal(t, int64(3500), f.balance(t))

	// Price raised 1500 -> 2500, the extra 1000 is debited.
	updated, err = f.svc.AdjustPrice(ctx, created.Shipment.ID, 2500, "customs reassessment")
	require.NoError(t, err)
	assert.Equal(t, int64(2500), updated.TotalCost)
	assert.Equal(t, int64(2500), f.balance(t))

	_, err = f.svc.AdjustPrice(ctx, created.Shipment.ID, 100, "")
	assert.ErrorIs(t, err, shipmentdomain.ErrReasonRequired)
	_, err = f.svc.AdjustPrice(ctx, created.Shipment.ID, -5, "negative")
	assert.ErrorIs(t, err, shipmentdomain.ErrInvalidPrice)
}

func TestAdjustPriceForbiddenAfterInvoiceIssued(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	pkgID := f.arrivedPackage(t)

	created, err := f.svc.CreateShipment(ctx, domain.CreateShipmentRequest{
		OwnerID:       f.owner,
		PackageIDs:    []snowflake.ID{pkgID},
		PaymentMethod: shipmentdomain.PaymentMethodTransfer,
	})
	require.NoError(t, err)
	_, err = f.svc.TransitionStatus(ctx, created.Shipment.ID, shipmentdomain.StatusProcessing, "")
	require.NoError(t, err)

	_, err = f.svc.AdjustPrice(ctx, created.Shipment.ID, 1500, "late discount")
	assert.ErrorIs(t, err, shipmentdomain.ErrInvoiceAlreadyIssued)

	// Voiding the invoice reopens adjustment.
	_, err = f.svc.VoidInvoice(ctx, created.Shipment.ID, "pricing error")
	require.NoError(t, err)
	assert.Equal(t, 1, f.invoices.voidCalls)

	updated, err := f.svc.AdjustPrice(ctx, created.Shipment.ID, 1500, "late discount")
	require.NoError(t, err)
	assert.Equal(t, int64(1500), updated.TotalCost)
}

func TestVoidInvoiceRequiresIssuedInvoice(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	pkgID := f.arrivedPackage(t)

	created, err := f.svc.CreateShipment(ctx, domain.CreateShipmentRequest{
		OwnerID:       f.owner,
		PackageIDs:    []snowflake.ID{pkgID},
		PaymentMethod: shipmentdomain.PaymentMethodTransfer,
	})
	require.NoError(t, err)

	_, err = f.svc.VoidInvoice(ctx, created.Shipment.ID, "nothing issued")
	assert.ErrorIs(t, err, shipmentdomain.ErrInvoiceNotIssued)
}

func TestDeleteShipmentRefundsAndReleases(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	pkgID := f.arrivedPackage(t)
	f.deposit(t, 5000)

	created, err := f.svc.CreateShipment(ctx, domain.CreateShipmentRequest{
		OwnerID:       f.owner,
		PackageIDs:    []snowflake.ID{pkgID},
		PaymentMethod: shipmentdomain.PaymentMethodWallet,
	})
	require.NoError(t, err)

	require.NoError(t, f.svc.DeleteShipment(ctx, created.Shipment.ID))

	assert.Equal(t, int64(5000), f.balance(t))
	assert.Equal(t, parceldomain.StatusArrived, f.packageStatus(t, pkgID))
	_, err = f.svc.GetShipment(ctx, f.owner, created.Shipment.ID)
	assert.ErrorIs(t, err, shipmentdomain.ErrNotFound)
}

func TestCreateShipmentValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.CreateShipment(ctx, domain.CreateShipmentRequest{
		OwnerID:       f.owner,
		PaymentMethod: shipmentdomain.PaymentMethodWallet,
	})
	assert.ErrorIs(t, err, shipmentdomain.ErrNoPackages)

	_, err = f.svc.CreateShipment(ctx, domain.CreateShipmentRequest{
		OwnerID:       f.owner,
		PackageIDs:    []snowflake.ID{f.arrivedPackage(t)},
		PaymentMethod: "CASH",
	})
	assert.ErrorIs(t, err, shipmentdomain.ErrInvalidPayment)
}
