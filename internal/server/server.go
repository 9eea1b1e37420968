package server

import (
	"context"
	"net/http"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/parcelbay/parcelbay/internal/config"
	"github.com/parcelbay/parcelbay/internal/invoiceprovider"
	"github.com/parcelbay/parcelbay/internal/notification"
	obstracing "github.com/parcelbay/parcelbay/internal/observability/tracing"
	"github.com/parcelbay/parcelbay/internal/parcel"
	parceldomain "github.com/parcelbay/parcelbay/internal/parcel/domain"
	"github.com/parcelbay/parcelbay/internal/ratetable"
	ratetabledomain "github.com/parcelbay/parcelbay/internal/ratetable/domain"
	"github.com/parcelbay/parcelbay/internal/rating"
	ratingservice "github.com/parcelbay/parcelbay/internal/rating/service"
	"github.com/parcelbay/parcelbay/internal/settlement"
	settlementdomain "github.com/parcelbay/parcelbay/internal/settlement/domain"
	"github.com/parcelbay/parcelbay/internal/shipment"
	"github.com/parcelbay/parcelbay/internal/wallet"
	walletdomain "github.com/parcelbay/parcelbay/internal/wallet/domain"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var Module = fx.Module("http.server",
	fx.Provide(registerGin),
	ratetable.Module,
	rating.Module,
	parcel.Module,
	shipment.Module,
	wallet.Module,
	invoiceprovider.Module,
	notification.Module,
	settlement.Module,
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(log *zap.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(obstracing.GinMiddleware())
	r.Use(RequestLogMiddleware(log))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func registerGin(log *zap.Logger) *gin.Engine {
	return NewEngine(log)
}

func run(lc fx.Lifecycle, r *gin.Engine, cfg config.Config, log *zap.Logger) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				log.Info("http server listening", zap.String("addr", cfg.HTTPAddr))
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					panic(err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine        *gin.Engine
	cfg           config.Config
	db            *gorm.DB
	genID         *snowflake.Node
	calc          *ratingservice.Calculator
	rates         ratetabledomain.Provider
	ratesSvc      ratetabledomain.Service
	parcelSvc     parceldomain.Service
	walletSvc     walletdomain.Service
	settlementSvc settlementdomain.Service
}

type ServerParams struct {
	fx.In

	Gin           *gin.Engine
	Cfg           config.Config
	DB            *gorm.DB
	GenID         *snowflake.Node
	Calc          *ratingservice.Calculator
	Rates         ratetabledomain.Provider
	RatesSvc      ratetabledomain.Service
	ParcelSvc     parceldomain.Service
	WalletSvc     walletdomain.Service
	SettlementSvc settlementdomain.Service
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:        p.Gin,
		cfg:           p.Cfg,
		db:            p.DB,
		genID:         p.GenID,
		calc:          p.Calc,
		rates:         p.Rates,
		ratesSvc:      p.RatesSvc,
		parcelSvc:     p.ParcelSvc,
		walletSvc:     p.WalletSvc,
		settlementSvc: p.SettlementSvc,
	}

	svc.registerAPIRoutes()
	svc.registerAdminRoutes()

	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerAPIRoutes() {
	v1 := s.engine.Group("/v1")

	// -------- Rating --------
	v1.POST("/rating/preview", s.PreviewItems)
	v1.POST("/rating/preview/packages", s.ownerRequired(), s.PreviewPackages)

	// -------- Packages --------
	v1.POST("/packages", s.ownerRequired(), s.ForecastPackage)
	v1.GET("/packages", s.ownerRequired(), s.ListPackages)
	v1.GET("/packages/:id", s.ownerRequired(), s.GetPackage)

	// -------- Shipments --------
	v1.POST("/shipments", s.ownerRequired(), s.CreateShipment)
	v1.GET("/shipments", s.ownerRequired(), s.ListShipments)
	v1.GET("/shipments/:id", s.ownerRequired(), s.GetShipment)
	v1.POST("/shipments/:id/cancel", s.ownerRequired(), s.CancelShipment)

	// -------- Wallet --------
	v1.GET("/wallet", s.ownerRequired(), s.GetWallet)
	v1.POST("/wallet/deposits", s.ownerRequired(), s.DepositWallet)
	v1.GET("/wallet/transactions", s.ownerRequired(), s.ListWalletTransactions)
}

func (s *Server) registerAdminRoutes() {
	admin := s.engine.Group("/v1/admin")

	// -------- Warehouse intake --------
	admin.POST("/packages/:id/arrive", s.PackageArrived)

	// -------- Shipment operations --------
	admin.POST("/shipments/:id/status", s.TransitionShipment)
	admin.POST("/shipments/status", s.BulkTransitionShipments)
	admin.POST("/shipments/:id/price", s.AdjustShipmentPrice)
	admin.DELETE("/shipments/:id", s.DeleteShipment)
	admin.POST("/shipments/:id/invoice", s.IssueShipmentInvoice)
	admin.POST("/shipments/:id/invoice/void", s.VoidShipmentInvoice)

	// -------- Rate configuration --------
	admin.GET("/rates/categories", s.ListRateCategories)
	admin.PUT("/rates/categories/:key", s.UpdateRateCategory)
	admin.PUT("/rates/constants", s.UpdateRateConstants)
}
