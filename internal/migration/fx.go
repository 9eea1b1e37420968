package migration

import (
	"github.com/bwmarrin/snowflake"
	"github.com/parcelbay/parcelbay/internal/config"
	"github.com/parcelbay/parcelbay/internal/seed"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, rates *config.RatesConfigHolder, genID *snowflake.Node) error {
		sqlDB, err := conn.DB()
		if err != nil {
			return err
		}

		if err := RunMigrations(sqlDB); err != nil {
			return err
		}

		return seed.EnsureDefaultRates(conn, rates.Get(), genID)
	}),
)
