package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/parcelbay/parcelbay/internal/clock"
	"github.com/parcelbay/parcelbay/internal/config"
	"github.com/parcelbay/parcelbay/internal/logger"
	"github.com/parcelbay/parcelbay/internal/migration"
	"github.com/parcelbay/parcelbay/internal/observability"
	"github.com/parcelbay/parcelbay/internal/server"
	"github.com/parcelbay/parcelbay/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		// Core infrastructure
		config.Module,
		logger.Module,
		observability.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		clock.Module,

		// Functional domains, wired through the HTTP server
		server.Module,
		migration.Module,
	)
	app.Run()
}

func RegisterSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	return node
}
