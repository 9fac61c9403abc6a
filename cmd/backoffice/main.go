package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/storenow/backoffice/internal/clock"
	"github.com/storenow/backoffice/internal/config"
	"github.com/storenow/backoffice/internal/migration"
	"github.com/storenow/backoffice/internal/observability"
	"github.com/storenow/backoffice/internal/server"
	"github.com/storenow/backoffice/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		// Core infrastructure
		config.Module,
		observability.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		clock.Module,

		migration.Module,

		// HTTP surface plus every domain module it serves
		server.Module,
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
