package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/devgate/internal/auth"
	"github.com/smallbiznis/devgate/internal/catalog"
	"github.com/smallbiznis/devgate/internal/client"
	"github.com/smallbiznis/devgate/internal/config"
	"github.com/smallbiznis/devgate/internal/dashboard"
	"github.com/smallbiznis/devgate/internal/invoice"
	"github.com/smallbiznis/devgate/internal/migration"
	"github.com/smallbiznis/devgate/internal/project"
	"github.com/smallbiznis/devgate/internal/providers"
	"github.com/smallbiznis/devgate/internal/server"
	"github.com/smallbiznis/devgate/internal/timeentry"
	"github.com/smallbiznis/devgate/internal/user"
	"github.com/smallbiznis/devgate/pkg/db"
	"github.com/smallbiznis/devgate/pkg/log"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		// Core infrastructure
		config.Module,
		log.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		migration.Module,

		// Domains
		providers.Module,
		auth.Module,
		client.Module,
		project.Module,
		timeentry.Module,
		catalog.Module,
		invoice.Module,
		dashboard.Module,
		user.Module,

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
