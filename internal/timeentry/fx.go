package timeentry

import (
	"github.com/smallbiznis/devgate/internal/timeentry/repository"
	"github.com/smallbiznis/devgate/internal/timeentry/service"
	"go.uber.org/fx"
)

var Module = fx.Module("timeentry.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
