package invoice

import (
	"github.com/smallbiznis/devgate/internal/invoice/render"
	"github.com/smallbiznis/devgate/internal/invoice/repository"
	"github.com/smallbiznis/devgate/internal/invoice/service"
	"go.uber.org/fx"
)

var Module = fx.Module("invoice.service",
	fx.Provide(repository.Provide),
	fx.Provide(render.New),
	fx.Provide(service.New),
)
