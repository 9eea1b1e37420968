package ratetable

import (
	"github.com/parcelbay/parcelbay/internal/ratetable/repository"
	"github.com/parcelbay/parcelbay/internal/ratetable/service"
	"go.uber.org/fx"
)

var Module = fx.Module("ratetable.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.NewProvider),
	fx.Provide(service.NewService),
)
