package parcel

import (
	"github.com/parcelbay/parcelbay/internal/parcel/repository"
	"github.com/parcelbay/parcelbay/internal/parcel/service"
	"go.uber.org/fx"
)

var Module = fx.Module("parcel.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.NewService),
)
