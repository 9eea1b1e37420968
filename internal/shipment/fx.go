package shipment

import (
	"github.com/parcelbay/parcelbay/internal/shipment/repository"
	"go.uber.org/fx"
)

var Module = fx.Module("shipment.repository",
	fx.Provide(repository.Provide),
)
