package rating

import (
	"github.com/parcelbay/parcelbay/internal/rating/service"
	"go.uber.org/fx"
)

var Module = fx.Module("rating.calculator",
	fx.Provide(service.NewCalculator),
)
