package wallet

import (
	"github.com/parcelbay/parcelbay/internal/wallet/service"
	"go.uber.org/fx"
)

var Module = fx.Module("wallet.service",
	fx.Provide(service.NewService),
)
