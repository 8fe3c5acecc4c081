//go:build wireinject
// +build wireinject

// The build tag makes sure the stub is not built in the final build.

package injector

import (
	"github.com/google/wire"

	"github.com/zeusync/gimbal/internal/config"
	"github.com/zeusync/gimbal/internal/core/observability/log"
	"github.com/zeusync/gimbal/internal/core/system"
)

func InitializeLoop(cfg *config.Config, logger log.Log) (*system.Loop, error) {
	wire.Build(ProviderSet)
	return nil, nil
}
