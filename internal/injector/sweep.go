package injector

import (
	"github.com/zeusync/gimbal/internal/config"
	"github.com/zeusync/gimbal/internal/core/gimbal"
	"github.com/zeusync/gimbal/internal/core/observability/log"
	"github.com/zeusync/gimbal/internal/core/system"
	"github.com/zeusync/gimbal/internal/core/tuning"
)

// SweepBuilder builds independent loops from cfg for a tuning sweep. Trace
// outputs are disabled so that parallel runs do not share files. All runs log
// through logger.
func SweepBuilder(cfg *config.Config, logger log.Log) tuning.BuildFunc {
	return func(g gimbal.Config) (*system.Loop, error) {
		c := *cfg
		c.Gimbal = g
		c.Record = config.RecordConfig{}
		return InitializeLoop(&c, logger)
	}
}
