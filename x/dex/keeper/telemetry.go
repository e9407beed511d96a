package keeper

import (
	"time"

	"github.com/cosmos/cosmos-sdk/telemetry"
	"github.com/hashicorp/go-metrics"

	"github.com/subgame-network/subgame/x/dex/types"
)

func measureSince(start time.Time, operation string) {
	telemetry.MeasureSince(start, types.ModuleName, operation)
}

func incrOperation(operation string, poolID types.PoolID, status string) {
	telemetry.IncrCounterWithLabels(
		[]string{types.ModuleName, operation},
		1,
		[]metrics.Label{
			telemetry.NewLabel("pool_id", poolID.String()),
			telemetry.NewLabel("status", status),
		},
	)
}
