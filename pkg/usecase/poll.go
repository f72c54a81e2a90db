package usecase

import (
	"context"
	"time"

	"github.com/caeleel/friendbook/pkg/domain/model"
	"github.com/caeleel/friendbook/pkg/domain/types"
	"github.com/caeleel/friendbook/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
)

const (
	DefaultPollInterval    = 500 * time.Millisecond
	DefaultMaxPollInterval = 5 * time.Second
	DefaultMaxWait         = 2 * time.Minute
)

type pollConfig struct {
	interval    time.Duration
	maxInterval time.Duration
	maxWait     time.Duration
}

func defaultPollConfig() pollConfig {
	return pollConfig{
		interval:    DefaultPollInterval,
		maxInterval: DefaultMaxPollInterval,
		maxWait:     DefaultMaxWait,
	}
}

// waitRun polls the run while it is active. The interval doubles after each
// poll up to maxInterval. The run fails with ErrRunTimeout once deadline
// passes.
func (uc *ChatUseCase) waitRun(ctx context.Context, run *model.Run, deadline time.Time) (*model.Run, error) {
	interval := uc.poll.interval

	for run.Status.State() == types.RunStateActive {
		if !time.Now().Before(deadline) {
			return nil, goerr.Wrap(ErrRunTimeout, "run did not settle in time",
				goerr.V(ThreadIDKey, run.ThreadID), goerr.V(RunIDKey, run.ID), goerr.V("status", run.Status))
		}

		wait := min(interval, time.Until(deadline))
		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, goerr.Wrap(ctx.Err(), "polling cancelled", goerr.V(RunIDKey, run.ID))
		case <-timer.C:
		}

		next, err := uc.engine.GetRun(ctx, run.ThreadID, run.ID)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to poll run", goerr.V(RunIDKey, run.ID))
		}
		logging.From(ctx).Debug("polled run", "run_id", next.ID, "status", next.Status)
		run = next

		interval = min(interval*2, uc.poll.maxInterval)
	}

	return run, nil
}
