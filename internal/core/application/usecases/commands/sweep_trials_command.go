package commands

import (
	"errors"

	"dispatch/internal/pkg/guard"
)

var ErrSweepTrialsCommandIsNotConstructed = errors.New(
	"SweepTrialsCommand must be created via NewSweepTrialsCommand constructor",
)

// SweepTrialsCommand runs one pass of the trial watcher over every trial holder.
//
// Example:
//
//	handler := commands.NewSweepTrialsCommandHandler(deps)
//	if err := handler.Handle(ctx, commands.NewSweepTrialsCommand()); err != nil {
//	    logger.Error("sweep failed", "error", err)
//	}
type SweepTrialsCommand struct {
	guard guard.ConstructorGuard
}

// NewSweepTrialsCommand takes no parameters; the sweep reads the clock itself.
func NewSweepTrialsCommand() SweepTrialsCommand {
	return SweepTrialsCommand{guard: guard.NewConstructorGuard()}
}

func (c SweepTrialsCommand) Validate() error {
	return c.guard.Validate(ErrSweepTrialsCommandIsNotConstructed)
}
