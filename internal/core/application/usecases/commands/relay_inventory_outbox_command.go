package commands

import (
	"errors"

	"orders/internal/pkg/errs"
	"orders/internal/pkg/guard"
)

const DefaultRelayBatchSize = 100

var (
	ErrRelayInventoryOutboxCommandIsNotConstructed = errors.New(
		"RelayInventoryOutboxCommand must be created via NewRelayInventoryOutboxCommand constructor",
	)
)

// RelayInventoryOutboxCommand republishes at most batchSize parked inventory events.
type RelayInventoryOutboxCommand struct { //nolint:recvcheck //using for validation
	batchSize int

	guard guard.ConstructorGuard
}

func NewRelayInventoryOutboxCommand(batchSize int) (RelayInventoryOutboxCommand, error) {
	cmd := RelayInventoryOutboxCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := cmd.setBatchSize(batchSize); err != nil {
		return RelayInventoryOutboxCommand{}, err
	}

	return cmd, nil
}

func (c RelayInventoryOutboxCommand) Validate() error {
	return c.guard.Validate(ErrRelayInventoryOutboxCommandIsNotConstructed)
}

func (c RelayInventoryOutboxCommand) BatchSize() int {
	return c.batchSize
}

func (c *RelayInventoryOutboxCommand) setBatchSize(batchSize int) error {
	if batchSize <= 0 {
		return errs.NewValueIsOutOfRangeError("batchSize", batchSize, 1, "unbounded")
	}

	c.batchSize = batchSize
	return nil
}
