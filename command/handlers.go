package command

import (
	"context"

	gocmd "github.com/goliatone/go-command"
)

// MutatingService is the write side of the ShipCompliant façade.
type MutatingService interface {
	CommitSalesOrder(ctx context.Context, body any) (any, error)
	PersistSalesOrder(ctx context.Context, body any) (any, error)
	VoidSalesOrder(ctx context.Context, salesOrderKey string) (any, error)
	UpsertProduct(ctx context.Context, body any) (any, error)
	UpsertBrand(ctx context.Context, body any) (any, error)
}

type CommitSalesOrderCommand struct {
	service MutatingService
}

func NewCommitSalesOrderCommand(service MutatingService) *CommitSalesOrderCommand {
	return &CommitSalesOrderCommand{service: service}
}

func (c *CommitSalesOrderCommand) Execute(ctx context.Context, msg CommitSalesOrderMessage) error {
	if c == nil || c.service == nil {
		return commandDependencyError("command: commit sales order service is required")
	}
	return storeOutcome(ctx, func() (any, error) {
		return c.service.CommitSalesOrder(ctx, msg.Input)
	})
}

type PersistSalesOrderCommand struct {
	service MutatingService
}

func NewPersistSalesOrderCommand(service MutatingService) *PersistSalesOrderCommand {
	return &PersistSalesOrderCommand{service: service}
}

func (c *PersistSalesOrderCommand) Execute(ctx context.Context, msg PersistSalesOrderMessage) error {
	if c == nil || c.service == nil {
		return commandDependencyError("command: persist sales order service is required")
	}
	return storeOutcome(ctx, func() (any, error) {
		return c.service.PersistSalesOrder(ctx, msg.Input)
	})
}

type VoidSalesOrderCommand struct {
	service MutatingService
}

func NewVoidSalesOrderCommand(service MutatingService) *VoidSalesOrderCommand {
	return &VoidSalesOrderCommand{service: service}
}

func (c *VoidSalesOrderCommand) Execute(ctx context.Context, msg VoidSalesOrderMessage) error {
	if c == nil || c.service == nil {
		return commandDependencyError("command: void sales order service is required")
	}
	return storeOutcome(ctx, func() (any, error) {
		return c.service.VoidSalesOrder(ctx, msg.SalesOrderKey)
	})
}

type UpsertProductCommand struct {
	service MutatingService
}

func NewUpsertProductCommand(service MutatingService) *UpsertProductCommand {
	return &UpsertProductCommand{service: service}
}

func (c *UpsertProductCommand) Execute(ctx context.Context, msg UpsertProductMessage) error {
	if c == nil || c.service == nil {
		return commandDependencyError("command: upsert product service is required")
	}
	return storeOutcome(ctx, func() (any, error) {
		return c.service.UpsertProduct(ctx, msg.Input)
	})
}

type UpsertBrandCommand struct {
	service MutatingService
}

func NewUpsertBrandCommand(service MutatingService) *UpsertBrandCommand {
	return &UpsertBrandCommand{service: service}
}

func (c *UpsertBrandCommand) Execute(ctx context.Context, msg UpsertBrandMessage) error {
	if c == nil || c.service == nil {
		return commandDependencyError("command: upsert brand service is required")
	}
	return storeOutcome(ctx, func() (any, error) {
		return c.service.UpsertBrand(ctx, msg.Input)
	})
}

// storeOutcome runs fn and hands its value to the result collector carried
// by ctx, if any. API error bodies are values, so they are stored too.
func storeOutcome(ctx context.Context, fn func() (any, error)) error {
	out, err := fn()
	if err != nil {
		return err
	}
	storeResult(ctx, out)
	return nil
}

func storeResult[T any](ctx context.Context, value T) {
	collector := gocmd.ResultFromContext[T](ctx)
	if collector == nil {
		return
	}
	collector.Store(value)
}
