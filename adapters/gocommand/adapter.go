package gocommand

import (
	"context"
	"fmt"
	"strings"

	"github.com/goliatone/go-command"
	commanddispatcher "github.com/goliatone/go-command/dispatcher"
	"github.com/goliatone/go-command/runner"

	shipcommand "github.com/goliatone/go-shipcompliant/command"
	"github.com/goliatone/go-shipcompliant/core"
	shipquery "github.com/goliatone/go-shipcompliant/query"
)

// ValidateMessageContract enforces Type() plus optional Validate() contract.
func ValidateMessageContract(msg any) error {
	if err := command.ValidateMessage(msg); err != nil {
		return err
	}
	m, ok := msg.(command.Message)
	if !ok {
		return fmt.Errorf("gocommand: message must implement Type() string")
	}
	if strings.TrimSpace(m.Type()) == "" {
		return fmt.Errorf("gocommand: message type is required")
	}
	return nil
}

type RegistryAdapter struct {
	registry *command.Registry
}

func NewRegistryAdapter(registry *command.Registry) *RegistryAdapter {
	if registry == nil {
		registry = command.NewRegistry()
	}
	return &RegistryAdapter{registry: registry}
}

func (a *RegistryAdapter) Registry() *command.Registry {
	if a == nil {
		return nil
	}
	return a.registry
}

func (a *RegistryAdapter) RegisterCommand(cmd any) error {
	if a == nil || a.registry == nil {
		return fmt.Errorf("gocommand: registry is not configured")
	}
	return a.registry.RegisterCommand(cmd)
}

func (a *RegistryAdapter) RegisterQuery(qry any) error {
	if a == nil || a.registry == nil {
		return fmt.Errorf("gocommand: registry is not configured")
	}
	return a.registry.RegisterCommand(qry)
}

func (a *RegistryAdapter) AddResolver(key string, resolver command.Resolver) error {
	if a == nil || a.registry == nil {
		return fmt.Errorf("gocommand: registry is not configured")
	}
	return a.registry.AddResolver(strings.TrimSpace(key), resolver)
}

func (a *RegistryAdapter) HasResolver(key string) bool {
	if a == nil || a.registry == nil {
		return false
	}
	return a.registry.HasResolver(strings.TrimSpace(key))
}

func (a *RegistryAdapter) Initialize() error {
	if a == nil || a.registry == nil {
		return fmt.Errorf("gocommand: registry is not configured")
	}
	return a.registry.Initialize()
}

func SubscribeCommand[T any](cmd command.Commander[T], runnerOpts ...runner.Option) commanddispatcher.Subscription {
	return commanddispatcher.SubscribeCommand(cmd, runnerOpts...)
}

func SubscribeQuery[T any, R any](qry command.Querier[T, R], runnerOpts ...runner.Option) commanddispatcher.Subscription {
	return commanddispatcher.SubscribeQuery(qry, runnerOpts...)
}

func Dispatch[T any](ctx context.Context, msg T) error {
	return commanddispatcher.Dispatch(ctx, msg)
}

// DispatchResult dispatches msg and returns the value its handler stored in
// the context result collector.
func DispatchResult[T any, R any](ctx context.Context, msg T) (R, error) {
	collector := command.NewResult[R]()
	if err := commanddispatcher.Dispatch(command.ContextWithResult(ctx, collector), msg); err != nil {
		var zero R
		return zero, err
	}
	value, _ := collector.Load()
	return value, nil
}

func Query[T any, R any](ctx context.Context, msg T) (R, error) {
	return commanddispatcher.Query[T, R](ctx, msg)
}

func RegisterAndSubscribe[T any](
	adapter *RegistryAdapter,
	cmd command.Commander[T],
	runnerOpts ...runner.Option,
) (commanddispatcher.Subscription, error) {
	if adapter == nil || adapter.registry == nil {
		return nil, fmt.Errorf("gocommand: registry is not configured")
	}
	if cmd == nil {
		return nil, fmt.Errorf("gocommand: command is required")
	}
	subscription := SubscribeCommand(cmd, runnerOpts...)
	if err := adapter.RegisterCommand(cmd); err != nil {
		if subscription != nil {
			subscription.Unsubscribe()
		}
		return nil, err
	}
	return subscription, nil
}

func RegisterAndSubscribeQuery[T any, R any](
	adapter *RegistryAdapter,
	qry command.Querier[T, R],
	runnerOpts ...runner.Option,
) (commanddispatcher.Subscription, error) {
	if adapter == nil || adapter.registry == nil {
		return nil, fmt.Errorf("gocommand: registry is not configured")
	}
	if qry == nil {
		return nil, fmt.Errorf("gocommand: query is required")
	}
	subscription := SubscribeQuery(qry, runnerOpts...)
	if err := adapter.RegisterQuery(qry); err != nil {
		if subscription != nil {
			subscription.Unsubscribe()
		}
		return nil, err
	}
	return subscription, nil
}

// Service is everything the ShipCompliant handlers need from a client.
type Service interface {
	shipcommand.MutatingService
	shipquery.ReadingService
}

type Subscriptions []commanddispatcher.Subscription

func (s Subscriptions) Unsubscribe() {
	for _, subscription := range s {
		if subscription != nil {
			subscription.Unsubscribe()
		}
	}
}

// RegisterShipCompliant registers and subscribes every ShipCompliant command
// and query. The call journal query is skipped when journal is nil. On error
// the subscriptions made so far are removed.
func RegisterShipCompliant(
	adapter *RegistryAdapter,
	service Service,
	journal core.CallJournalReader,
	runnerOpts ...runner.Option,
) (Subscriptions, error) {
	if service == nil {
		return nil, fmt.Errorf("gocommand: shipcompliant service is required")
	}
	var subs Subscriptions
	add := func(sub commanddispatcher.Subscription, err error) error {
		if err != nil {
			subs.Unsubscribe()
			return err
		}
		subs = append(subs, sub)
		return nil
	}

	steps := []func() error{
		func() error {
			return add(RegisterAndSubscribe(adapter, shipcommand.NewCommitSalesOrderCommand(service), runnerOpts...))
		},
		func() error {
			return add(RegisterAndSubscribe(adapter, shipcommand.NewPersistSalesOrderCommand(service), runnerOpts...))
		},
		func() error {
			return add(RegisterAndSubscribe(adapter, shipcommand.NewVoidSalesOrderCommand(service), runnerOpts...))
		},
		func() error {
			return add(RegisterAndSubscribe(adapter, shipcommand.NewUpsertProductCommand(service), runnerOpts...))
		},
		func() error {
			return add(RegisterAndSubscribe(adapter, shipcommand.NewUpsertBrandCommand(service), runnerOpts...))
		},
		func() error {
			return add(RegisterAndSubscribeQuery(adapter, shipquery.NewGetSalesOrderQuery(service), runnerOpts...))
		},
		func() error {
			return add(RegisterAndSubscribeQuery(adapter, shipquery.NewGetSalesOrderTrackingQuery(service), runnerOpts...))
		},
		func() error {
			return add(RegisterAndSubscribeQuery(adapter, shipquery.NewQuoteSalesTaxRateQuery(service), runnerOpts...))
		},
		func() error {
			return add(RegisterAndSubscribeQuery(adapter, shipquery.NewQuoteSalesTaxQuery(service), runnerOpts...))
		},
		func() error {
			return add(RegisterAndSubscribeQuery(adapter, shipquery.NewCheckComplianceQuery(service), runnerOpts...))
		},
		func() error {
			return add(RegisterAndSubscribeQuery(adapter, shipquery.NewGetProductQuery(service), runnerOpts...))
		},
	}
	if journal != nil {
		steps = append(steps, func() error {
			return add(RegisterAndSubscribeQuery(adapter, shipquery.NewListCallJournalQuery(journal), runnerOpts...))
		})
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return nil, err
		}
	}
	return subs, nil
}
