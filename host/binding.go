// Package host exposes the ShipCompliant client to a goja JavaScript runtime.
//
// Register installs a ShipCompliantV1 namespace with a Client constructor.
// Client objects take plain JS objects and arrays, return plain values with
// snake_case keys and throw Error objects for raised failures. goja runtimes
// are single threaded, so a Binding must only be used from the goroutine that
// drives its runtime.
package host

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/dop251/goja"
	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-shipcompliant/api"
	"github.com/goliatone/go-shipcompliant/core"
)

const (
	Namespace       = "ShipCompliantV1"
	ConstructorName = "Client"
	CloseMethod     = "close"
)

type ClientFactory func(baseURL string, username string, password string, opts ...core.Option) (*core.Client, error)

type Binding struct {
	vm            *goja.Runtime
	ctx           context.Context
	factory       ClientFactory
	clientOptions []core.Option

	mu      sync.Mutex
	clients []*core.Client
}

type Option func(*Binding)

// WithContext sets the context handed to every call made from scripts.
func WithContext(ctx context.Context) Option {
	return func(b *Binding) {
		if ctx != nil {
			b.ctx = ctx
		}
	}
}

func WithClientOptions(opts ...core.Option) Option {
	return func(b *Binding) {
		b.clientOptions = append(b.clientOptions, opts...)
	}
}

func WithClientFactory(factory ClientFactory) Option {
	return func(b *Binding) {
		if factory != nil {
			b.factory = factory
		}
	}
}

func Register(vm *goja.Runtime, opts ...Option) (*Binding, error) {
	if vm == nil {
		return nil, fmt.Errorf("host: goja runtime is required")
	}
	b := &Binding{
		vm:      vm,
		ctx:     context.Background(),
		factory: core.NewClient,
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(b)
	}

	namespace := vm.NewObject()
	if err := namespace.Set(ConstructorName, b.construct); err != nil {
		return nil, fmt.Errorf("host: install constructor: %w", err)
	}
	if err := namespace.Set("operations", api.Operations()); err != nil {
		return nil, fmt.Errorf("host: install operations: %w", err)
	}
	if err := vm.Set(Namespace, namespace); err != nil {
		return nil, fmt.Errorf("host: install %s: %w", Namespace, err)
	}
	return b, nil
}

// Close releases every client created through this binding.
func (b *Binding) Close() error {
	if b == nil {
		return nil
	}
	b.mu.Lock()
	clients := b.clients
	b.clients = nil
	b.mu.Unlock()

	var errs []error
	for _, client := range clients {
		if err := client.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// release stops tracking a client the script closed itself.
func (b *Binding) release(client *core.Client) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, tracked := range b.clients {
		if tracked == client {
			b.clients = append(b.clients[:i], b.clients[i+1:]...)
			return
		}
	}
}

func (b *Binding) construct(call goja.ConstructorCall) *goja.Object {
	baseURL := b.stringArgument(call.Arguments, 0, "baseUrl", true)
	username := b.stringArgument(call.Arguments, 1, "username", true)
	password := b.stringArgument(call.Arguments, 2, "password", false)

	client, err := b.factory(baseURL, username, password, b.clientOptions...)
	if err != nil {
		b.throw(err)
	}
	b.mu.Lock()
	b.clients = append(b.clients, client)
	b.mu.Unlock()

	obj := call.This
	for name, method := range b.methods(client) {
		if err := obj.Set(name, method); err != nil {
			b.throw(err)
		}
	}
	return obj
}

// hostMethod must stay an alias: goja only calls unnamed func(FunctionCall)
// Value types natively.
type hostMethod = func(goja.FunctionCall) goja.Value

func (b *Binding) methods(client *core.Client) map[string]hostMethod {
	identifier := func(fn func(context.Context, string) (any, error)) hostMethod {
		return func(call goja.FunctionCall) goja.Value {
			key := b.stringArgument(call.Arguments, 0, "key", false)
			return b.result(fn(b.ctx, key))
		}
	}
	body := func(fn func(context.Context, any) (any, error)) hostMethod {
		return func(call goja.FunctionCall) goja.Value {
			return b.result(fn(b.ctx, exportArgument(call.Arguments, 0)))
		}
	}

	return map[string]hostMethod{
		api.OperationGetSalesOrder: identifier(client.GetSalesOrder),
		api.OperationGetSalesOrderTracking: func(call goja.FunctionCall) goja.Value {
			key := b.stringArgument(call.Arguments, 0, "key", false)
			return b.result(client.GetSalesOrderTracking(b.ctx, key, exportArgument(call.Arguments, 1)))
		},
		api.OperationQuoteSalesTaxRate: body(client.QuoteSalesTaxRate),
		api.OperationQuoteSalesTax:     body(client.QuoteSalesTax),
		api.OperationCheckCompliance:   body(client.CheckCompliance),
		api.OperationCommitSalesOrder:  body(client.CommitSalesOrder),
		api.OperationPersistSalesOrder: body(client.PersistSalesOrder),
		api.OperationVoidSalesOrder:    identifier(client.VoidSalesOrder),
		api.OperationUpsertProduct:     body(client.UpsertProduct),
		api.OperationGetProduct:        identifier(client.GetProduct),
		api.OperationUpsertBrand:       body(client.UpsertBrand),
		CloseMethod: func(goja.FunctionCall) goja.Value {
			b.release(client)
			if err := client.Close(); err != nil {
				b.throw(err)
			}
			return goja.Undefined()
		},
	}
}

func (b *Binding) result(value any, err error) goja.Value {
	if err != nil {
		b.throw(err)
	}
	return b.vm.ToValue(value)
}

// stringArgument reads a string argument. Missing optional arguments read as
// "". Non-string values throw a TypeError.
func (b *Binding) stringArgument(args []goja.Value, index int, name string, required bool) string {
	var value goja.Value
	if index < len(args) {
		value = args[index]
	}
	if value == nil || goja.IsUndefined(value) || goja.IsNull(value) {
		if required {
			panic(b.vm.NewTypeError("%s is required", name))
		}
		return ""
	}
	text, ok := value.Export().(string)
	if !ok {
		panic(b.vm.NewTypeError("%s must be a string", name))
	}
	return text
}

func exportArgument(args []goja.Value, index int) any {
	if index >= len(args) {
		return nil
	}
	value := args[index]
	if value == nil || goja.IsUndefined(value) || goja.IsNull(value) {
		return nil
	}
	return value.Export()
}

// throw raises err as a JS Error. Rich errors keep their category, text code
// and request id as properties.
func (b *Binding) throw(err error) {
	message := err.Error()
	var rich *goerrors.Error
	if goerrors.As(err, &rich) {
		message = rich.Message
	}
	errObj, newErr := b.vm.New(b.vm.Get("Error"), b.vm.ToValue(message))
	if newErr != nil {
		panic(b.vm.NewGoError(err))
	}
	if rich != nil {
		_ = errObj.Set("category", string(rich.Category))
		_ = errObj.Set("text_code", rich.TextCode)
		_ = errObj.Set("request_id", rich.RequestID)
	}
	panic(errObj)
}
