package core

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-shipcompliant/api"
	"github.com/goliatone/go-shipcompliant/bridge"
	"github.com/goliatone/go-shipcompliant/dynamic"
)

type operationCall struct {
	client    *Client
	ctx       context.Context
	operation string
	requestID string
	startedAt time.Time
	fields    map[string]any
}

func (c *Client) begin(ctx context.Context, operation string, fields map[string]any) *operationCall {
	if ctx == nil {
		ctx = context.Background()
	}
	requestID := api.RequestIDFromContext(ctx)
	if requestID == "" && c != nil && c.requestIDFactory != nil {
		requestID = c.requestIDFactory()
		ctx = api.ContextWithRequestID(ctx, requestID)
	}
	return &operationCall{
		client:    c,
		ctx:       ctx,
		operation: operation,
		requestID: requestID,
		startedAt: time.Now(),
		fields:    fields,
	}
}

func (call *operationCall) decorate(err *goerrors.Error) *goerrors.Error {
	return err.
		WithRequestID(call.requestID).
		WithMetadata(map[string]any{"operation": call.operation})
}

func (call *operationCall) finish(result normalized, err error) {
	call.client.observeOperation(call.ctx, call.startedAt, call.operation, call.requestID, result, err, call.fields)
}

func (call *operationCall) fail(outcome Outcome, err *goerrors.Error) (any, error) {
	err = call.decorate(err)
	call.finish(normalized{outcome: outcome}, err)
	return nil, err
}

func run[T any](call *operationCall, fn func(context.Context) (*api.ResponseValue[T], error)) (any, error) {
	if call.client == nil || call.client.runner == nil {
		return call.fail(OutcomeClientClosed, clientClosed())
	}
	out, err := bridge.Do(call.ctx, call.client.runner, func(ctx context.Context) (normalized, error) {
		res, callErr := fn(ctx)
		return normalizeResult(res, callErr)
	})
	if err != nil {
		var rich *goerrors.Error
		switch {
		case out.outcome == "":
			out.outcome, rich = bridgeFailure(err)
		case !errors.As(err, &rich):
			rich = internalFailure(err)
		}
		rich = call.decorate(rich)
		call.finish(out, rich)
		return nil, rich
	}
	call.finish(out, nil)
	return out.value, nil
}

func requireIdentifier(field string, value string) (string, *goerrors.Error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return "", inputError(goerrors.NewValidation(field+" is required",
			goerrors.FieldError{Field: field, Message: "cannot be blank"},
		))
	}
	return trimmed, nil
}

// decodeBody camelizes the host mapping, decodes it onto target using json
// field names and runs the request's validation rules.
func decodeBody(input any, target validation.Validatable) *goerrors.Error {
	if input == nil {
		return inputError(fmt.Errorf("request body is required"))
	}
	camel, err := dynamic.CamelizeKeys(input)
	if err != nil {
		return inputError(fmt.Errorf("request body: %w", err))
	}
	if err := dynamic.Decode(camel, target); err != nil {
		return inputError(fmt.Errorf("request body: %w", err))
	}
	if err := target.Validate(); err != nil {
		return inputError(goerrors.FromOzzoValidation(err, "invalid request body"))
	}
	return nil
}

func (c *Client) GetSalesOrder(ctx context.Context, salesOrderKey string) (any, error) {
	call := c.begin(ctx, api.OperationGetSalesOrder, map[string]any{"sales_order_key": salesOrderKey})
	key, inputErr := requireIdentifier("sales_order_key", salesOrderKey)
	if inputErr != nil {
		return call.fail(OutcomeInputError, inputErr)
	}
	return run(call, func(ctx context.Context) (*api.ResponseValue[api.SalesOrderResponse], error) {
		return c.api.GetSalesOrder(ctx, key)
	})
}

// GetSalesOrderTracking accepts nil, a []string or any sequence of strings
// for shipmentKeys. nil or empty means every shipment.
func (c *Client) GetSalesOrderTracking(ctx context.Context, salesOrderKey string, shipmentKeys any) (any, error) {
	call := c.begin(ctx, api.OperationGetSalesOrderTracking, map[string]any{"sales_order_key": salesOrderKey})
	key, inputErr := requireIdentifier("sales_order_key", salesOrderKey)
	if inputErr != nil {
		return call.fail(OutcomeInputError, inputErr)
	}
	keys, err := dynamic.StringSequence(shipmentKeys)
	if err != nil {
		return call.fail(OutcomeInputError, inputError(fmt.Errorf("shipment_keys: %w", err)))
	}
	for i, shipmentKey := range keys {
		if strings.TrimSpace(shipmentKey) == "" {
			return call.fail(OutcomeInputError, inputError(fmt.Errorf("shipment_keys[%d] is blank", i)))
		}
	}
	call.fields["shipment_keys"] = keys
	return run(call, func(ctx context.Context) (*api.ResponseValue[api.TrackingResponse], error) {
		return c.api.GetSalesOrderTracking(ctx, key, keys)
	})
}

func (c *Client) QuoteSalesTaxRate(ctx context.Context, body any) (any, error) {
	call := c.begin(ctx, api.OperationQuoteSalesTaxRate, map[string]any{})
	var req api.QuoteSalesTaxRateRequest
	if inputErr := decodeBody(body, &req); inputErr != nil {
		return call.fail(OutcomeInputError, inputErr)
	}
	return run(call, func(ctx context.Context) (*api.ResponseValue[api.SalesTaxRateResponse], error) {
		return c.api.QuoteSalesTaxRate(ctx, req)
	})
}

func (c *Client) QuoteSalesTax(ctx context.Context, body any) (any, error) {
	call := c.begin(ctx, api.OperationQuoteSalesTax, map[string]any{})
	var req api.QuoteSalesTaxRequest
	if inputErr := decodeBody(body, &req); inputErr != nil {
		return call.fail(OutcomeInputError, inputErr)
	}
	call.fields["sales_order_key"] = req.SalesOrder.SalesOrderKey
	return run(call, func(ctx context.Context) (*api.ResponseValue[api.SalesTaxQuoteResponse], error) {
		return c.api.QuoteSalesTax(ctx, req)
	})
}

func (c *Client) CheckCompliance(ctx context.Context, body any) (any, error) {
	call := c.begin(ctx, api.OperationCheckCompliance, map[string]any{})
	var req api.CheckComplianceRequest
	if inputErr := decodeBody(body, &req); inputErr != nil {
		return call.fail(OutcomeInputError, inputErr)
	}
	call.fields["sales_order_key"] = req.SalesOrder.SalesOrderKey
	return run(call, func(ctx context.Context) (*api.ResponseValue[api.ComplianceResponse], error) {
		return c.api.CheckCompliance(ctx, req)
	})
}

func (c *Client) CommitSalesOrder(ctx context.Context, body any) (any, error) {
	call := c.begin(ctx, api.OperationCommitSalesOrder, map[string]any{})
	var req api.CommitSalesOrderRequest
	if inputErr := decodeBody(body, &req); inputErr != nil {
		return call.fail(OutcomeInputError, inputErr)
	}
	call.fields["sales_order_key"] = req.SalesOrderKey
	return run(call, func(ctx context.Context) (*api.ResponseValue[api.OperationResponse], error) {
		return c.api.CommitSalesOrder(ctx, req)
	})
}

func (c *Client) PersistSalesOrder(ctx context.Context, body any) (any, error) {
	call := c.begin(ctx, api.OperationPersistSalesOrder, map[string]any{})
	var req api.PersistSalesOrderRequest
	if inputErr := decodeBody(body, &req); inputErr != nil {
		return call.fail(OutcomeInputError, inputErr)
	}
	call.fields["sales_order_key"] = req.SalesOrder.SalesOrderKey
	return run(call, func(ctx context.Context) (*api.ResponseValue[api.OperationResponse], error) {
		return c.api.PersistSalesOrder(ctx, req)
	})
}

func (c *Client) VoidSalesOrder(ctx context.Context, salesOrderKey string) (any, error) {
	call := c.begin(ctx, api.OperationVoidSalesOrder, map[string]any{"sales_order_key": salesOrderKey})
	key, inputErr := requireIdentifier("sales_order_key", salesOrderKey)
	if inputErr != nil {
		return call.fail(OutcomeInputError, inputErr)
	}
	return run(call, func(ctx context.Context) (*api.ResponseValue[api.OperationResponse], error) {
		return c.api.VoidSalesOrder(ctx, key)
	})
}

func (c *Client) UpsertProduct(ctx context.Context, body any) (any, error) {
	call := c.begin(ctx, api.OperationUpsertProduct, map[string]any{})
	var req api.UpsertProductRequest
	if inputErr := decodeBody(body, &req); inputErr != nil {
		return call.fail(OutcomeInputError, inputErr)
	}
	call.fields["product_key"] = req.Product.ProductKey
	return run(call, func(ctx context.Context) (*api.ResponseValue[api.ProductResponse], error) {
		return c.api.UpsertProduct(ctx, req)
	})
}

func (c *Client) GetProduct(ctx context.Context, productKey string) (any, error) {
	call := c.begin(ctx, api.OperationGetProduct, map[string]any{"product_key": productKey})
	key, inputErr := requireIdentifier("product_key", productKey)
	if inputErr != nil {
		return call.fail(OutcomeInputError, inputErr)
	}
	return run(call, func(ctx context.Context) (*api.ResponseValue[api.ProductResponse], error) {
		return c.api.GetProduct(ctx, key)
	})
}

func (c *Client) UpsertBrand(ctx context.Context, body any) (any, error) {
	call := c.begin(ctx, api.OperationUpsertBrand, map[string]any{})
	var req api.UpsertBrandRequest
	if inputErr := decodeBody(body, &req); inputErr != nil {
		return call.fail(OutcomeInputError, inputErr)
	}
	call.fields["brand_key"] = req.Brand.BrandKey
	return run(call, func(ctx context.Context) (*api.ResponseValue[api.BrandResponse], error) {
		return c.api.UpsertBrand(ctx, req)
	})
}
