package query

import (
	"context"

	"github.com/goliatone/go-shipcompliant/core"
)

// ReadingService is the read side of the ShipCompliant façade. Quotes and
// compliance checks are POSTs upstream but do not change remote state.
type ReadingService interface {
	GetSalesOrder(ctx context.Context, salesOrderKey string) (any, error)
	GetSalesOrderTracking(ctx context.Context, salesOrderKey string, shipmentKeys any) (any, error)
	QuoteSalesTaxRate(ctx context.Context, body any) (any, error)
	QuoteSalesTax(ctx context.Context, body any) (any, error)
	CheckCompliance(ctx context.Context, body any) (any, error)
	GetProduct(ctx context.Context, productKey string) (any, error)
}

type GetSalesOrderQuery struct {
	service ReadingService
}

func NewGetSalesOrderQuery(service ReadingService) *GetSalesOrderQuery {
	return &GetSalesOrderQuery{service: service}
}

func (q *GetSalesOrderQuery) Query(ctx context.Context, msg GetSalesOrderMessage) (any, error) {
	if q == nil || q.service == nil {
		return nil, queryDependencyError("query: sales order service is required")
	}
	return q.service.GetSalesOrder(ctx, msg.SalesOrderKey)
}

type GetSalesOrderTrackingQuery struct {
	service ReadingService
}

func NewGetSalesOrderTrackingQuery(service ReadingService) *GetSalesOrderTrackingQuery {
	return &GetSalesOrderTrackingQuery{service: service}
}

func (q *GetSalesOrderTrackingQuery) Query(ctx context.Context, msg GetSalesOrderTrackingMessage) (any, error) {
	if q == nil || q.service == nil {
		return nil, queryDependencyError("query: tracking service is required")
	}
	var shipmentKeys any
	if len(msg.ShipmentKeys) > 0 {
		shipmentKeys = msg.ShipmentKeys
	}
	return q.service.GetSalesOrderTracking(ctx, msg.SalesOrderKey, shipmentKeys)
}

type QuoteSalesTaxRateQuery struct {
	service ReadingService
}

func NewQuoteSalesTaxRateQuery(service ReadingService) *QuoteSalesTaxRateQuery {
	return &QuoteSalesTaxRateQuery{service: service}
}

func (q *QuoteSalesTaxRateQuery) Query(ctx context.Context, msg QuoteSalesTaxRateMessage) (any, error) {
	if q == nil || q.service == nil {
		return nil, queryDependencyError("query: sales tax service is required")
	}
	return q.service.QuoteSalesTaxRate(ctx, msg.Input)
}

type QuoteSalesTaxQuery struct {
	service ReadingService
}

func NewQuoteSalesTaxQuery(service ReadingService) *QuoteSalesTaxQuery {
	return &QuoteSalesTaxQuery{service: service}
}

func (q *QuoteSalesTaxQuery) Query(ctx context.Context, msg QuoteSalesTaxMessage) (any, error) {
	if q == nil || q.service == nil {
		return nil, queryDependencyError("query: sales tax service is required")
	}
	return q.service.QuoteSalesTax(ctx, msg.Input)
}

type CheckComplianceQuery struct {
	service ReadingService
}

func NewCheckComplianceQuery(service ReadingService) *CheckComplianceQuery {
	return &CheckComplianceQuery{service: service}
}

func (q *CheckComplianceQuery) Query(ctx context.Context, msg CheckComplianceMessage) (any, error) {
	if q == nil || q.service == nil {
		return nil, queryDependencyError("query: compliance service is required")
	}
	return q.service.CheckCompliance(ctx, msg.Input)
}

type GetProductQuery struct {
	service ReadingService
}

func NewGetProductQuery(service ReadingService) *GetProductQuery {
	return &GetProductQuery{service: service}
}

func (q *GetProductQuery) Query(ctx context.Context, msg GetProductMessage) (any, error) {
	if q == nil || q.service == nil {
		return nil, queryDependencyError("query: product service is required")
	}
	return q.service.GetProduct(ctx, msg.ProductKey)
}

type ListCallJournalQuery struct {
	reader core.CallJournalReader
}

func NewListCallJournalQuery(reader core.CallJournalReader) *ListCallJournalQuery {
	return &ListCallJournalQuery{reader: reader}
}

func (q *ListCallJournalQuery) Query(ctx context.Context, msg ListCallJournalMessage) (core.CallJournalPage, error) {
	if q == nil || q.reader == nil {
		return core.CallJournalPage{}, queryDependencyError("query: call journal reader is required")
	}
	return q.reader.List(ctx, msg.Filter)
}
