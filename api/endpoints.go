package api

import (
	"context"
	"net/http"
	"net/url"
)

const (
	OperationGetSalesOrder         = "get_sales_order"
	OperationGetSalesOrderTracking = "get_sales_order_tracking"
	OperationQuoteSalesTaxRate     = "get_sales_tax_rates_by_address"
	OperationQuoteSalesTax         = "calculate_sales_tax_due_for_order"
	OperationCheckCompliance       = "check_compliance"
	OperationCommitSalesOrder      = "commit_sales_order"
	OperationPersistSalesOrder     = "persist_sales_order"
	OperationVoidSalesOrder        = "void_sales_order"
	OperationUpsertProduct         = "add_update_product"
	OperationGetProduct            = "get_product"
	OperationUpsertBrand           = "add_update_brand"
)

// Operations lists every endpoint name in a stable order.
func Operations() []string {
	return []string{
		OperationGetSalesOrder,
		OperationGetSalesOrderTracking,
		OperationQuoteSalesTaxRate,
		OperationQuoteSalesTax,
		OperationCheckCompliance,
		OperationCommitSalesOrder,
		OperationPersistSalesOrder,
		OperationVoidSalesOrder,
		OperationUpsertProduct,
		OperationGetProduct,
		OperationUpsertBrand,
	}
}

var createdOrOK = []int{http.StatusOK, http.StatusCreated}

func (c *Client) GetSalesOrder(ctx context.Context, salesOrderKey string) (*ResponseValue[SalesOrderResponse], error) {
	return send[SalesOrderResponse](ctx, c, endpoint{
		name:   OperationGetSalesOrder,
		method: http.MethodGet,
		path:   keyPath("/SalesOrders/%s", salesOrderKey),
	})
}

// GetSalesOrderTracking sends one shipmentKey query parameter per key. A nil
// slice asks for every shipment.
func (c *Client) GetSalesOrderTracking(ctx context.Context, salesOrderKey string, shipmentKeys []string) (*ResponseValue[TrackingResponse], error) {
	var query url.Values
	if len(shipmentKeys) > 0 {
		query = url.Values{"shipmentKey": shipmentKeys}
	}
	return send[TrackingResponse](ctx, c, endpoint{
		name:   OperationGetSalesOrderTracking,
		method: http.MethodGet,
		path:   keyPath("/SalesOrders/%s/Tracking", salesOrderKey),
		query:  query,
	})
}

func (c *Client) QuoteSalesTaxRate(ctx context.Context, req QuoteSalesTaxRateRequest) (*ResponseValue[SalesTaxRateResponse], error) {
	return send[SalesTaxRateResponse](ctx, c, endpoint{
		name:   OperationQuoteSalesTaxRate,
		method: http.MethodPost,
		path:   "/SalesOrders/QuoteSalesTaxRate",
		body:   req,
	})
}

func (c *Client) QuoteSalesTax(ctx context.Context, req QuoteSalesTaxRequest) (*ResponseValue[SalesTaxQuoteResponse], error) {
	return send[SalesTaxQuoteResponse](ctx, c, endpoint{
		name:   OperationQuoteSalesTax,
		method: http.MethodPost,
		path:   "/SalesOrders/QuoteSalesTax",
		body:   req,
	})
}

func (c *Client) CheckCompliance(ctx context.Context, req CheckComplianceRequest) (*ResponseValue[ComplianceResponse], error) {
	return send[ComplianceResponse](ctx, c, endpoint{
		name:   OperationCheckCompliance,
		method: http.MethodPost,
		path:   "/SalesOrders/CheckCompliance",
		body:   req,
	})
}

func (c *Client) CommitSalesOrder(ctx context.Context, req CommitSalesOrderRequest) (*ResponseValue[OperationResponse], error) {
	return send[OperationResponse](ctx, c, endpoint{
		name:    OperationCommitSalesOrder,
		method:  http.MethodPost,
		path:    "/SalesOrders/Commit",
		body:    req,
		success: createdOrOK,
	})
}

func (c *Client) PersistSalesOrder(ctx context.Context, req PersistSalesOrderRequest) (*ResponseValue[OperationResponse], error) {
	return send[OperationResponse](ctx, c, endpoint{
		name:    OperationPersistSalesOrder,
		method:  http.MethodPost,
		path:    "/SalesOrders/Persist",
		body:    req,
		success: createdOrOK,
	})
}

func (c *Client) VoidSalesOrder(ctx context.Context, salesOrderKey string) (*ResponseValue[OperationResponse], error) {
	return send[OperationResponse](ctx, c, endpoint{
		name:   OperationVoidSalesOrder,
		method: http.MethodPost,
		path:   keyPath("/SalesOrders/%s/Void", salesOrderKey),
	})
}

func (c *Client) UpsertProduct(ctx context.Context, req UpsertProductRequest) (*ResponseValue[ProductResponse], error) {
	return send[ProductResponse](ctx, c, endpoint{
		name:    OperationUpsertProduct,
		method:  http.MethodPost,
		path:    "/Products",
		body:    req,
		success: createdOrOK,
	})
}

func (c *Client) GetProduct(ctx context.Context, productKey string) (*ResponseValue[ProductResponse], error) {
	return send[ProductResponse](ctx, c, endpoint{
		name:   OperationGetProduct,
		method: http.MethodGet,
		path:   keyPath("/Products/%s", productKey),
	})
}

func (c *Client) UpsertBrand(ctx context.Context, req UpsertBrandRequest) (*ResponseValue[BrandResponse], error) {
	return send[BrandResponse](ctx, c, endpoint{
		name:    OperationUpsertBrand,
		method:  http.MethodPost,
		path:    "/Brands",
		body:    req,
		success: createdOrOK,
	})
}
