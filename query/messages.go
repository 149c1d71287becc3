package query

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-shipcompliant/core"
)

const (
	TypeGetSalesOrder         = "shipcompliant.query.sales_order.get"
	TypeGetSalesOrderTracking = "shipcompliant.query.sales_order.tracking"
	TypeQuoteSalesTaxRate     = "shipcompliant.query.sales_tax.rate"
	TypeQuoteSalesTax         = "shipcompliant.query.sales_tax.quote"
	TypeCheckCompliance       = "shipcompliant.query.compliance.check"
	TypeGetProduct            = "shipcompliant.query.product.get"
	TypeListCallJournal       = "shipcompliant.query.call_journal.list"
)

const MaxJournalPageSize = 500

type GetSalesOrderMessage struct {
	SalesOrderKey string
}

func (GetSalesOrderMessage) Type() string { return TypeGetSalesOrder }

func (m GetSalesOrderMessage) Validate() error {
	return requireKey("sales_order_key", m.SalesOrderKey)
}

// GetSalesOrderTrackingMessage narrows tracking to ShipmentKeys when set.
type GetSalesOrderTrackingMessage struct {
	SalesOrderKey string
	ShipmentKeys  []string
}

func (GetSalesOrderTrackingMessage) Type() string { return TypeGetSalesOrderTracking }

func (m GetSalesOrderTrackingMessage) Validate() error {
	if err := requireKey("sales_order_key", m.SalesOrderKey); err != nil {
		return err
	}
	for index, key := range m.ShipmentKeys {
		if strings.TrimSpace(key) == "" {
			return queryValidationError(fmt.Sprintf("shipment_keys.%d", index), "shipment key must not be blank")
		}
	}
	return nil
}

type QuoteSalesTaxRateMessage struct {
	Input any
}

func (QuoteSalesTaxRateMessage) Type() string { return TypeQuoteSalesTaxRate }

func (m QuoteSalesTaxRateMessage) Validate() error {
	return requireInput(m.Input)
}

type QuoteSalesTaxMessage struct {
	Input any
}

func (QuoteSalesTaxMessage) Type() string { return TypeQuoteSalesTax }

func (m QuoteSalesTaxMessage) Validate() error {
	return requireInput(m.Input)
}

type CheckComplianceMessage struct {
	Input any
}

func (CheckComplianceMessage) Type() string { return TypeCheckCompliance }

func (m CheckComplianceMessage) Validate() error {
	return requireInput(m.Input)
}

type GetProductMessage struct {
	ProductKey string
}

func (GetProductMessage) Type() string { return TypeGetProduct }

func (m GetProductMessage) Validate() error {
	return requireKey("product_key", m.ProductKey)
}

type ListCallJournalMessage struct {
	Filter core.CallJournalFilter
}

func (ListCallJournalMessage) Type() string { return TypeListCallJournal }

func (m ListCallJournalMessage) Validate() error {
	if m.Filter.Limit < 0 {
		return queryValidationError("limit", "limit must be >= 0")
	}
	if m.Filter.Limit > MaxJournalPageSize {
		return queryValidationError("limit", fmt.Sprintf("limit must be <= %d", MaxJournalPageSize))
	}
	if m.Filter.Offset < 0 {
		return queryValidationError("offset", "offset must be >= 0")
	}
	return nil
}

func requireKey(field string, value string) error {
	if strings.TrimSpace(value) == "" {
		return queryValidationError(field, "value is required")
	}
	return nil
}

func requireInput(input any) error {
	if input == nil {
		return queryValidationError("input", "request body is required")
	}
	return nil
}
