package command

import "strings"

const (
	TypeCommitSalesOrder  = "shipcompliant.command.sales_order.commit"
	TypePersistSalesOrder = "shipcompliant.command.sales_order.persist"
	TypeVoidSalesOrder    = "shipcompliant.command.sales_order.void"
	TypeUpsertProduct     = "shipcompliant.command.product.upsert"
	TypeUpsertBrand       = "shipcompliant.command.brand.upsert"
)

// CommitSalesOrderMessage carries a snake_case mapping or an
// api.CommitSalesOrderRequest.
type CommitSalesOrderMessage struct {
	Input any
}

func (CommitSalesOrderMessage) Type() string { return TypeCommitSalesOrder }

func (m CommitSalesOrderMessage) Validate() error {
	return requireInput("input", m.Input)
}

type PersistSalesOrderMessage struct {
	Input any
}

func (PersistSalesOrderMessage) Type() string { return TypePersistSalesOrder }

func (m PersistSalesOrderMessage) Validate() error {
	return requireInput("input", m.Input)
}

type VoidSalesOrderMessage struct {
	SalesOrderKey string
}

func (VoidSalesOrderMessage) Type() string { return TypeVoidSalesOrder }

func (m VoidSalesOrderMessage) Validate() error {
	if strings.TrimSpace(m.SalesOrderKey) == "" {
		return commandValidationError("sales_order_key", "sales order key is required")
	}
	return nil
}

type UpsertProductMessage struct {
	Input any
}

func (UpsertProductMessage) Type() string { return TypeUpsertProduct }

func (m UpsertProductMessage) Validate() error {
	return requireInput("input", m.Input)
}

type UpsertBrandMessage struct {
	Input any
}

func (UpsertBrandMessage) Type() string { return TypeUpsertBrand }

func (m UpsertBrandMessage) Validate() error {
	return requireInput("input", m.Input)
}

func requireInput(field string, input any) error {
	if input == nil {
		return commandValidationError(field, "request body is required")
	}
	return nil
}
