package query

import (
	gocmd "github.com/goliatone/go-command"

	"github.com/goliatone/go-shipcompliant/core"
)

var (
	_ gocmd.Querier[GetSalesOrderMessage, any]                    = (*GetSalesOrderQuery)(nil)
	_ gocmd.Querier[GetSalesOrderTrackingMessage, any]            = (*GetSalesOrderTrackingQuery)(nil)
	_ gocmd.Querier[QuoteSalesTaxRateMessage, any]                = (*QuoteSalesTaxRateQuery)(nil)
	_ gocmd.Querier[QuoteSalesTaxMessage, any]                    = (*QuoteSalesTaxQuery)(nil)
	_ gocmd.Querier[CheckComplianceMessage, any]                  = (*CheckComplianceQuery)(nil)
	_ gocmd.Querier[GetProductMessage, any]                       = (*GetProductQuery)(nil)
	_ gocmd.Querier[ListCallJournalMessage, core.CallJournalPage] = (*ListCallJournalQuery)(nil)

	_ ReadingService = (*core.Client)(nil)
)
