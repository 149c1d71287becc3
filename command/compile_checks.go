package command

import (
	gocmd "github.com/goliatone/go-command"

	"github.com/goliatone/go-shipcompliant/core"
)

var (
	_ gocmd.Commander[CommitSalesOrderMessage]  = (*CommitSalesOrderCommand)(nil)
	_ gocmd.Commander[PersistSalesOrderMessage] = (*PersistSalesOrderCommand)(nil)
	_ gocmd.Commander[VoidSalesOrderMessage]    = (*VoidSalesOrderCommand)(nil)
	_ gocmd.Commander[UpsertProductMessage]     = (*UpsertProductCommand)(nil)
	_ gocmd.Commander[UpsertBrandMessage]       = (*UpsertBrandCommand)(nil)

	_ MutatingService = (*core.Client)(nil)
)
