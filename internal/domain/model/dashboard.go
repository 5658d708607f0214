package model

import "github.com/shopspring/decimal"

// Dashboard aggregates ledger and order figures for administrators.
type Dashboard struct {
	TotalUsers   int
	TotalBalance decimal.Decimal
	TotalRevenue decimal.Decimal
	TotalOrders  int
	Pending      int
	Served       int
	Stalls       map[string]StallStats
}

// StallStats summarises orders of one stall.
type StallStats struct {
	Name    string
	Revenue decimal.Decimal
	Orders  int
	Pending int
}
