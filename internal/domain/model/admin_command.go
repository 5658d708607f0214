package model

import "github.com/shopspring/decimal"

// AdminAction names a mutation an operator can apply to an account.
type AdminAction string

const (
	ActionTopUp      AdminAction = "topup"
	ActionSetBalance AdminAction = "set_balance"
	ActionZero       AdminAction = "zero"
	ActionBlock      AdminAction = "block"
	ActionUnblock    AdminAction = "unblock"
)

// AdminCommand is an operator request against one account.
type AdminCommand struct {
	Action   AdminAction
	Username string
	Amount   decimal.Decimal
	NewPIN   string
}

// AdminResult reports the outcome of a command. NewBalance is set for ledger actions.
type AdminResult struct {
	NewBalance *decimal.Decimal
}
