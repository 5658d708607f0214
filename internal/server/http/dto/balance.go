package dto

// BalanceResponse reports the customer's current balance.
type BalanceResponse struct {
	Balance Money `json:"balance"`
}
