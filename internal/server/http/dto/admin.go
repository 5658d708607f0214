package dto

import (
	"time"

	"github.com/samber/lo"

	"github.com/polkiloo/foodcourt/internal/domain/model"
)

type AccountResponse struct {
	ID        int64     `json:"id"`
	UID       string    `json:"uid"`
	Username  string    `json:"username"`
	Balance   Money     `json:"balance"`
	Blocked   bool      `json:"blocked"`
	CreatedAt time.Time `json:"created_at"`
}

func NewAccountResponses(accounts []model.Account) []AccountResponse {
	return lo.Map(accounts, func(a model.Account, _ int) AccountResponse {
		return AccountResponse{
			ID:        a.ID,
			UID:       a.UID,
			Username:  a.Username,
			Balance:   NewMoney(a.Balance),
			Blocked:   a.Blocked,
			CreatedAt: a.CreatedAt,
		}
	})
}

type StallStatsResponse struct {
	Name    string `json:"name"`
	Revenue Money  `json:"revenue"`
	Orders  int    `json:"orders"`
	Pending int    `json:"pending"`
}

// DashboardResponse keeps the camelCase keys the admin console reads.
type DashboardResponse struct {
	TotalUsers   int                           `json:"totalUsers"`
	TotalBalance Money                         `json:"totalBalance"`
	TotalRevenue Money                         `json:"totalRevenue"`
	TotalOrders  int                           `json:"totalOrders"`
	Pending      int                           `json:"pending"`
	Served       int                           `json:"served"`
	Stalls       map[string]StallStatsResponse `json:"stalls"`
}

func NewDashboardResponse(d *model.Dashboard) DashboardResponse {
	return DashboardResponse{
		TotalUsers:   d.TotalUsers,
		TotalBalance: NewMoney(d.TotalBalance),
		TotalRevenue: NewMoney(d.TotalRevenue),
		TotalOrders:  d.TotalOrders,
		Pending:      d.Pending,
		Served:       d.Served,
		Stalls: lo.MapValues(d.Stalls, func(s model.StallStats, _ string) StallStatsResponse {
			return StallStatsResponse{Name: s.Name, Revenue: NewMoney(s.Revenue), Orders: s.Orders, Pending: s.Pending}
		}),
	}
}

// AdminActionRequest is the body of POST /admin.
type AdminActionRequest struct {
	Action   string `json:"action"`
	Username string `json:"username"`
	Amount   Money  `json:"amount"`
	NewPIN   string `json:"new_pin"`
}

// Command converts the request to a domain command.
func (r AdminActionRequest) Command() model.AdminCommand {
	return model.AdminCommand{
		Action:   model.AdminAction(r.Action),
		Username: r.Username,
		Amount:   r.Amount.Decimal,
		NewPIN:   r.NewPIN,
	}
}

type AdminActionResponse struct {
	OK         bool   `json:"ok"`
	NewBalance *Money `json:"new_balance,omitempty"`
}

type HealthResponse struct {
	Status string `json:"status"`
}
