package dto

import (
	"github.com/samber/lo"

	"github.com/polkiloo/foodcourt/internal/domain/model"
)

type MenuItemResponse struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Price Money  `json:"price"`
}

type StallResponse struct {
	StallID   string             `json:"stall_id"`
	Name      string             `json:"name"`
	MenuItems []MenuItemResponse `json:"menu_items"`
}

// NewStallResponses maps stalls with their menus; PIN hashes never leave the server.
func NewStallResponses(stalls []model.Stall) []StallResponse {
	return lo.Map(stalls, func(s model.Stall, _ int) StallResponse {
		return StallResponse{
			StallID: s.StallID,
			Name:    s.Name,
			MenuItems: lo.Map(s.Menu, func(item model.MenuItem, _ int) MenuItemResponse {
				return MenuItemResponse{ID: item.ID, Name: item.Name, Price: NewMoney(item.Price)}
			}),
		}
	})
}
