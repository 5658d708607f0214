package model

import "github.com/shopspring/decimal"

// Stall is a vendor with its own menu and owner PIN.
type Stall struct {
	StallID string
	Name    string
	PINHash string
	Menu    []MenuItem
}

// MenuItem is a priced dish offered by a stall.
type MenuItem struct {
	ID    int64
	Name  string
	Price decimal.Decimal
}

// Item returns the menu item with the given id.
func (s *Stall) Item(id int64) (MenuItem, bool) {
	for _, item := range s.Menu {
		if item.ID == id {
			return item, true
		}
	}
	return MenuItem{}, false
}

// StallSeed describes a stall definition applied by the seeding command.
type StallSeed struct {
	StallID string
	Name    string
	PIN     string
	Menu    []MenuItemSeed
}

// MenuItemSeed is a menu entry inside StallSeed.
type MenuItemSeed struct {
	Name  string
	Price decimal.Decimal
}
