// Package catalog indexes the static service menu and removal options
// supplied by configuration. The engine never produces this data, it only
// validates selections against it.
package catalog

import (
	"peony/internal/config"
	"peony/internal/models"
)

type Catalog struct {
	categories []models.ServiceCategory
	items      map[string]models.ServiceItem
	removal    []models.RemovalOption
	extension  string
}

func New(categories []models.ServiceCategory, removal config.RemovalConfig) *Catalog {
	items := make(map[string]models.ServiceItem)
	for _, cat := range categories {
		for _, item := range cat.Items {
			items[item.ID] = item
		}
	}
	return &Catalog{
		categories: categories,
		items:      items,
		removal:    removal.Options,
		extension:  removal.ExtensionPrice,
	}
}

// Categories returns the menu in configured order.
func (c *Catalog) Categories() []models.ServiceCategory {
	return c.categories
}

// Item looks a service up by ID.
func (c *Catalog) Item(id string) (models.ServiceItem, bool) {
	item, ok := c.items[id]
	return item, ok
}

// AllowedOn reports whether the service may be booked on the given tier.
// Restricted-surcharge dates refuse plain/maintenance work.
func (c *Catalog) AllowedOn(item models.ServiceItem, tier models.Tier) bool {
	if tier == models.TierRestrictedSurcharge && item.PlainMaintenance {
		return false
	}
	return true
}

// RemovalOption resolves the display label and price for one detail choice.
func (c *Catalog) RemovalOption(detail models.RemovalDetail) (models.RemovalOption, bool) {
	for _, opt := range c.removal {
		if opt.Detail == detail {
			return opt, true
		}
	}
	return models.RemovalOption{}, false
}

// RemovalOptions lists the detail choices in configured order.
func (c *Catalog) RemovalOptions() []models.RemovalOption {
	return c.removal
}

// ExtensionPrice is the flat price annotation for extension removal.
func (c *Catalog) ExtensionPrice() string {
	return c.extension
}
