package catalog

import (
	"testing"

	"peony/internal/config"
	"peony/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCatalog() *Catalog {
	return New([]models.ServiceCategory{
		{
			ID:   "hand_gel",
			Name: "手部凝膠",
			Items: []models.ServiceItem{
				{ID: "h_pure", Name: "純色凝膠", Price: "$1200", PlainMaintenance: true},
				{ID: "h_cat", Name: "貓眼/特殊凝膠", Price: "$1300"},
			},
		},
	}, config.RemovalConfig{
		Options: []models.RemovalOption{
			{Detail: models.RemovalDetailOtherSalon, Label: "他店卸甲", Price: "$200"},
			{Detail: models.RemovalDetailMemberFree, Label: "會員客卸甲", Price: "$0"},
		},
		ExtensionPrice: "$200",
	})
}

func TestCatalogItem(t *testing.T) {
	cat := newTestCatalog()

	item, ok := cat.Item("h_pure")
	require.True(t, ok)
	assert.Equal(t, "純色凝膠", item.Name)

	_, ok = cat.Item("missing")
	assert.False(t, ok)
}

func TestCatalogAllowedOn(t *testing.T) {
	cat := newTestCatalog()
	plain, _ := cat.Item("h_pure")
	styled, _ := cat.Item("h_cat")

	assert.False(t, cat.AllowedOn(plain, models.TierRestrictedSurcharge))
	assert.True(t, cat.AllowedOn(styled, models.TierRestrictedSurcharge))
	assert.True(t, cat.AllowedOn(plain, models.TierSurchargeOnly))
	assert.True(t, cat.AllowedOn(plain, models.TierBookable))
}

func TestCatalogRestrictedBlockListFromDefaultConfig(t *testing.T) {
	cfg, err := config.Load("../../configs/config.yaml")
	require.NoError(t, err)
	cat := New(cfg.Catalog, cfg.Removal)

	// The salon refuses the whole solid-colour family during the
	// restricted-surcharge window, cat eye, french and mirror included.
	// The combo promo stays bookable.
	var blocked []string
	for _, category := range cat.Categories() {
		for _, item := range category.Items {
			if !cat.AllowedOn(item, models.TierRestrictedSurcharge) {
				blocked = append(blocked, item.ID)
			}
		}
	}
	assert.ElementsMatch(t, []string{"h_pure", "h_cat", "h_french", "h_grad", "h_mirror", "f_pure"}, blocked)

	combo, ok := cat.Item("promo_combo")
	require.True(t, ok)
	assert.True(t, cat.AllowedOn(combo, models.TierRestrictedSurcharge))
}

func TestCatalogRemoval(t *testing.T) {
	cat := newTestCatalog()

	opt, ok := cat.RemovalOption(models.RemovalDetailOtherSalon)
	require.True(t, ok)
	assert.Equal(t, "他店卸甲", opt.Label)

	_, ok = cat.RemovalOption(models.RemovalDetailThisSalon)
	assert.False(t, ok)

	assert.Len(t, cat.RemovalOptions(), 2)
	assert.Equal(t, "$200", cat.ExtensionPrice())
}

func TestCatalogCategories(t *testing.T) {
	cat := newTestCatalog()
	categories := cat.Categories()
	require.Len(t, categories, 1)
	assert.Equal(t, "hand_gel", categories[0].ID)
}
