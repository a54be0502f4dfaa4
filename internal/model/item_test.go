package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCodePrefix(t *testing.T) {
	assert.Equal(t, "CNS", CodePrefix(ItemTypeConsumable))
	assert.Equal(t, "RAW", CodePrefix(ItemTypeRawMaterial))
	assert.Equal(t, "MAT", CodePrefix(ItemTypeMaterial))
	assert.Equal(t, "ITM", CodePrefix("anything-else"))
}

func TestValidItemType(t *testing.T) {
	for _, valid := range []string{ItemTypeConsumable, ItemTypeRawMaterial, ItemTypeMaterial} {
		assert.True(t, ValidItemType(valid), valid)
	}
	assert.False(t, ValidItemType(""))
	assert.False(t, ValidItemType("Consumable"), "types are case sensitive")
}

func TestAuthUserCanManageInventory(t *testing.T) {
	assert.True(t, AuthUser{Role: RoleSuperadmin}.CanManageInventory())
	assert.True(t, AuthUser{Role: RoleAdmin}.CanManageInventory())
	assert.False(t, AuthUser{Role: RoleUser}.CanManageInventory())
}
