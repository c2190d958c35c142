package models

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPermissionsForRole(t *testing.T) {
	tests := []struct {
		role      string
		canEdit   bool
		canDelete bool
		canInvite bool
	}{
		{RolePrincipal, true, true, true},
		{RoleCoPrincipal, true, false, true},
		{RolePartner, true, false, false},
		{RoleMember, true, false, false},
		{RoleObserver, false, false, false},
		{"unknown", false, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.role, func(t *testing.T) {
			edit, del, invite := PermissionsForRole(tt.role)
			require.Equal(t, tt.canEdit, edit)
			require.Equal(t, tt.canDelete, del)
			require.Equal(t, tt.canInvite, invite)
		})
	}
}

func TestValidFamilyRole(t *testing.T) {
	require.True(t, ValidFamilyRole(RolePrincipal))
	require.True(t, ValidFamilyRole(RoleObserver))
	require.False(t, ValidFamilyRole("admin"))
	require.False(t, ValidFamilyRole(""))
}

func TestPriceAlertCrossed(t *testing.T) {
	above := PriceAlert{Condition: AlertConditionAbove, TargetPrice: 100}
	require.True(t, above.Crossed(100))
	require.True(t, above.Crossed(150))
	require.False(t, above.Crossed(99.99))

	below := PriceAlert{Condition: AlertConditionBelow, TargetPrice: 100}
	require.True(t, below.Crossed(100))
	require.True(t, below.Crossed(50))
	require.False(t, below.Crossed(100.01))

	require.False(t, PriceAlert{Condition: "sideways", TargetPrice: 100}.Crossed(100))
}
