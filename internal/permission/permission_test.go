package permission

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSet_Allows(t *testing.T) {
	s := Set{
		ModuleMileage: {ActionView: true, ActionCreate: false, ActionQuery: true},
	}

	testCases := []struct {
		name   string
		module Module
		action Action
		want   bool
	}{
		{"granted action", ModuleMileage, ActionView, true},
		{"explicitly denied action", ModuleMileage, ActionCreate, false},
		{"missing action", ModuleMileage, ActionDelete, false},
		{"missing module", ModuleCompanies, ActionView, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, s.Allows(tc.module, tc.action))
		})
	}

	var nilSet Set
	assert.False(t, nilSet.Allows(ModulePanel, ActionView))
}

func TestSet_MergeDoesNotTouchReceiver(t *testing.T) {
	base := Set{ModuleBlog: {ActionView: true, ActionEdit: true}}
	patch := Set{
		ModuleBlog:    {ActionEdit: false},
		ModuleReports: {ActionView: true},
	}

	merged := base.Merge(patch)

	assert.True(t, merged.Allows(ModuleBlog, ActionView))
	assert.False(t, merged.Allows(ModuleBlog, ActionEdit))
	assert.True(t, merged.Allows(ModuleReports, ActionView))

	assert.True(t, base.Allows(ModuleBlog, ActionEdit), "receiver must be unchanged")
	assert.NotContains(t, base, ModuleReports)
}

func TestSet_Equal(t *testing.T) {
	a := Set{ModuleVIN: {ActionView: true}}

	assert.True(t, a.Equal(a.Clone()))
	assert.False(t, a.Equal(Set{ModuleVIN: {ActionView: false}}))
	assert.False(t, a.Equal(Set{ModuleVIN: {ActionView: true, ActionQuery: false}}))
	assert.False(t, a.Equal(Set{}))
	assert.True(t, Set{}.Equal(Set(nil)))
}

func TestRegistry_Validate(t *testing.T) {
	testCases := []struct {
		name    string
		set     Set
		wantErr bool
	}{
		{"empty set", Set{}, false},
		{"valid actions", Set{ModuleCompanies: {ActionView: true, ActionDelete: false}}, false},
		{"panel only supports view", Set{ModulePanel: {ActionEdit: true}}, true},
		{"unknown module", Set{"UnknownModule": {ActionView: true}}, true},
		{"unknown action", Set{ModuleBlog: {"publish": true}}, true},
		{"denied unknown action is still rejected", Set{ModuleBlog: {"publish": false}}, true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := DefaultRegistry.Validate(tc.set)
			if tc.wantErr {
				require.ErrorIs(t, err, ErrValidation)
				return
			}

			require.NoError(t, err)
		})
	}
}

func TestRegistry_CheckArgs(t *testing.T) {
	require.NoError(t, DefaultRegistry.CheckArgs(ModuleMileage, ActionQuery))
	require.ErrorIs(t, DefaultRegistry.CheckArgs("Nope", ActionView), ErrInvalidArgument)
	require.ErrorIs(t, DefaultRegistry.CheckArgs(ModulePanel, ActionDelete), ErrInvalidArgument)
}

func TestRegistry_NormalizeIsDense(t *testing.T) {
	normalized := DefaultRegistry.Normalize(Set{
		ModuleMileage: {ActionView: true},
		"Stale":       {ActionView: true},
	})

	for _, spec := range DefaultRegistry.Modules() {
		c, ok := normalized[spec.Module]
		require.True(t, ok, "module %s missing", spec.Module)
		assert.Len(t, c, len(spec.Actions))
	}

	assert.NotContains(t, normalized, Module("Stale"))
	assert.True(t, normalized.Allows(ModuleMileage, ActionView))
	assert.False(t, normalized.Allows(ModuleMileage, ActionQuery))
}

func TestRegistry_FullEmptyLegacy(t *testing.T) {
	full := DefaultRegistry.Full()
	empty := DefaultRegistry.Empty()
	legacy := DefaultRegistry.LegacyAdmin()

	for _, spec := range DefaultRegistry.Modules() {
		for _, a := range spec.Actions {
			assert.True(t, full.Allows(spec.Module, a))
			assert.False(t, empty.Allows(spec.Module, a))
			assert.Equal(t, spec.Legacy, legacy.Allows(spec.Module, a), "%s.%s", spec.Module, a)
		}
	}

	assert.True(t, legacy.Allows(ModuleCompanies, ActionDelete))
	assert.False(t, legacy.Allows(ModuleRoles, ActionView))
}

func TestNewRegistry_DuplicatePanics(t *testing.T) {
	assert.Panics(t, func() {
		NewRegistry(
			ModuleSpec{Module: ModulePanel, Actions: []Action{ActionView}},
			ModuleSpec{Module: ModulePanel, Actions: []Action{ActionView}},
		)
	})
}

func TestPolicy(t *testing.T) {
	strict := Policy{}
	promoted := Policy{AdminIsSuperAdmin: true}

	assert.True(t, strict.IsSuperAdmin(RoleSuperAdmin))
	assert.False(t, strict.IsSuperAdmin(RoleAdmin))
	assert.True(t, strict.IsLegacyAdmin(RoleAdmin))
	assert.False(t, strict.IsLegacyAdmin("Bayi"))

	assert.True(t, promoted.IsSuperAdmin(RoleAdmin))
	assert.False(t, promoted.IsLegacyAdmin(RoleAdmin))

	assert.True(t, strict.Fallback(DefaultRegistry, RoleAdmin).Equal(DefaultRegistry.LegacyAdmin()))
	assert.True(t, strict.Fallback(DefaultRegistry, "Muhasebe").Equal(DefaultRegistry.Empty()))
	assert.True(t, promoted.Fallback(DefaultRegistry, RoleAdmin).Equal(DefaultRegistry.Full()))

	assert.True(t, IsBuiltIn(RoleAdmin))
	assert.False(t, IsBuiltIn("Bayi"))
}
