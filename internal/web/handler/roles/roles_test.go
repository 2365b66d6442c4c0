package roles

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BayiPanel/BayiPanel/internal/config"
	"github.com/BayiPanel/BayiPanel/internal/db/models"
	"github.com/BayiPanel/BayiPanel/internal/permission"
	"github.com/BayiPanel/BayiPanel/internal/web/handler/handlertest"
)

const (
	roleManager = permission.Role("Yonetici")
	roleViewer  = permission.Role("Izleyici")
	roleDealer  = permission.Role("Bayi")
)

type fixture struct {
	env *handlertest.Env

	root, admin, manager, viewer, dealer *http.Cookie
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	env := handlertest.New(t, config.Permission{PreventSelfLockout: true})

	var s Service
	require.NoError(t, s.Init(env.App, env.Deps))

	f := &fixture{env: env}

	login := func(username string, r permission.Role) *http.Cookie {
		return env.LoginAs(t, env.AddUser(t, username, "pw", r), r)
	}

	f.root = login("root", permission.RoleSuperAdmin)
	f.admin = login("admin", permission.RoleAdmin)
	f.manager = login("manager", roleManager)
	f.viewer = login("viewer", roleViewer)
	f.dealer = login("dealer", roleDealer)

	env.SetPermissions(t, roleManager, permission.Set{
		permission.ModuleRoles: {
			permission.ActionView: true, permission.ActionCreate: true,
			permission.ActionEdit: true, permission.ActionDelete: true,
		},
	})
	env.SetPermissions(t, roleViewer, permission.Set{
		permission.ModuleRoles: {permission.ActionView: true},
	})
	env.SetPermissions(t, roleDealer, permission.Set{
		permission.ModuleMileage: {permission.ActionView: true, permission.ActionCreate: false, permission.ActionQuery: true},
	})

	return f
}

func (f *fixture) roleID(t *testing.T, name permission.Role) string {
	t.Helper()

	r, err := f.env.Store.GetRoleByName(context.Background(), name)
	require.NoError(t, err)

	return strconv.FormatUint(uint64(r.ID), 10)
}

func (f *fixture) resolved(t *testing.T, cookie *http.Cookie, role permission.Role) permission.Set {
	t.Helper()

	reply := f.env.Do(t, http.MethodGet, Path+"/rolekontrol?role="+url.QueryEscape(string(role)), nil, cookie)
	require.Equal(t, http.StatusOK, reply.Status, reply.Message)
	require.True(t, reply.Success)

	var set permission.Set
	reply.Decode(t, &set)

	return set
}

const deniedView = "Access denied: view permission on Rol-Yonetimi is required"

func TestResolved(t *testing.T) {
	f := newFixture(t)

	t.Run("own role", func(t *testing.T) {
		for _, role := range []permission.Role{"", roleDealer} {
			set := f.resolved(t, f.dealer, role)
			assert.True(t, set.Allows(permission.ModuleMileage, permission.ActionView))
			assert.True(t, set.Allows(permission.ModuleMileage, permission.ActionQuery))
			assert.False(t, set.Allows(permission.ModuleMileage, permission.ActionCreate))
			assert.False(t, set.Allows(permission.ModuleCompanies, permission.ActionView))

			// the resolved set is dense
			assert.Contains(t, set, permission.ModuleCompanies)
		}
	})

	t.Run("other role needs role view", func(t *testing.T) {
		reply := f.env.Do(t, http.MethodGet, Path+"/rolekontrol?role=Muhasebe", nil, f.dealer)
		assert.Equal(t, http.StatusForbidden, reply.Status)
		assert.False(t, reply.Success)
		assert.Equal(t, deniedView, reply.Message)

		set := f.resolved(t, f.viewer, roleDealer)
		assert.True(t, set.Allows(permission.ModuleMileage, permission.ActionView))
	})

	t.Run("role without stored set fails closed", func(t *testing.T) {
		_, err := f.env.Store.EnsureRole(context.Background(), "Muhasebe", "", false)
		require.NoError(t, err)

		set := f.resolved(t, f.viewer, "Muhasebe")
		assert.False(t, set.Allows(permission.ModuleCompanies, permission.ActionView))
	})

	t.Run("unknown role is not found", func(t *testing.T) {
		reply := f.env.Do(t, http.MethodGet, Path+"/rolekontrol?role=Muhasebeci", nil, f.viewer)
		assert.Equal(t, http.StatusNotFound, reply.Status)
		assert.False(t, reply.Success)
		assert.Equal(t, "role not found", reply.Message)

		reply = f.env.Do(t, http.MethodGet, Path+"/list-permissions?role=Muhasebeci", nil, f.viewer)
		assert.Equal(t, http.StatusNotFound, reply.Status)
	})

	t.Run("super admin gets everything", func(t *testing.T) {
		set := f.resolved(t, f.root, "")
		for _, spec := range permission.DefaultRegistry.Modules() {
			for _, a := range spec.Actions {
				assert.True(t, set.Allows(spec.Module, a), "%s %s", spec.Module, a)
			}
		}
	})

	t.Run("admin falls back to the legacy set", func(t *testing.T) {
		set := f.resolved(t, f.admin, "")
		assert.True(t, set.Allows(permission.ModuleCompanies, permission.ActionView))
		assert.False(t, set.Allows(permission.ModuleRoles, permission.ActionView))
	})

	t.Run("no session", func(t *testing.T) {
		reply := f.env.Do(t, http.MethodGet, Path+"/rolekontrol", nil, nil)
		assert.Equal(t, http.StatusUnauthorized, reply.Status)
	})
}

func TestListPermissions(t *testing.T) {
	f := newFixture(t)

	reply := f.env.Do(t, http.MethodGet, Path+"/list-permissions?role=Bayi", nil, f.dealer)
	assert.Equal(t, http.StatusForbidden, reply.Status)

	reply = f.env.Do(t, http.MethodGet, Path+"/list-permissions?role=Bayi", nil, f.viewer)
	require.Equal(t, http.StatusOK, reply.Status)

	var set permission.Set
	reply.Decode(t, &set)
	assert.True(t, set.Allows(permission.ModuleMileage, permission.ActionQuery))
}

func TestCheck(t *testing.T) {
	f := newFixture(t)

	testCases := []struct {
		name        string
		cookie      *http.Cookie
		query       string
		wantStatus  int
		wantAllowed bool
	}{
		{"granted", f.dealer, "module=Kilometre-Hacker&action=view", http.StatusOK, true},
		{"explicit false", f.dealer, "module=Kilometre-Hacker&action=create", http.StatusOK, false},
		{"missing module", f.dealer, "module=Firmalar&action=view", http.StatusOK, false},
		{"unknown module", f.dealer, "module=Muhasebe&action=view", http.StatusBadRequest, false},
		{"unsupported action", f.dealer, "module=Panel&action=delete", http.StatusBadRequest, false},
		{"other role without role view", f.dealer, "role=Izleyici&module=Rol-Yonetimi&action=view", http.StatusForbidden, false},
		{"other role with role view", f.viewer, "role=Bayi&module=Kilometre-Hacker&action=query", http.StatusOK, true},
		{"unknown role", f.viewer, "role=Ghost&module=Panel&action=view", http.StatusNotFound, false},
		{"super admin", f.root, "module=Blog&action=delete", http.StatusOK, true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			reply := f.env.Do(t, http.MethodGet, Path+"/check?"+tc.query, nil, tc.cookie)
			require.Equal(t, tc.wantStatus, reply.Status, reply.Message)

			if tc.wantStatus != http.StatusOK {
				assert.False(t, reply.Success)
				assert.NotEmpty(t, reply.Message)

				return
			}

			var out checkResult
			reply.Decode(t, &out)
			assert.Equal(t, tc.wantAllowed, out.Allowed)
		})
	}
}

func TestUpdatePermissions(t *testing.T) {
	f := newFixture(t)

	replacement := permission.Set{
		permission.ModuleVIN: {permission.ActionView: true},
	}

	reply := f.env.Do(t, http.MethodPost, Path+"/update-permissions",
		permissionsInput{Role: roleDealer, Permissions: replacement}, f.viewer)
	assert.Equal(t, http.StatusForbidden, reply.Status)
	assert.Equal(t, "Access denied: edit permission on Rol-Yonetimi is required", reply.Message)

	reply = f.env.Do(t, http.MethodPost, Path+"/update-permissions",
		permissionsInput{Role: roleDealer, Permissions: replacement}, f.manager)
	require.Equal(t, http.StatusOK, reply.Status, reply.Message)
	assert.True(t, reply.Success)
	assert.Equal(t, "Permissions updated", reply.Message)

	// the replacement is wholesale
	set := f.resolved(t, f.dealer, "")
	assert.True(t, set.Allows(permission.ModuleVIN, permission.ActionView))
	assert.False(t, set.Allows(permission.ModuleMileage, permission.ActionView))

	testCases := []struct {
		name       string
		body       any
		wantStatus int
	}{
		{"unknown module", permissionsInput{Role: roleDealer, Permissions: permission.Set{"Muhasebe": {permission.ActionView: true}}}, http.StatusBadRequest},
		{"unsupported action", permissionsInput{Role: roleDealer, Permissions: permission.Set{permission.ModuleVIN: {permission.ActionDelete: true}}}, http.StatusBadRequest},
		{"missing permissions", map[string]string{"role": "Bayi"}, http.StatusBadRequest},
		{"missing role", map[string]any{"permissions": map[string]any{}}, http.StatusBadRequest},
		{"non boolean value", []byte(`{"role":"Bayi","permissions":{"VIN-Sorgu":{"view":"yes"}}}`), http.StatusBadRequest},
		{"unknown role", permissionsInput{Role: "Ghost", Permissions: replacement}, http.StatusNotFound},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			reply := f.env.Do(t, http.MethodPost, Path+"/update-permissions", tc.body, f.manager)
			assert.Equal(t, tc.wantStatus, reply.Status, reply.Message)
			assert.False(t, reply.Success)

			// rejected writes leave the stored set untouched
			got := f.resolved(t, f.dealer, "")
			assert.True(t, got.Allows(permission.ModuleVIN, permission.ActionView))
			assert.False(t, got.Allows(permission.ModuleMileage, permission.ActionView))
		})
	}
}

func TestPatchPermissions(t *testing.T) {
	f := newFixture(t)

	reply := f.env.Do(t, http.MethodPatch, Path+"/update-permissions", permissionsInput{
		Role: roleDealer,
		Permissions: permission.Set{
			permission.ModuleMileage: {permission.ActionQuery: false},
			permission.ModuleVIN:     {permission.ActionView: true},
		},
	}, f.manager)
	require.Equal(t, http.StatusOK, reply.Status, reply.Message)

	var merged permission.Set
	reply.Decode(t, &merged)
	assert.True(t, merged.Allows(permission.ModuleMileage, permission.ActionView))
	assert.False(t, merged.Allows(permission.ModuleMileage, permission.ActionQuery))
	assert.True(t, merged.Allows(permission.ModuleVIN, permission.ActionView))

	assert.True(t, merged.Equal(f.resolved(t, f.dealer, "")))
}

func TestRoleAdministration(t *testing.T) {
	f := newFixture(t)

	reply := f.env.Do(t, http.MethodPost, Path, formInput{Name: "Muhasebe", Description: "accounting"}, f.manager)
	require.Equal(t, http.StatusCreated, reply.Status, reply.Message)

	var created models.Role
	reply.Decode(t, &created)
	assert.Equal(t, "Muhasebe", created.Name)
	assert.NotZero(t, created.ID)
	assert.False(t, created.IsSystem)

	t.Run("create is validated", func(t *testing.T) {
		testCases := []struct {
			name       string
			in         formInput
			cookie     *http.Cookie
			wantStatus int
		}{
			{"duplicate", formInput{Name: "Muhasebe"}, f.manager, http.StatusConflict},
			{"empty name", formInput{}, f.manager, http.StatusBadRequest},
			{"long name", formInput{Name: strings.Repeat("a", 101)}, f.manager, http.StatusBadRequest},
			{"long description", formInput{Name: "Destek", Description: strings.Repeat("a", 256)}, f.manager, http.StatusBadRequest},
			{"no create permission", formInput{Name: "Destek"}, f.viewer, http.StatusForbidden},
		}

		for _, tc := range testCases {
			t.Run(tc.name, func(t *testing.T) {
				reply := f.env.Do(t, http.MethodPost, Path, tc.in, tc.cookie)
				assert.Equal(t, tc.wantStatus, reply.Status, reply.Message)
				assert.False(t, reply.Success)
			})
		}
	})

	t.Run("list", func(t *testing.T) {
		reply := f.env.Do(t, http.MethodGet, Path, nil, f.viewer)
		require.Equal(t, http.StatusOK, reply.Status)

		var roles []models.Role
		reply.Decode(t, &roles)

		names := make([]string, 0, len(roles))
		for _, r := range roles {
			names = append(names, r.Name)
		}

		assert.Equal(t, []string{"Admin", "Bayi", "Izleyici", "Muhasebe", "Super Admin", "Yonetici"}, names)

		reply = f.env.Do(t, http.MethodGet, Path, nil, f.dealer)
		assert.Equal(t, http.StatusForbidden, reply.Status)
	})

	t.Run("delete", func(t *testing.T) {
		testCases := []struct {
			name       string
			id         string
			cookie     *http.Cookie
			wantStatus int
		}{
			{"no delete permission", f.roleID(t, "Muhasebe"), f.viewer, http.StatusForbidden},
			{"system role", f.roleID(t, permission.RoleAdmin), f.manager, http.StatusForbidden},
			{"super admin role", f.roleID(t, permission.RoleSuperAdmin), f.root, http.StatusForbidden},
			{"own role", f.roleID(t, roleManager), f.manager, http.StatusConflict},
			{"role in use", f.roleID(t, roleDealer), f.manager, http.StatusConflict},
			{"unknown id", "999", f.manager, http.StatusNotFound},
			{"bad id", "abc", f.manager, http.StatusBadRequest},
		}

		for _, tc := range testCases {
			t.Run(tc.name, func(t *testing.T) {
				reply := f.env.Do(t, http.MethodDelete, Path+"/"+tc.id, nil, tc.cookie)
				assert.Equal(t, tc.wantStatus, reply.Status, reply.Message)
				assert.False(t, reply.Success)
			})
		}

		reply := f.env.Do(t, http.MethodDelete, Path+"/"+f.roleID(t, "Muhasebe"), nil, f.manager)
		require.Equal(t, http.StatusOK, reply.Status, reply.Message)

		var deleted models.Role
		reply.Decode(t, &deleted)
		assert.Equal(t, "Muhasebe", deleted.Name)

		// other roles are untouched
		set := f.resolved(t, f.dealer, "")
		assert.True(t, set.Allows(permission.ModuleMileage, permission.ActionView))
	})
}

func TestStorageFailureFailsClosed(t *testing.T) {
	f := newFixture(t)

	sqlDB, err := f.env.DB.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	reply := f.env.Do(t, http.MethodGet, Path+"/rolekontrol", nil, f.dealer)
	assert.Equal(t, http.StatusServiceUnavailable, reply.Status)
	assert.False(t, reply.Success)
	assert.Empty(t, reply.Data)

	reply = f.env.Do(t, http.MethodGet, Path, nil, f.manager)
	assert.Equal(t, http.StatusServiceUnavailable, reply.Status)

	// super admin never touches storage
	reply = f.env.Do(t, http.MethodGet, Path+"/check?module=Blog&action=view", nil, f.root)
	assert.Equal(t, http.StatusOK, reply.Status)
}
