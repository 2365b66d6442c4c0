package permission

import (
	"fmt"
	"sort"
)

// Action is an operation within a module that can be granted independently.
type Action string

const (
	// ActionView allows opening the module's pages and listing its data.
	ActionView Action = "view"
	// ActionCreate allows creating new records in the module.
	ActionCreate Action = "create"
	// ActionEdit allows changing existing records.
	ActionEdit Action = "edit"
	// ActionDelete allows deleting records.
	ActionDelete Action = "delete"
	// ActionLoad allows loading balance or exporting data (reports, balance top-ups).
	ActionLoad Action = "load"
	// ActionQuery allows running paid queries (mileage, VIN).
	ActionQuery Action = "query"
)

// Module is a functional area of the panel that permissions are scoped to.
type Module string

const (
	// ModulePanel is the landing dashboard.
	ModulePanel Module = "Panel"
	// ModuleCompanies manages companies.
	ModuleCompanies Module = "Firmalar"
	// ModuleDealers manages dealers.
	ModuleDealers Module = "Bayiler"
	// ModuleMileage covers mileage (odometer) query records.
	ModuleMileage Module = "Kilometre-Hacker"
	// ModuleVIN covers VIN query records.
	ModuleVIN Module = "VIN-Sorgu"
	// ModuleBalance manages dealer balances.
	ModuleBalance Module = "Bakiye-Yonetimi"
	// ModuleCommission manages commission rates.
	ModuleCommission Module = "Komisyon"
	// ModuleDeviceSales covers device sales.
	ModuleDeviceSales Module = "Cihaz-Satis"
	// ModuleUsers manages panel users.
	ModuleUsers Module = "Kullanicilar"
	// ModuleRoles manages roles and their permission sets.
	ModuleRoles Module = "Rol-Yonetimi"
	// ModuleBlog is the blog CMS.
	ModuleBlog Module = "Blog"
	// ModuleReports covers PDF and spreadsheet reports.
	ModuleReports Module = "Raporlar"
)

// ModuleSpec declares the actions a module supports.
type ModuleSpec struct {
	Module  Module
	Actions []Action
	// Legacy marks modules that existed before the permission system.
	// The Admin fallback set grants every action of these modules.
	Legacy bool
}

// Registry is the fixed module -> allowed actions table.
type Registry struct {
	specs   []ModuleSpec
	actions map[Module]map[Action]struct{}
}

// NewRegistry builds a registry from module specs. Duplicate modules panic,
// the registry is declared in code and a duplicate is a programming error.
func NewRegistry(specs ...ModuleSpec) *Registry {
	r := &Registry{
		specs:   make([]ModuleSpec, 0, len(specs)),
		actions: make(map[Module]map[Action]struct{}, len(specs)),
	}

	for _, spec := range specs {
		if _, dup := r.actions[spec.Module]; dup {
			panic(fmt.Sprintf("permission: module %q registered twice", spec.Module))
		}

		allowed := make(map[Action]struct{}, len(spec.Actions))
		for _, a := range spec.Actions {
			allowed[a] = struct{}{}
		}

		r.actions[spec.Module] = allowed
		r.specs = append(r.specs, spec)
	}

	return r
}

var crud = []Action{ActionView, ActionCreate, ActionEdit, ActionDelete}

// DefaultRegistry is the module table of the panel.
var DefaultRegistry = NewRegistry( //nolint:gochecknoglobals
	ModuleSpec{Module: ModulePanel, Actions: []Action{ActionView}, Legacy: true},
	ModuleSpec{Module: ModuleCompanies, Actions: crud, Legacy: true},
	ModuleSpec{Module: ModuleDealers, Actions: crud, Legacy: true},
	ModuleSpec{Module: ModuleMileage, Actions: []Action{ActionView, ActionCreate, ActionQuery}, Legacy: true},
	ModuleSpec{Module: ModuleVIN, Actions: []Action{ActionView, ActionQuery}},
	ModuleSpec{Module: ModuleBalance, Actions: []Action{ActionView, ActionLoad, ActionEdit}, Legacy: true},
	ModuleSpec{Module: ModuleCommission, Actions: []Action{ActionView, ActionEdit}},
	ModuleSpec{Module: ModuleDeviceSales, Actions: crud},
	ModuleSpec{Module: ModuleUsers, Actions: crud, Legacy: true},
	ModuleSpec{Module: ModuleRoles, Actions: crud},
	ModuleSpec{Module: ModuleBlog, Actions: crud},
	ModuleSpec{Module: ModuleReports, Actions: []Action{ActionView, ActionLoad}, Legacy: true},
)

// Modules returns the registered module specs in declaration order.
func (r *Registry) Modules() []ModuleSpec {
	out := make([]ModuleSpec, len(r.specs))
	copy(out, r.specs)

	return out
}

// Known reports whether the module is registered.
func (r *Registry) Known(m Module) bool {
	_, ok := r.actions[m]
	return ok
}

// Supports reports whether the module is registered and supports the action.
func (r *Registry) Supports(m Module, a Action) bool {
	allowed, ok := r.actions[m]
	if !ok {
		return false
	}

	_, ok = allowed[a]

	return ok
}

// CheckArgs validates a single module/action pair for a check call.
func (r *Registry) CheckArgs(m Module, a Action) error {
	if !r.Known(m) {
		return fmt.Errorf("%w: unknown module %q", ErrInvalidArgument, m)
	}

	if !r.Supports(m, a) {
		return fmt.Errorf("%w: module %q has no action %q", ErrInvalidArgument, m, a)
	}

	return nil
}

// Validate rejects any module or action key the registry does not know.
// Keys are reported in sorted order so the message is stable.
func (r *Registry) Validate(s Set) error {
	modules := make([]string, 0, len(s))
	for m := range s {
		modules = append(modules, string(m))
	}

	sort.Strings(modules)

	for _, name := range modules {
		m := Module(name)
		if !r.Known(m) {
			return fmt.Errorf("%w: unknown module %q", ErrValidation, m)
		}

		actions := make([]string, 0, len(s[m]))
		for a := range s[m] {
			actions = append(actions, string(a))
		}

		sort.Strings(actions)

		for _, a := range actions {
			if !r.Supports(m, Action(a)) {
				return fmt.Errorf("%w: module %q has no action %q", ErrValidation, m, a)
			}
		}
	}

	return nil
}

// Normalize returns a dense copy of s: every registered module and action is
// present, anything s does not grant is false. Unknown keys are dropped.
func (r *Registry) Normalize(s Set) Set {
	out := make(Set, len(r.specs))

	for _, spec := range r.specs {
		c := make(Capability, len(spec.Actions))
		for _, a := range spec.Actions {
			c[a] = s.Allows(spec.Module, a)
		}

		out[spec.Module] = c
	}

	return out
}

// Empty returns a dense set with every action denied.
func (r *Registry) Empty() Set {
	return r.fill(func(ModuleSpec) bool { return false })
}

// Full returns a dense set with every action granted.
func (r *Registry) Full() Set {
	return r.fill(func(ModuleSpec) bool { return true })
}

// LegacyAdmin returns the fallback set for an Admin role without stored permissions.
func (r *Registry) LegacyAdmin() Set {
	return r.fill(func(spec ModuleSpec) bool { return spec.Legacy })
}

func (r *Registry) fill(grant func(ModuleSpec) bool) Set {
	out := make(Set, len(r.specs))

	for _, spec := range r.specs {
		g := grant(spec)

		c := make(Capability, len(spec.Actions))
		for _, a := range spec.Actions {
			c[a] = g
		}

		out[spec.Module] = c
	}

	return out
}
