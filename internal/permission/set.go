package permission

// Capability maps the actions of one module to granted or not.
type Capability map[Action]bool

// Set maps modules to their capabilities for one role.
type Set map[Module]Capability

// Allows reports whether the set grants action on module.
// Missing modules and missing actions are denied.
func (s Set) Allows(m Module, a Action) bool {
	c, ok := s[m]
	if !ok {
		return false
	}

	return c[a]
}

// Clone returns a deep copy. A nil set clones to an empty, non-nil set.
func (s Set) Clone() Set {
	out := make(Set, len(s))

	for m, c := range s {
		cc := make(Capability, len(c))
		for a, v := range c {
			cc[a] = v
		}

		out[m] = cc
	}

	return out
}

// Merge returns a copy of s with every key of patch applied on top.
// Keys absent from patch keep their value from s.
func (s Set) Merge(patch Set) Set {
	out := s.Clone()

	for m, c := range patch {
		dst, ok := out[m]
		if !ok {
			dst = make(Capability, len(c))
			out[m] = dst
		}

		for a, v := range c {
			dst[a] = v
		}
	}

	return out
}

// Equal reports whether both sets hold exactly the same keys and values.
func (s Set) Equal(other Set) bool {
	if len(s) != len(other) {
		return false
	}

	for m, c := range s {
		oc, ok := other[m]
		if !ok || len(c) != len(oc) {
			return false
		}

		for a, v := range c {
			ov, ok := oc[a]
			if !ok || ov != v {
				return false
			}
		}
	}

	return true
}
