package normal

// FD is a functional dependency LHS → RHS local to one relation.
type FD struct {
	LHS AttrSet
	RHS AttrSet
}

func (fd FD) String() string {
	return fd.LHS.String() + " → " + fd.RHS.String()
}

// Closure returns the attribute closure of attrs under fds: the fixpoint
// reached by repeatedly adding the RHS of every FD whose LHS is already
// contained. The result always contains attrs.
func Closure(attrs AttrSet, fds []FD) AttrSet {
	closure := NewAttrSet(attrs...)

	changed := true
	for changed {
		changed = false
		for _, fd := range fds {
			if fd.LHS.IsSubsetOf(closure) && !fd.RHS.IsSubsetOf(closure) {
				closure = closure.Union(fd.RHS)
				changed = true
			}
		}
	}

	return closure
}

// IsSuperkey reports whether the closure of attrs under fds covers all.
func IsSuperkey(attrs, all AttrSet, fds []FD) bool {
	return Closure(attrs, fds).IsSupersetOf(all)
}
