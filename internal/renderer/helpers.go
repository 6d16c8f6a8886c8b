package renderer

// Unwind collects cleanups for a multi-step GPU setup so a failure part way
// through can release what was already created.
type Unwind []func()

func (u *Unwind) Add(cleanup func()) {
	*u = append(*u, cleanup)
}

// Unwind runs the cleanups in reverse order of registration.
func (u *Unwind) Unwind() {
	for i := len(*u) - 1; i >= 0; i-- {
		(*u)[i]()
	}
	*u = nil
}

// Discard forgets the cleanups once setup has succeeded.
func (u *Unwind) Discard() {
	*u = nil
}
