package handler

const (
	// RootPath is the root path the route group.
	RootPath = "/"

	// ErrNilDepsMsg is used if app or one of the dependencies is nil.
	ErrNilDepsMsg = "app or handler dependencies are nil"
)
