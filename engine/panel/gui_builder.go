package panel

// GUIBuilderOption is a functional option used to configure a GUI during construction.
type GUIBuilderOption func(*GUI)

// WithTitle sets the panel heading.
//
// Parameters:
//   - title: the heading shown by clients
//
// Returns:
//   - GUIBuilderOption: a function that sets the panel title
func WithTitle(title string) GUIBuilderOption {
	return func(g *GUI) {
		g.title = title
	}
}

// WithVerbose logs every applied edit.
func WithVerbose(verbose bool) GUIBuilderOption {
	return func(g *GUI) {
		g.verbose = verbose
	}
}
