package internal

// ResponseGuard records whether a request's response has been finalized.
// It flips from open to finalized at most once. The zero value is open.
type ResponseGuard struct {
	finalized bool
}

// Finalized reports whether a redirect or render already happened.
func (g *ResponseGuard) Finalized() bool {
	return g.finalized
}

// Finalize marks the response as finalized.
// It returns ErrDoubleRender if the guard was already finalized.
func (g *ResponseGuard) Finalize() error {
	if g.finalized {
		return ErrDoubleRender
	}
	g.finalized = true
	return nil
}
