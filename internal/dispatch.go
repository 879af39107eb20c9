package internal

// InvokeAction dispatches the named action.
//
// The action is looked up in the controller type's action map first, so an
// unknown name never reaches the CSRF gate. A forgery rejection stops the
// request before the action runs. Errors returned by the action propagate
// unchanged. If the action neither redirected nor rendered, the template for
// the controller and action is rendered as HTML.
//
// InvokeAction does not recover panics.
func (c *Controller) InvokeAction(name string) error {
	action, ok := c.typ.action(name)
	if !ok {
		return &UnknownActionError{Controller: c.typ.Name(), Action: name}
	}
	c.action = name

	if err := c.checkForgery(); err != nil {
		return err
	}

	if err := action(c); err != nil {
		return err
	}

	if !c.guard.Finalized() {
		return c.Render(name)
	}
	return nil
}
