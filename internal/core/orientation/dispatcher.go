package orientation

import (
	"slices"
	"sync"
)

// Presenter shows exactly one view and hides the others.
type Presenter interface {
	Present(active ViewKey, current Orientation)
}

// Transition is emitted when the active view changes.
type Transition struct {
	From        ViewKey
	To          ViewKey
	Orientation Orientation
	// Initial is set for the first activation, when From is empty.
	Initial bool
}

// Dispatcher owns the active view and reacts to orientation signals.
type Dispatcher struct {
	mu          sync.Mutex
	presenter   Presenter
	active      ViewKey
	orientation Orientation
	listeners   []func(Transition)
}

// NewDispatcher creates a dispatcher with no active view. The presenter may
// be nil.
func NewDispatcher(presenter Presenter) *Dispatcher {
	return &Dispatcher{presenter: presenter}
}

// SetPresenter replaces the presenter used for later activations.
func (dispatcher *Dispatcher) SetPresenter(presenter Presenter) {
	dispatcher.mu.Lock()
	defer dispatcher.mu.Unlock()
	dispatcher.presenter = presenter
}

// OnTransition registers a listener for active-view changes. Listeners run
// on the goroutine that delivered the signal.
func (dispatcher *Dispatcher) OnTransition(listener func(Transition)) {
	dispatcher.mu.Lock()
	defer dispatcher.mu.Unlock()
	dispatcher.listeners = append(dispatcher.listeners, listener)
}

// Update resolves signals and activates the matching view. Repeated calls
// with the same signals are no-ops.
func (dispatcher *Dispatcher) Update(signals Signals) Orientation {
	resolved := Resolve(signals)
	dispatcher.activate(ViewFor(resolved), resolved)
	return resolved
}

// Activate shows view. It reports whether the active view changed.
func (dispatcher *Dispatcher) Activate(view ViewKey) bool {
	return dispatcher.activate(view, orientationFor(view))
}

// Active returns the visible view, empty before the first activation.
func (dispatcher *Dispatcher) Active() ViewKey {
	dispatcher.mu.Lock()
	defer dispatcher.mu.Unlock()
	return dispatcher.active
}

// Orientation returns the last resolved orientation.
func (dispatcher *Dispatcher) Orientation() Orientation {
	dispatcher.mu.Lock()
	defer dispatcher.mu.Unlock()
	return dispatcher.orientation
}

// Visible reports whether view is the active one.
func (dispatcher *Dispatcher) Visible(view ViewKey) bool {
	return dispatcher.Active() == view
}

func (dispatcher *Dispatcher) activate(view ViewKey, current Orientation) bool {
	dispatcher.mu.Lock()
	if dispatcher.active == view {
		dispatcher.mu.Unlock()
		return false
	}
	previous := dispatcher.active
	dispatcher.active = view
	dispatcher.orientation = current
	presenter := dispatcher.presenter
	listeners := slices.Clone(dispatcher.listeners)
	dispatcher.mu.Unlock()

	if presenter != nil {
		presenter.Present(view, current)
	}

	transition := Transition{From: previous, To: view, Orientation: current, Initial: previous == ""}
	for _, listener := range listeners {
		listener(transition)
	}
	return true
}

func orientationFor(view ViewKey) Orientation {
	for _, value := range All {
		if ViewFor(value) == view {
			return value
		}
	}
	return PortraitPrimary
}
