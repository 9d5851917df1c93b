// Package sidebar models the cart panel's view state: which pane is shown,
// the two-phase close animation, and the minimum order gate in front of the
// delivery form.
package sidebar

import (
	"fmt"
	"sync"

	"github.com/redirusmana/bakery-shop-web/internal/cart"
)

// MinOrderAmount is the smallest subtotal allowed to proceed to delivery.
const MinOrderAmount int64 = 100_000

// Panel is the sidebar's open/close state. Closing is the transitional state
// while the close animation plays.
type Panel int

const (
	PanelClosed Panel = iota
	PanelOpen
	PanelClosing
)

func (p Panel) String() string {
	switch p {
	case PanelClosed:
		return "closed"
	case PanelOpen:
		return "open"
	case PanelClosing:
		return "closing"
	default:
		return "unknown"
	}
}

// View is the pane shown inside an open sidebar.
type View int

const (
	ViewList View = iota
	ViewEdit
	ViewDelivery
)

func (v View) String() string {
	switch v {
	case ViewList:
		return "list"
	case ViewEdit:
		return "edit"
	case ViewDelivery:
		return "delivery"
	default:
		return "unknown"
	}
}

// Machine is the sidebar state machine. All transitions go through its
// methods; invalid transitions are rejected with an error and leave the
// state unchanged.
type Machine struct {
	mu          sync.Mutex
	panel       Panel
	view        View
	viewClosing bool
	editing     *cart.Line
}

// NewMachine creates a closed sidebar showing the list pane.
func NewMachine() *Machine {
	return &Machine{}
}

// Panel returns the current panel state.
func (m *Machine) Panel() Panel {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.panel
}

// View returns the current pane.
func (m *Machine) View() View {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.view
}

// Editing returns the line being edited, or nil outside the edit pane.
func (m *Machine) Editing() *cart.Line {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.editing
}

// Open opens the sidebar. Opening an already open sidebar is a no-op;
// opening during the close animation restarts it open.
func (m *Machine) Open() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.panel = PanelOpen
}

// StartClose begins the close animation. Closing a closed sidebar is a
// no-op.
func (m *Machine) StartClose() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.panel == PanelOpen {
		m.panel = PanelClosing
	}
}

// FinishClose completes the close animation: the sidebar is closed and the
// pane resets to the list so the next open starts fresh.
func (m *Machine) FinishClose() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.panel != PanelClosing {
		return
	}
	m.panel = PanelClosed
	m.view = ViewList
	m.viewClosing = false
	m.editing = nil
}

// BeginEdit switches to the edit pane for the given line. It requires an
// open sidebar showing the list.
func (m *Machine) BeginEdit(line *cart.Line) error {
	if line == nil {
		return fmt.Errorf("begin edit: no line")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.panel != PanelOpen {
		return fmt.Errorf("begin edit: sidebar is %s", m.panel)
	}
	if m.view != ViewList {
		return fmt.Errorf("begin edit: current view is %s", m.view)
	}
	m.view = ViewEdit
	m.editing = line
	return nil
}

// CanProceedToDelivery reports whether the subtotal clears the minimum
// order, and the user-facing reason when it does not.
func (m *Machine) CanProceedToDelivery(subtotal int64) (bool, string) {
	if subtotal >= MinOrderAmount {
		return true, ""
	}
	shortfall := MinOrderAmount - subtotal
	return false, fmt.Sprintf("Minimum order is %d. Add %d more to proceed.", MinOrderAmount, shortfall)
}

// OpenDelivery switches to the delivery pane when the subtotal clears the
// minimum order. The returned error message matches CanProceedToDelivery.
func (m *Machine) OpenDelivery(subtotal int64) error {
	ok, reason := m.CanProceedToDelivery(subtotal)
	if !ok {
		return fmt.Errorf("%s", reason)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.panel != PanelOpen {
		return fmt.Errorf("open delivery: sidebar is %s", m.panel)
	}
	if m.view != ViewList {
		return fmt.Errorf("open delivery: current view is %s", m.view)
	}
	m.view = ViewDelivery
	return nil
}

// StartReturn begins the animated return from the edit or delivery pane back
// to the list.
func (m *Machine) StartReturn() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.panel == PanelOpen && m.view != ViewList {
		m.viewClosing = true
	}
}

// FinishReturn completes the return animation and shows the list again.
func (m *Machine) FinishReturn() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.viewClosing {
		return
	}
	m.viewClosing = false
	m.view = ViewList
	m.editing = nil
}

// IsViewClosing reports whether a pane return animation is in flight.
func (m *Machine) IsViewClosing() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.viewClosing
}
