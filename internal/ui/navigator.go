package ui

import "github.com/verdant-app/verdant/internal/session"

// Navigator turns view changes into hints about which command to run next.
type Navigator struct {
	p *Printer
}

// NewNavigator creates a Navigator that prints through p.
func NewNavigator(p *Printer) *Navigator {
	return &Navigator{p: p}
}

func (n *Navigator) Navigate(route string) {
	switch route {
	case session.RouteLogin:
		n.p.Notice(`Run "verdant login" to sign in.`)
	case session.RouteCollections:
		n.p.Notice(`Run "verdant collections" to see your collections.`)
	}
}

var _ session.Navigator = (*Navigator)(nil)
