// Package screens holds the demo screen services: each one owns a component
// tree and the handlers for its events. Screens are consumers of the engine,
// not part of it.
package screens

import (
	"fmt"

	"github.com/idei-labs/usim/pkg/auth"
	"github.com/idei-labs/usim/pkg/engine"
	"github.com/idei-labs/usim/pkg/userdir"
)

// All returns every demo screen service, wired to its collaborators. The
// slice order is registration order only; routing is by service name.
func All(dir *userdir.Directory, tokens *auth.TokenManager) []engine.Service {
	return []engine.Service{
		NewCounter(),
		NewButtonDemo(),
		NewFormDemo(),
		NewCheckboxDemo(),
		NewModalDemo(),
		NewMenu(tokens),
		NewCalendarDemo(),
		NewUploaderDemo(),
		NewUsersTable(dir),
		NewLogin(dir, tokens),
	}
}

// RegisterAll registers the services with the engine.
func RegisterAll(e *engine.Engine, services []engine.Service) error {
	for _, svc := range services {
		if err := e.Register(svc); err != nil {
			return fmt.Errorf("register screen %s: %w", svc.Name(), err)
		}
	}
	return nil
}
