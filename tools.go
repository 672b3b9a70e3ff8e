//go:build tools

// Package huddle tracks tool dependencies invoked through go generate.
package huddle

import (
	_ "go.uber.org/mock/mockgen"
)
