// Package middleware wraps verdict stores with cross-cutting behaviour.
package middleware

import "github.com/aretw0/anreach/pkg/ports"

// Middleware allows wrapping a VerdictStore to add behavior.
type Middleware func(ports.VerdictStore) ports.VerdictStore

// Chain applies mws so that the first one is the outermost.
func Chain(store ports.VerdictStore, mws ...Middleware) ports.VerdictStore {
	for i := len(mws) - 1; i >= 0; i-- {
		store = mws[i](store)
	}
	return store
}
