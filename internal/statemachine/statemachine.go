// Package statemachine implements the directed layer transitions from
// spec §4.3. The three states are peer, webvh, btco; btco is terminal for
// layer migration (transfers remain permitted and are not governed here).
package statemachine

import (
	"github.com/onirigin/originals-engine/internal/enginerr"
	"github.com/onirigin/originals-engine/internal/identity"
)

var allowedEdges = map[identity.Layer]map[identity.Layer]bool{
	identity.LayerPeer: {
		identity.LayerWebvh: true,
		identity.LayerBtco:  true,
	},
	identity.LayerWebvh: {
		identity.LayerBtco: true,
	},
	identity.LayerBtco: {},
}

// CanTransition reports whether from->to is one of the three permitted
// edges: peer->webvh, peer->btco, webvh->btco.
func CanTransition(from, to identity.Layer) bool {
	return allowedEdges[from][to]
}

// Validate returns an InvalidTransition error naming both endpoints when
// from->to is not permitted, nil otherwise.
func Validate(from, to identity.Layer) error {
	if CanTransition(from, to) {
		return nil
	}
	return enginerr.Newf(enginerr.InvalidTransition, "cannot migrate from %s to %s", from, to)
}
