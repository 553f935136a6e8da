package reconcile

import (
	"github.com/arthur-debert/aisetup/pkg/types"
)

// Confirmer decides whether an occupied target path may be replaced.
// Only an explicit true proceeds; an error counts as a refusal.
type Confirmer interface {
	ConfirmOverwrite(path string, a types.Artifact) (bool, error)
}

// ConfirmerFunc adapts a function to the Confirmer interface
type ConfirmerFunc func(path string, a types.Artifact) (bool, error)

// ConfirmOverwrite implements Confirmer
func (f ConfirmerFunc) ConfirmOverwrite(path string, a types.Artifact) (bool, error) {
	return f(path, a)
}

// Decline refuses every overwrite. It is the default when no Confirmer is set.
var Decline Confirmer = ConfirmerFunc(func(string, types.Artifact) (bool, error) { return false, nil })
