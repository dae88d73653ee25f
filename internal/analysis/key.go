package analysis

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/aretw0/anreach/pkg/domain"
)

// Mode distinguishes the questions sharing a verdict cache.
type Mode string

const (
	ModeReachability Mode = "reachability"
	ModeInduction    Mode = "induction"
)

// Key digests a question: the network text, the mode, the initial
// context, the goal and the requested length (0 when computed).
func Key(net *domain.Network, mode Mode, init domain.Context, goal domain.LocalState, length int) string {
	h := sha256.New()
	fmt.Fprintf(h, "%s\x00%s\x00%v\x00%d:%d\x00%d", net.String(), mode, []int(init), goal.Automaton, goal.State, length)
	return hex.EncodeToString(h.Sum(nil))
}
