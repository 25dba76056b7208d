package sharc

import (
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
)

// globalDebug enables tree sanity checks on every AddChild. Set by a Stage
// created with Config.Debug, or directly with SetDebugMode.
var globalDebug atomic.Bool

// SetDebugMode toggles the package-wide tree checks.
func SetDebugMode(on bool) { globalDebug.Store(on) }

// debugStats holds per-frame timing. Only populated when Config.Debug is set.
type debugStats struct {
	frame     int
	drawTime  time.Duration
	totalTime time.Duration
	nodeCount int
}

// debugLog writes frame stats at debug level.
func (s *Stage) debugLog(stats debugStats) {
	s.logger.Debug("frame",
		"n", stats.frame,
		"draw", stats.drawTime,
		"total", stats.totalTime,
		"nodes", stats.nodeCount,
	)
}

// debugCheckTreeDepth warns if tree depth exceeds the threshold.
const debugMaxTreeDepth = 32

func debugCheckTreeDepth(n *Node) {
	depth := 0
	for p := n; p != nil; p = p.parent {
		depth++
	}
	if depth > debugMaxTreeDepth {
		log.Warn("tree depth exceeds threshold", "depth", depth, "max", debugMaxTreeDepth, "node", n.Name)
	}
}

// debugCheckChildCount warns if a node has more than 1000 children.
const debugMaxChildCount = 1000

func debugCheckChildCount(n *Node) {
	if len(n.children) > debugMaxChildCount {
		log.Warn("child count exceeds threshold", "node", n.Name, "children", len(n.children), "max", debugMaxChildCount)
	}
}
