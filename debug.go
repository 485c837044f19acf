package rig

import (
	"fmt"
	"os"
	"time"
)

// debugStats holds per-update timing and playback metrics.
// Only populated when Composer.debug is true.
type debugStats struct {
	interpolateTime time.Duration
	applyTime       time.Duration
	worldTime       time.Duration
	layerCount      int
	eventCount      int
}

// debugLog prints timing and playback stats to stderr.
func (c *Composer) debugLog(stats debugStats) {
	if !c.debug {
		return
	}
	total := stats.interpolateTime + stats.applyTime + stats.worldTime
	_, _ = fmt.Fprintf(os.Stderr,
		"[rig] interpolate: %v | apply: %v | world: %v | total: %v\n",
		stats.interpolateTime, stats.applyTime, stats.worldTime, total)
	_, _ = fmt.Fprintf(os.Stderr,
		"[rig] layers: %d | completions: %d\n",
		stats.layerCount, stats.eventCount)
}

// debugCheckZeroLength warns on stderr when a layer's current action has
// no length; its clock parks at zero and only the first frame ever
// shows. Only called when the Composer is in debug mode.
func debugCheckZeroLength(layerName string, a Action) {
	if a.Length() <= 0 {
		_, _ = fmt.Fprintf(os.Stderr, "[rig] warning: layer %q is playing a zero-length action\n",
			layerName)
	}
}
