package rig

import "github.com/hajimehoshi/ebiten/v2"

// Driver runs a Composer as an ebiten.Game: every tick advances
// playback by one tick's worth of time and the draw pass does nothing.
// Pass it to ebiten.RunGame directly for playback without rendering, or
// embed it in a game struct and shadow Draw to render the skeleton.
type Driver struct {
	Composer *Composer

	// Width and Height are the logical screen dimensions Layout
	// reports. When zero, Layout passes the outside dimensions through.
	Width, Height int
}

// NewDriver returns a driver stepping the given composer.
func NewDriver(c *Composer) *Driver {
	return &Driver{Composer: c}
}

// Update advances the composer by one tick.
func (d *Driver) Update() error {
	d.Composer.Step()
	return nil
}

// Draw draws nothing.
func (d *Driver) Draw(screen *ebiten.Image) {}

// Layout reports the logical screen size.
func (d *Driver) Layout(outsideWidth, outsideHeight int) (int, int) {
	if d.Width > 0 && d.Height > 0 {
		return d.Width, d.Height
	}
	return outsideWidth, outsideHeight
}
