package layout

import (
	"math"
	"time"
)

// Config holds the simulation parameters. The zero value of any field is
// replaced by its default in [New].
type Config struct {
	Width  float64 // Viewport width; the centering force pulls toward Width/2
	Height float64 // Viewport height; the centering force pulls toward Height/2

	LinkDistance  float64 // Rest length of parent → child links
	Charge        float64 // Many-body strength; negative repels
	CollideRadius float64 // Radius of each node for collision

	AlphaMin      float64 // The simulation cools down below this alpha
	AlphaDecay    float64 // Per-tick approach of alpha toward its target
	VelocityDecay float64 // Per-tick friction applied to velocities
	DragAlpha     float64 // Alpha target held while a node is dragged

	FrameInterval time.Duration // Tick cadence of Run
	Seed          int64         // Seed for the jiggle applied to coincident nodes
}

// Defaults.
const (
	DefaultWidth         = 1200
	DefaultHeight        = 800
	DefaultLinkDistance  = 250
	DefaultCharge        = -600
	DefaultCollideRadius = 80
	DefaultAlphaMin      = 0.001
	DefaultVelocityDecay = 0.4
	DefaultDragAlpha     = 0.3
	DefaultFrameInterval = 16 * time.Millisecond
)

// DefaultAlphaDecay cools the simulation from 1 to AlphaMin in about 300 ticks.
var DefaultAlphaDecay = 1 - math.Pow(DefaultAlphaMin, 1.0/300)

// DefaultConfig returns the default simulation parameters.
func DefaultConfig() Config {
	return Config{
		Width:         DefaultWidth,
		Height:        DefaultHeight,
		LinkDistance:  DefaultLinkDistance,
		Charge:        DefaultCharge,
		CollideRadius: DefaultCollideRadius,
		AlphaMin:      DefaultAlphaMin,
		AlphaDecay:    DefaultAlphaDecay,
		VelocityDecay: DefaultVelocityDecay,
		DragAlpha:     DefaultDragAlpha,
		FrameInterval: DefaultFrameInterval,
		Seed:          1,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.Width <= 0 {
		c.Width = d.Width
	}
	if c.Height <= 0 {
		c.Height = d.Height
	}
	if c.LinkDistance <= 0 {
		c.LinkDistance = d.LinkDistance
	}
	if c.Charge == 0 {
		c.Charge = d.Charge
	}
	if c.CollideRadius <= 0 {
		c.CollideRadius = d.CollideRadius
	}
	if c.AlphaMin <= 0 {
		c.AlphaMin = d.AlphaMin
	}
	if c.AlphaDecay <= 0 {
		c.AlphaDecay = d.AlphaDecay
	}
	if c.VelocityDecay <= 0 {
		c.VelocityDecay = d.VelocityDecay
	}
	if c.DragAlpha <= 0 {
		c.DragAlpha = d.DragAlpha
	}
	if c.FrameInterval <= 0 {
		c.FrameInterval = d.FrameInterval
	}
	return c
}
