package layout

import "math"

// applyLink pulls linked nodes toward LinkDistance. Strength and bias follow
// node degree so that hubs move less than leaves.
func (e *Engine) applyLink(alpha float64) {
	for _, s := range e.springs {
		src, tgt := e.bodies[s.source], e.bodies[s.target]
		x := tgt.x + tgt.vx - src.x - src.vx
		y := tgt.y + tgt.vy - src.y - src.vy
		if x == 0 {
			x = e.jiggle()
		}
		if y == 0 {
			y = e.jiggle()
		}
		l := math.Sqrt(x*x + y*y)
		l = (l - e.cfg.LinkDistance) / l * alpha * s.strength
		x *= l
		y *= l
		tgt.vx -= x * s.bias
		tgt.vy -= y * s.bias
		src.vx += x * (1 - s.bias)
		src.vy += y * (1 - s.bias)
	}
}

// applyCharge applies pairwise many-body repulsion. Graphs stay in the tens
// to low hundreds of nodes, so the exact O(n²) sum is used.
func (e *Engine) applyCharge(alpha float64) {
	const distanceMin2 = 1
	w := e.cfg.Charge * alpha
	for i, a := range e.bodies {
		for j, b := range e.bodies {
			if i == j {
				continue
			}
			x := b.x - a.x
			y := b.y - a.y
			if x == 0 {
				x = e.jiggle()
			}
			if y == 0 {
				y = e.jiggle()
			}
			l := x*x + y*y
			if l < distanceMin2 {
				l = math.Sqrt(distanceMin2 * l)
			}
			a.vx += x * w / l
			a.vy += y * w / l
		}
	}
}

// applyCenter translates all nodes so their mean sits at the viewport center.
func (e *Engine) applyCenter() {
	if len(e.bodies) == 0 {
		return
	}
	var sx, sy float64
	for _, b := range e.bodies {
		sx += b.x
		sy += b.y
	}
	n := float64(len(e.bodies))
	dx := sx/n - e.cfg.Width/2
	dy := sy/n - e.cfg.Height/2
	for _, b := range e.bodies {
		b.x -= dx
		b.y -= dy
	}
}

// applyCollide pushes apart nodes whose predicted positions overlap.
func (e *Engine) applyCollide() {
	sep := 2 * e.cfg.CollideRadius
	for i := 0; i < len(e.bodies); i++ {
		a := e.bodies[i]
		xi, yi := a.x+a.vx, a.y+a.vy
		for j := i + 1; j < len(e.bodies); j++ {
			b := e.bodies[j]
			x := xi - b.x - b.vx
			y := yi - b.y - b.vy
			l := x*x + y*y
			if l >= sep*sep {
				continue
			}
			if x == 0 {
				x = e.jiggle()
				l += x * x
			}
			if y == 0 {
				y = e.jiggle()
				l += y * y
			}
			l = math.Sqrt(l)
			l = (sep - l) / l
			x *= l
			y *= l
			// Equal radii split the correction evenly.
			a.vx += x * 0.5
			a.vy += y * 0.5
			b.vx -= x * 0.5
			b.vy -= y * 0.5
		}
	}
}

func (e *Engine) jiggle() float64 {
	return (e.rng.Float64() - 0.5) * 1e-6
}
