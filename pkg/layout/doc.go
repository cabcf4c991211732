// Package layout runs a force-directed simulation over a discograph graph.
//
// # Forces
//
// Each tick applies four forces, in the manner of d3-force:
//
//   - link: springs pull every parent → child pair toward LinkDistance
//   - charge: all nodes repel each other with strength Charge
//   - center: the whole graph is translated so its centroid sits at the
//     middle of the viewport
//   - collide: nodes closer than two CollideRadius are pushed apart
//
// Velocities lose VelocityDecay of their magnitude every tick. The
// simulation "temperature" alpha decays from 1 toward its target; once it
// falls below AlphaMin the simulation is cold and [Engine.Run] stops ticking.
//
// # Incremental updates
//
// [Engine.SetGraph] is always given the full node and link sets. Positions of
// nodes the engine already knows are kept, so expanding a release only adds
// new video nodes next to their release and re-heats the simulation.
//
// # Dragging
//
//	e.DragStart(id)     // pin the node, hold alpha at DragAlpha
//	e.Drag(id, x, y)    // move the pin
//	e.DragEnd(id)       // release, let the simulation cool
//
// A pinned node keeps its fixed position and is never moved by forces.
package layout
