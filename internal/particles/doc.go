// Package particles holds particle state and the generic particle solver.
//
// SystemData3 stores per-particle channels as a struct of arrays. Channels
// 0, 1 and 2 of the vector data are positions, velocities and forces. It
// also owns the neighbor searcher and the neighbor lists derived from it.
//
// Solver3 integrates a SystemData3 under gravity and drag, lets an emitter
// add particles and resolves collisions against a collider. Specialized
// solvers plug in through Hooks3.
package particles
