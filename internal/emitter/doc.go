// Package emitter adds particles to a particle system over time, either
// as a stream from a point or by filling a volume, and generates the
// lattices used to seed particle blocks.
package emitter
