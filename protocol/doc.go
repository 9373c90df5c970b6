// Package protocol holds the Construction Protocol: the ordered registry of
// the constructions of one theorem, and the engine that compiles it into a
// polynomial hypothesis system.
//
// Compilation walks the points in index order. Each point gets free or
// dependent coordinates, every admissible candidate binding of its defining
// set is scored on a scratch copy of those coordinates, and only the winner
// is committed. A winner that does not mention the point's dependent
// coordinate triggers one swap of the free and dependent coordinates.
//
// Logging, diagnostic output and metrics are carried by an explicit Context.
package protocol
