// Package synth generates random transit networks.
//
// A network is a set of lines, each an ordered run of stations. Lines
// share stations at interchanges. Station and line properties are drawn
// uniformly from the domains in package graph, so every leaf sampler of
// the question catalog has values to draw from.
//
// Generation is a pure function of the random source: the same seed
// yields the same ids, names and topology.
package synth
