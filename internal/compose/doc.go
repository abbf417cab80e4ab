// Package compose draws integer compositions uniformly at random.
//
// A composition of n into k parts bounded by [a, b] is an ordered tuple
// (x_1, ..., x_k) with a <= x_i <= b and x_1 + ... + x_k = n. Enumerating
// them is out of the question for realistic sizes, so the sampler works on a
// continuous relaxation instead:
//
//  1. The parts are shifted and normalised so that the problem becomes
//     picking a point of the unit simplex whose coordinates are all at most
//     some bound maxVal.
//  2. A hit-and-run Markov chain walks inside that region: from the current
//     point it picks a uniformly random direction parallel to the simplex,
//     intersects the line with the box [0, maxVal]^k and jumps to a uniform
//     point of the resulting segment.
//  3. The final point is mapped back and rounded. When rounding breaks the
//     exact sum the whole walk is repeated from scratch.
//
// # Relaxations
//
// [RelaxCells] (the default) relaxes every integer point to the unit cell
// centred on it. All cells have the same area on the hyperplane, so the
// accepted results are uniform over the valid compositions.
//
// [RelaxEndpoints] maps a and b to the edges of the region. It reproduces
// the historical behaviour, which favours interior compositions because the
// cells of boundary points are cut in half.
//
// # Concurrency
//
// A [Sampler] owns its random source and is not safe for concurrent use.
// Give every goroutine its own Sampler seeded independently.
package compose
