// Package transposition implements the Playfair digraph cipher and the
// rail-fence family (plain, double and row-column). All of them strip
// non-letters before transforming; only the letters survive a round trip.
package transposition
