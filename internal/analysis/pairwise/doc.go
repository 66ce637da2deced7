// Package pairwise implements the pairwise correlation pipeline: Pearson's r,
// the ordinary-least-squares best-fit line, and the scatter/fit series derived
// from an axis selection over a dataset registry.
//
// Every function is a pure transformation of its inputs. Degenerate inputs
// (a constant X or Y) are reported as core.ErrZeroVariance by the raw
// functions and resolved to a result value by a Policy, so non-finite numbers
// never reach a renderer.
package pairwise
