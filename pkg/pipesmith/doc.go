// Package pipesmith enumerates every valid pipeline that can be assembled from a menu of steps.
//
// A grid is declared as an ordered list of steps. Each step carries an ordered list of variants: a candidate
// implementation with optional tags, or the absent variant meaning the step is skipped. The package explores the
// Cartesian product of all variant lists depth first, the last step varying fastest, and keeps only the
// combinations that satisfy every declared condition.
//
// Three kinds of condition exist. RequireIfLabel and SkipIfLabel fire when the variant chosen for their target step
// is present and carries the condition's tags (a subset match), and then require the listed steps to be present or
// absent respectively. RequireIfPresent fires on presence alone. A rejected combination is never an error: it is
// simply left out of the result.
//
// Implementations stored in variants are opaque to the package. They are never called, inspected or compared, which
// leaves the caller free to execute the present implementations of a chosen combination in step order.
//
// Malformed grids are rejected by New with a ConfigurationError that lists every problem found, so a caller can
// fix them all in one pass.
package pipesmith
