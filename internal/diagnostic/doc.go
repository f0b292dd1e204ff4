// Package diagnostic provides structured warnings and errors collected
// while converting extract tables into ACG files.
//
// Row- and column-level problems (an unknown transform, a source column
// missing from an input table, a group whose rows were all filtered out)
// never abort a run. They are recorded here instead, so that a single run
// reports the complete problem set alongside whatever output it produced.
package diagnostic
