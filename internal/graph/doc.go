// Package graph shapes quote records into chart-ready point series and owns
// the interactive time-axis window for a rendered chart.
//
// The pipeline is BuildPairIndex (once per load), Project (once per pair
// selection) and Viewport (per gesture). None of these touch the record
// source; a Viewport only ever sees the Projection it was built from.
package graph
