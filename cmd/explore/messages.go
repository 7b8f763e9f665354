package main

import "github.com/rxtech-lab/argo-rotation/internal/types"

// ResultsMsg carries the result set of a finished simulation.
type ResultsMsg struct {
	ResultSet types.ResultSet
}

// RunErrorMsg indicates the simulation failed.
type RunErrorMsg struct {
	Err error
}
