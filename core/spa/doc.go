// Package spa exchanges exam plans with the external SPA scheduler through a
// working directory of semicolon separated files.
//
// A Bridge writes the four request files from a model.Plan, reads them back
// into a fresh plan and merges the scheduler's two result files into an
// existing plan. Modules of origin EIT never leave the process.
//
// Every failure is an *Error carrying a Kind, the operation and, where
// possible, the file and line at fault:
//
//	if err := b.ReadSchedule(plan); errors.Is(err, spa.ErrConflict) {
//		// result files disagree
//	}
package spa
