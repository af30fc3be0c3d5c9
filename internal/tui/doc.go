// Package tui provides the terminal user interface for scenguard's validate command.
//
// This package contains a read-only TUI that displays validation progress in
// real-time. It shows:
//   - Resources as they are picked up and finished by the scan workers
//   - Overall completion progress (e.g., 6/9 resources)
//   - The final summary with per-scenario compliance and the run verdict
//
// The TUI is read-only. Users can quit with 'q', Esc, or Ctrl+C; pressing 'q'
// during a run aborts the remaining validation.
//
// Usage:
//
//	program, _ := tui.NewProgram(corpusRoot)
//	go func() {
//	    for event := range events {
//	        program.Send(tui.RunEventMsg(event))
//	    }
//	}()
//
//	// Signal completion with the aggregated report
//	program.Send(tui.ReportMsg{Report: report})
//
//	// Or signal that the run aborted
//	program.Send(tui.RunFailedMsg{Err: err})
//
//	if _, err := program.Run(); err != nil {
//	    return err
//	}
package tui
