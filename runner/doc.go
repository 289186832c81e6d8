// Package runner executes a project's lint and test commands and reports
// their results.
//
// A Runner returns one CommandResult per command it executed. Every
// requested command runs, even after an earlier one fails, so callers see
// the full picture. ShellRunner runs configured commands through "sh -c";
// presets cover Cargo, npm and Go projects, and Detect picks one from the
// marker files found in a project root.
//
//	r, err := runner.Detect(root)
//	results, err := r.Run(ctx, false, false)
//	for _, res := range results {
//	    if res.Failed() {
//	        fmt.Println(runner.SummarizeOutput(res.Output, 20, res.Status))
//	    }
//	}
package runner
