// Package watch turns "AI!" comments in source files into edit requests.
//
// A Watcher reports debounced batches of changed files under one or more
// roots. Serve reads each changed file, collects comment lines marked with
// "AI!" and hands the resulting request to a Handler, typically one that
// runs the auto-fix loop on that file.
//
//	w, err := watch.New([]string{root})
//	if err != nil {
//		return err
//	}
//	defer w.Close()
//	watch.Serve(ctx, w.Changes(ctx), root, handler, logger)
package watch
