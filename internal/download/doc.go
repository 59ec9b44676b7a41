// Package download provides the orchestration logic for fetching Guitar
// Pro tabs from Ultimate Guitar.
//
// # Manager
//
// The Manager runs every tab through the same steps:
//
//  1. Fetch the tab page (Referer: site root)
//  2. Extract the page state
//  3. Check that the session is authenticated
//  4. Resolve the download token
//  5. Fetch the file (Referer: tab page, same-site navigation headers)
//  6. Reject HTML answers, which mean the site refused the session
//  7. Write the file to the output directory
//
// # Basic Usage
//
//	manager, err := download.NewManager(settings, client, logger, func(event download.ProgressEvent) {
//	    fmt.Println(event.Message)
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	summary := manager.Run(ctx, urls)
//	fmt.Printf("Successfully downloaded: %d/%d\n", summary.Succeeded(), summary.Total)
//
// # Sequencing
//
// Tabs are processed one at a time and nothing is retried. A failed tab is
// recorded as a model.Outcome and the batch moves on. Canceling the
// context stops the batch before the next tab; the rest are reported as
// skipped.
//
// # Progress Tracking
//
// Progress is reported via a callback function that receives ProgressEvent:
//
//	type ProgressEvent struct {
//	    Message string
//	    Level   ProgressLevel // Info, Verbose, Warning, Error, Success
//	}
package download
