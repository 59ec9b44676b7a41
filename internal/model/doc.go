// Package model defines the core data structures used throughout
// the ugtabs application.
//
// # TabArtifact
//
// TabArtifact is a downloaded tab file with its computed file name and path:
//
//	artifact := model.NewTabArtifact(tabURL, disposition, body, pathConfig)
//	fmt.Println(artifact.Path) // Where the tab will be saved
//
// The name comes from the Content-Disposition header when the server sends
// one, otherwise from the numeric tab ID at the end of the tab URL:
//
//	tab_4104691.gp
//
// # Outcomes
//
// Every tab in a batch ends in an Outcome. Failed outcomes carry a
// *FetchError whose FailureKind tells the operator what went wrong:
//
//	switch model.KindOf(err) {
//	case model.KindAnonymousSession, model.KindDownloadRejected:
//	    // refresh cookies
//	case model.KindExtractionFailed, model.KindTokenNotFound:
//	    // the site changed
//	}
package model
