package scheduler

import "errors"

var (
	// ErrNoAvailableDays means no eligible study day exists between the
	// start date and the exam date. Fatal: no partial plan is produced.
	ErrNoAvailableDays = errors.New("no available study days before exam date")

	// ErrDocumentNotFound marks a document id that resolves to no
	// record. Soft: the document is skipped, the plan proceeds.
	ErrDocumentNotFound = errors.New("document not found")

	// ErrAnalysisUnavailable marks a document whose analysis lookup
	// failed or returned nothing. Soft: a default estimate is used.
	ErrAnalysisUnavailable = errors.New("document analysis unavailable")
)
