package port

// DocumentSource provides the raw text of the reference document.
type DocumentSource interface {
	// Load re-reads the document and returns its extracted plain text.
	Load() (string, error)

	// Path returns the location of the document, for logging and for
	// the change watcher.
	Path() string
}
