package docnum

import "errors"

// ErrNotInitialized is returned when a project has no numbering
// configuration yet. Document creation cannot proceed until numbering is
// set up for the project.
var ErrNotInitialized = errors.New("numbering configuration not initialized for project")
