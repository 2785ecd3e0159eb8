package resolve

import "errors"

var (
	// ErrMissingTotalRow indicates a table without a Total/Ensemble row.
	ErrMissingTotalRow = errors.New("missing Total/Ensemble row")
	// ErrUnresolvedCategory indicates a table has no rows for a dimension.
	ErrUnresolvedCategory = errors.New("no rows for category")
	// ErrUnresolvedColumn indicates no indicator column could be chosen.
	ErrUnresolvedColumn = errors.New("no matching indicator column")
)
