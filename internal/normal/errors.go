package normal

import "errors"

// Sentinel errors returned by the audit entry points. Per-table problems are
// never errors; they surface as Notices on the Report.
var (
	// ErrUnknownForm is returned when a normal form name cannot be parsed.
	ErrUnknownForm = errors.New("normal: unknown normal form")

	// ErrNilSnapshot is returned when an audit is started without a snapshot.
	ErrNilSnapshot = errors.New("normal: nil snapshot")

	// ErrUnknownTable is returned when a requested table is not in the snapshot.
	ErrUnknownTable = errors.New("normal: unknown table")
)

// IsUnknownFormErr returns true if err is or wraps ErrUnknownForm.
func IsUnknownFormErr(err error) bool {
	return errors.Is(err, ErrUnknownForm)
}

// IsUnknownTableErr returns true if err is or wraps ErrUnknownTable.
func IsUnknownTableErr(err error) bool {
	return errors.Is(err, ErrUnknownTable)
}
