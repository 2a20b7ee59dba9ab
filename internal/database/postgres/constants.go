package postgres

// Error context messages for wrapped errors
const (
	ErrContextFailedToBeginTx      = "failed to begin transaction"
	ErrContextFailedToCommitTx     = "failed to commit transaction"
	ErrContextFailedToInsertGame   = "failed to insert game"
	ErrContextFailedToUpdateGame   = "failed to update game"
	ErrContextFailedToQueryGames   = "failed to query games"
	ErrContextFailedToCountGames   = "failed to count games"
	ErrContextFailedToScanGame     = "failed to scan game row"
	ErrContextFailedToSyncPreds    = "failed to sync predictions"
	ErrContextFailedToQueryPreds   = "failed to query predictions"
	ErrContextFailedToMarshalJSON  = "failed to marshal json column"
	ErrContextFailedToDeleteGame   = "failed to delete game"
	ErrContextFailedToCheckGame    = "failed to check game existence"
)

// DefaultSortColumn orders listings when the request names no column
const DefaultSortColumn = "created_at"

// sortColumns whitelists request sort keys against SQL expressions.
// Everything else falls back to DefaultSortColumn.
var sortColumns = map[string]string{
	"created_at":      "g.created_at",
	"updated_at":      "g.updated_at",
	"title":           "g.config->>'title'",
	"end_time":        "(g.config->>'end_time')::timestamptz",
	"settlement_time": "(g.config->>'settlement_time')::timestamptz",
}
