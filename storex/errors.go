package storex

import "github.com/ridermall/riderbot/errx"

// Error registry for storex
var (
	storeErrors = errx.NewRegistry("STORE")

	ErrInvalidQuery     = storeErrors.Register("INVALID_QUERY", errx.TypeBadRequest, 400, "Invalid query")
	ErrRecordNotFound   = storeErrors.Register("NOT_FOUND", errx.TypeNotFound, 404, "Record not found")
	ErrConnectionFailed = storeErrors.Register("CONNECTION_FAILED", errx.TypeUnavailable, 503, "Database connection failed")
	ErrCreateFailed     = storeErrors.Register("CREATE_FAILED", errx.TypeInternal, 500, "Failed to create record")
	ErrUpdateFailed     = storeErrors.Register("UPDATE_FAILED", errx.TypeInternal, 500, "Failed to update record")

	ErrSQLScanFailed  = storeErrors.Register("SQL_SCAN_FAILED", errx.TypeInternal, 500, "Failed to scan SQL results")
	ErrSQLQueryFailed = storeErrors.Register("SQL_QUERY_FAILED", errx.TypeInternal, 500, "SQL query execution failed")
	ErrSQLCountFailed = storeErrors.Register("SQL_COUNT_FAILED", errx.TypeInternal, 500, "Failed to count SQL records")

	ErrMongoFindFailed   = storeErrors.Register("MONGO_FIND_FAILED", errx.TypeInternal, 500, "MongoDB find operation failed")
	ErrMongoCountFailed  = storeErrors.Register("MONGO_COUNT_FAILED", errx.TypeInternal, 500, "Failed to count MongoDB records")
	ErrMongoDecodeFailed = storeErrors.Register("MONGO_DECODE_FAILED", errx.TypeInternal, 500, "Failed to decode MongoDB document")
	ErrMongoInsertFailed = storeErrors.Register("MONGO_INSERT_FAILED", errx.TypeInternal, 500, "MongoDB insert operation failed")
	ErrMongoUpdateFailed = storeErrors.Register("MONGO_UPDATE_FAILED", errx.TypeInternal, 500, "MongoDB update operation failed")
)

// IsRecordNotFound reports whether err is the not-found store error
func IsRecordNotFound(err error) bool {
	return errx.IsCode(err, ErrRecordNotFound)
}
