package errors

import (
	stdErrors "errors"

	"github.com/jackc/pgconn"
)

// DumpInfo flattens an error chain for structured logging, surfacing the
// Postgres diagnostics when a pgconn error is buried in the chain.
type DumpInfo struct {
	Code         Code
	TopMessage   string
	Chain        []string
	PGCode       string
	PGMessage    string
	PGDetail     string
	PGTable      string
	PGConstraint string
}

func Dump(err error) DumpInfo {
	info := DumpInfo{Code: CodeInternal}
	if err == nil {
		return info
	}

	info.TopMessage = err.Error()
	if typed := As(err); typed != nil {
		info.Code = typed.Code()
	}

	for cursor := err; cursor != nil; cursor = stdErrors.Unwrap(cursor) {
		info.Chain = append(info.Chain, cursor.Error())
	}

	var pgErr *pgconn.PgError
	if stdErrors.As(err, &pgErr) {
		info.PGCode = pgErr.Code
		info.PGMessage = pgErr.Message
		info.PGDetail = pgErr.Detail
		info.PGTable = pgErr.TableName
		info.PGConstraint = pgErr.ConstraintName
	}

	return info
}
