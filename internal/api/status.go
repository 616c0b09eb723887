package api

import (
	"net/http"
	"time"

	"github.com/go-faster/jx"

	"companyscan/internal/scanner"
)

func statusHandler(status *scanner.Status) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(encodeStatus(status.Snapshot()))
	})
}

func encodeStatus(ranges []scanner.RangeStatus) []byte {
	var e jx.Encoder
	e.SetIdent(2)
	e.Obj(func(e *jx.Encoder) {
		e.Field("ranges", func(e *jx.Encoder) {
			e.Arr(func(e *jx.Encoder) {
				for _, rs := range ranges {
					encodeRange(e, rs)
				}
			})
		})
	})

	return e.Bytes()
}

func encodeRange(e *jx.Encoder, rs scanner.RangeStatus) {
	e.Obj(func(e *jx.Encoder) {
		e.Field("kind", func(e *jx.Encoder) { e.Str(rs.Kind.String()) })
		e.Field("start", func(e *jx.Encoder) { e.Int64(rs.Start) })
		e.Field("cursor", func(e *jx.Encoder) { e.Int64(rs.Cursor) })
		e.Field("current", func(e *jx.Encoder) { e.Str(rs.Kind.Identifier(rs.Cursor)) })
		e.Field("emptyRun", func(e *jx.Encoder) { e.Int(rs.EmptyRun) })
		e.Field("hits", func(e *jx.Encoder) { e.Int(rs.Hits) })
		e.Field("empties", func(e *jx.Encoder) { e.Int(rs.Empties) })
		e.Field("inconclusive", func(e *jx.Encoder) { e.Int(rs.Inconclusive) })
		e.Field("running", func(e *jx.Encoder) { e.Bool(rs.Running) })
		e.Field("updatedAt", func(e *jx.Encoder) { e.Str(rs.UpdatedAt.UTC().Format(time.RFC3339)) })
	})
}
