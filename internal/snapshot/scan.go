package snapshot

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/endora-app/endoscope/schema"
)

// scanUsers drains a (id, created_at) row set.
func scanUsers(rows *sql.Rows) ([]schema.User, error) {
	var out []schema.User
	for rows.Next() {
		var rec schema.User
		var createdMs int64
		if err := rows.Scan(&rec.ID, &createdMs); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		rec.CreatedAt = time.UnixMilli(createdMs)
		out = append(out, rec)
	}
	return out, rows.Err()
}
