package transport

import (
	"net/url"
	"strconv"

	"github.com/google/uuid"
)

// paginationVersion pins the list-endpoint wire format this SDK speaks.
const paginationVersion = "3"

// ListQuery builds the query parameters for paginated list endpoints.
// A limit of 0 requests the server default page size; a uuid.Nil
// startingAfter requests the first page. Cursors are encoded as
// "id:<uuid>".
func ListQuery(limit int, startingAfter uuid.UUID) url.Values {
	q := url.Values{}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	if startingAfter != uuid.Nil {
		q.Set("starting_after", "id:"+startingAfter.String())
	}
	q.Set("version", paginationVersion)
	return q
}
