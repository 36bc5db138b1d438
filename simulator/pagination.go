package simulator

import (
	"strconv"

	"github.com/aws/aws-sdk-go/aws"
)

// defaultMaxResults is the page size used by ECS list calls when MaxResults isn't given
const defaultMaxResults = 100

// paginate returns a single page of items.  The next token is the offset of the next
// page, nil when there are no more pages.
func paginate(items []string, nextToken *string, maxResults *int64) ([]*string, *string, error) {
	limit := int64(defaultMaxResults)
	if maxResults != nil {
		limit = aws.Int64Value(maxResults)
		if limit < 1 || limit > defaultMaxResults {
			return nil, nil, invalidParameter("maxResults must be between 1 and 100")
		}
	}

	start := 0
	if t := aws.StringValue(nextToken); t != "" {
		i, err := strconv.Atoi(t)
		if err != nil || i < 0 || i > len(items) {
			return nil, nil, invalidParameter("invalid nextToken " + t)
		}
		start = i
	}

	end := start + int(limit)
	if end > len(items) {
		end = len(items)
	}

	page := aws.StringSlice(items[start:end])

	var next *string
	if end < len(items) {
		next = aws.String(strconv.Itoa(end))
	}

	return page, next, nil
}
