package helpscout

import (
	"context"
	"encoding/json"
	"net/url"
	"strconv"
)

type threadList struct {
	Embedded struct {
		Threads []json.RawMessage `json:"threads"`
	} `json:"_embedded"`
	Page pageInfo `json:"page"`
}

// ListThreads fetches the full thread history of a conversation, following
// every page the API reports. Returns the 429 retries spent alongside.
func (c *Client) ListThreads(ctx context.Context, conversationID string) ([]json.RawMessage, int, error) {
	path := "/conversations/" + url.PathEscape(conversationID) + "/threads"
	threads := []json.RawMessage{}
	retries := 0

	for page := 1; ; page++ {
		var list threadList
		n, err := c.getJSON(ctx, path, url.Values{"page": {strconv.Itoa(page)}}, &list)
		retries += n
		if err != nil {
			return nil, retries, err
		}

		threads = append(threads, list.Embedded.Threads...)
		if page >= list.Page.TotalPages || len(list.Embedded.Threads) == 0 {
			return threads, retries, nil
		}
	}
}
