package helpscout

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/custodia-labs/helpscout-archive/internal/core/domain"
)

// windowQueryLayout formats createdAt bounds in search queries.
const windowQueryLayout = "2006-01-02T15:04:05Z"

// pageInfo is the HAL page block of a list response.
type pageInfo struct {
	Size          int `json:"size"`
	TotalElements int `json:"totalElements"`
	TotalPages    int `json:"totalPages"`
	Number        int `json:"number"`
}

type conversationList struct {
	Embedded struct {
		Conversations []json.RawMessage `json:"conversations"`
	} `json:"_embedded"`
	Page pageInfo `json:"page"`
}

// ConversationPage is one page of the conversation list.
type ConversationPage struct {
	// Conversations are the raw conversation payloads, in API order.
	Conversations []json.RawMessage

	// TotalPages is the page count reported by the API, 0 if absent.
	TotalPages int

	// RateLimitRetries counts 429 retries spent on this page.
	RateLimitRetries int
}

// ListConversations fetches the page of conversations the cursor points at.
func (c *Client) ListConversations(ctx context.Context, cursor domain.Cursor) (*ConversationPage, error) {
	var list conversationList
	retries, err := c.getJSON(ctx, "/conversations", c.conversationQuery(cursor), &list)
	if err != nil {
		return nil, err
	}
	return &ConversationPage{
		Conversations:    list.Embedded.Conversations,
		TotalPages:       list.Page.TotalPages,
		RateLimitRetries: retries,
	}, nil
}

// conversationQuery builds the list query for a cursor.
func (c *Client) conversationQuery(cursor domain.Cursor) url.Values {
	q := url.Values{}
	q.Set("page", strconv.Itoa(max(cursor.Page, 1)))
	q.Set("status", c.cfg.Status)
	q.Set("sortField", "createdAt")
	q.Set("sortOrder", "asc")
	if cursor.Strategy == domain.StrategyWindow {
		q.Set("query", windowQuery(cursor.Month))
	}
	return q
}

// windowQuery restricts a list to conversations created within the month.
func windowQuery(m domain.Month) string {
	last := m.End().Add(-time.Second)
	return fmt.Sprintf("(createdAt:[%s TO %s])",
		m.Start().Format(windowQueryLayout), last.Format(windowQueryLayout))
}
