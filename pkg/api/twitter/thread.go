package twitter

import (
	"context"
	"fmt"
	"strings"
)

// ThreadHandle lists the ids of a published thread in posting order.
type ThreadHandle struct {
	IDs []string `json:"ids"`
}

func (h ThreadHandle) RootID() string {
	if len(h.IDs) == 0 {
		return ""
	}
	return h.IDs[0]
}

// URL links to the root tweet. An empty handle uses the account-agnostic path.
func (h ThreadHandle) URL(handle string) string {
	root := h.RootID()
	if root == "" {
		return ""
	}
	handle = strings.TrimPrefix(strings.TrimSpace(handle), "@")
	if handle == "" {
		return "https://x.com/i/web/status/" + root
	}
	return "https://x.com/" + handle + "/status/" + root
}

// PublishError reports which post failed. Posts before Index are live and stay live.
type PublishError struct {
	Index     int
	Published []string
	Err       error
}

func (e *PublishError) Error() string {
	return fmt.Sprintf("publish post %d failed (%d already published): %v", e.Index+1, len(e.Published), e.Err)
}

func (e *PublishError) Unwrap() error { return e.Err }

// PublishThread posts posts in order, each replying to the previous one.
func (c *Client) PublishThread(ctx context.Context, posts []string) (ThreadHandle, error) {
	if len(posts) == 0 {
		return ThreadHandle{}, &PublishError{Index: 0, Err: fmt.Errorf("no posts to publish")}
	}

	ids := make([]string, 0, len(posts))
	replyTo := ""
	for i, text := range posts {
		tw, err := c.PostTweet(ctx, text, replyTo)
		if err != nil {
			return ThreadHandle{IDs: ids}, &PublishError{Index: i, Published: append([]string(nil), ids...), Err: err}
		}
		ids = append(ids, tw.ID)
		replyTo = tw.ID
	}
	return ThreadHandle{IDs: ids}, nil
}
