package twitter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"techtweets/pkg/api"
)

const DefaultAPIBase = "https://api.x.com"

// Client posts tweets through the X API v2.
type Client struct {
	apiBase    string
	httpClient *http.Client
}

// NewClient expects httpClient to already sign requests (see auth.NewTwitterHTTPClient).
func NewClient(apiBase string, httpClient *http.Client) *Client {
	apiBase = strings.TrimRight(strings.TrimSpace(apiBase), "/")
	if apiBase == "" {
		apiBase = DefaultAPIBase
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{apiBase: apiBase, httpClient: httpClient}
}

type createTweetRequest struct {
	Text  string      `json:"text"`
	Reply *tweetReply `json:"reply,omitempty"`
}

type tweetReply struct {
	InReplyToTweetID string `json:"in_reply_to_tweet_id"`
}

type Tweet struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// PostTweet creates one tweet. A non-empty replyTo makes it a reply to that tweet id.
func (c *Client) PostTweet(ctx context.Context, text, replyTo string) (Tweet, error) {
	if strings.TrimSpace(text) == "" {
		return Tweet{}, fmt.Errorf("tweet text is empty")
	}

	payload := createTweetRequest{Text: text}
	if id := strings.TrimSpace(replyTo); id != "" {
		payload.Reply = &tweetReply{InReplyToTweetID: id}
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return Tweet{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiBase+"/2/tweets", bytes.NewReader(body))
	if err != nil {
		return Tweet{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Tweet{}, err
	}
	defer resp.Body.Close()

	if err := api.StatusErrorFromResponse(resp); err != nil {
		return Tweet{}, err
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return Tweet{}, err
	}
	var parsed struct {
		Data Tweet `json:"data"`
	}
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return Tweet{}, fmt.Errorf("decode create tweet response: %w (body=%s)", err, strings.TrimSpace(string(raw)))
	}
	if strings.TrimSpace(parsed.Data.ID) == "" {
		return Tweet{}, fmt.Errorf("create tweet response missing id (body=%s)", strings.TrimSpace(string(raw)))
	}
	return parsed.Data, nil
}
