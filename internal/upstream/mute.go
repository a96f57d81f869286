package upstream

import (
	"context"
	"net/url"
)

// Muting goes through the v1.1 REST API, not GraphQL.
const (
	muteCreatePath  = "/i/api/1.1/mutes/users/create.json"
	muteDestroyPath = "/i/api/1.1/mutes/users/destroy.json"
)

func (c *Client) Mute(ctx context.Context, userID string) error {
	return c.restPost(ctx, muteCreatePath, url.Values{"user_id": {userID}})
}

func (c *Client) Unmute(ctx context.Context, userID string) error {
	return c.restPost(ctx, muteDestroyPath, url.Values{"user_id": {userID}})
}
