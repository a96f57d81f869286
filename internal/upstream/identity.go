package upstream

import "context"

const userByScreenNameQueryID = "-oaLodhGbbnzJBACb1kk2Q"

var userByScreenNameFeatures = map[string]any{
	"creator_subscriptions_tweet_preview_api_enabled":                   true,
	"hidden_profile_subscriptions_enabled":                              true,
	"highlights_tweets_tab_ui_enabled":                                  true,
	"profile_label_improvements_pcf_label_in_post_enabled":              true,
	"responsive_web_graphql_skip_user_profile_image_extensions_enabled": false,
	"responsive_web_graphql_timeline_navigation_enabled":                true,
	"responsive_web_profile_redirect_enabled":                           false,
	"responsive_web_twitter_article_notes_tab_enabled":                  true,
	"rweb_tipjar_consumption_enabled":                                   true,
	"subscriptions_feature_can_gift_premium":                            true,
	"subscriptions_verification_info_is_identity_verified_enabled":      true,
	"subscriptions_verification_info_verified_since_enabled":            true,
	"verified_phone_label_enabled":                                      false,
}

type userByScreenNameResponse struct {
	Data struct {
		User struct {
			Result struct {
				TypeName                 string `json:"__typename"`
				RestID                   string `json:"rest_id"`
				RelationshipPerspectives *struct {
					Following bool `json:"following"`
				} `json:"relationship_perspectives"`
			} `json:"result"`
		} `json:"user"`
	} `json:"data"`
}

// ResolveIdentity fetches the user id and follow status in a single
// UserByScreenName call.
func (c *Client) ResolveIdentity(ctx context.Context, username string) (*Identity, error) {
	var resp userByScreenNameResponse
	err := c.graphqlGet(ctx, userByScreenNameQueryID, "UserByScreenName",
		map[string]any{
			"screen_name":              username,
			"withSafetyModeUserFields": true,
		},
		userByScreenNameFeatures, &resp)
	if err != nil {
		return nil, err
	}

	result := resp.Data.User.Result
	if result.TypeName != "User" || result.RestID == "" {
		return nil, nil
	}

	identity := &Identity{UserID: result.RestID}
	if result.RelationshipPerspectives != nil {
		identity.Following = result.RelationshipPerspectives.Following
	}
	return identity, nil
}
