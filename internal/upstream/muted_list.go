package upstream

import "context"

const (
	mutedAccountsQueryID  = "5a30tCbggzoTACV_yr-cRA"
	mutedAccountsPageSize = 20
)

var mutedAccountsFeatures = map[string]any{
	"rweb_video_screen_enabled":                                         false,
	"profile_label_improvements_pcf_label_in_post_enabled":              true,
	"responsive_web_profile_redirect_enabled":                           false,
	"rweb_tipjar_consumption_enabled":                                   true,
	"verified_phone_label_enabled":                                      false,
	"creator_subscriptions_tweet_preview_api_enabled":                   true,
	"responsive_web_graphql_timeline_navigation_enabled":                true,
	"responsive_web_graphql_skip_user_profile_image_extensions_enabled": false,
	"premium_content_api_read_enabled":                                  false,
	"communities_web_enable_tweet_community_results_fetch":              true,
	"c9s_tweet_anatomy_moderator_badge_enabled":                         true,
	"articles_preview_enabled":                                          true,
	"responsive_web_edit_tweet_api_enabled":                             true,
	"graphql_is_translatable_rweb_tweet_is_translatable_enabled":        true,
	"view_counts_everywhere_api_enabled":                                true,
	"longform_notetweets_consumption_enabled":                           true,
	"freedom_of_speech_not_reach_fetch_enabled":                         true,
	"standardized_nudges_misinfo":                                       true,
	"longform_notetweets_rich_text_read_enabled":                        true,
	"longform_notetweets_inline_media_enabled":                          true,
	"responsive_web_enhance_cards_enabled":                              false,
}

type mutedAccountsResponse struct {
	Data struct {
		Viewer struct {
			MutingTimeline struct {
				Timeline struct {
					Instructions []struct {
						Type    string `json:"type"`
						Entries []struct {
							EntryID string `json:"entryId"`
							Content struct {
								EntryType   string `json:"entryType"`
								ItemContent *struct {
									UserResults struct {
										Result struct {
											RestID string `json:"rest_id"`
											Core   *struct {
												ScreenName string `json:"screen_name"`
												Name       string `json:"name"`
											} `json:"core"`
										} `json:"result"`
									} `json:"user_results"`
								} `json:"itemContent"`
								Value      string `json:"value"`
								CursorType string `json:"cursorType"`
							} `json:"content"`
						} `json:"entries"`
					} `json:"instructions"`
				} `json:"timeline"`
			} `json:"muting_timeline"`
		} `json:"viewer"`
	} `json:"data"`
}

// ListMuted fetches one page of the viewer's muted-accounts timeline.
func (c *Client) ListMuted(ctx context.Context, cursor string) (*MutedPage, error) {
	variables := map[string]any{
		"count":                  mutedAccountsPageSize,
		"includePromotedContent": false,
	}
	if cursor != "" {
		variables["cursor"] = cursor
	}

	var resp mutedAccountsResponse
	err := c.graphqlGet(ctx, mutedAccountsQueryID, "MutedAccounts",
		variables, mutedAccountsFeatures, &resp)
	if err != nil {
		return nil, err
	}

	page := &MutedPage{}
	for _, instruction := range resp.Data.Viewer.MutingTimeline.Timeline.Instructions {
		for _, entry := range instruction.Entries {
			if item := entry.Content.ItemContent; item != nil {
				result := item.UserResults.Result
				if result.RestID == "" {
					continue
				}
				me := MutedEntry{UserID: result.RestID, Username: "unknown", DisplayName: "Unknown"}
				if result.Core != nil {
					if result.Core.ScreenName != "" {
						me.Username = result.Core.ScreenName
					}
					if result.Core.Name != "" {
						me.DisplayName = result.Core.Name
					}
				}
				page.Entries = append(page.Entries, me)
			}
			if entry.Content.CursorType == "Bottom" && entry.Content.Value != "" {
				page.NextCursor = entry.Content.Value
			}
		}
	}
	return page, nil
}
