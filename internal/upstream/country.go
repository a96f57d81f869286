package upstream

import "context"

const aboutAccountQueryID = "XRqGa7EeokUU5kppkh13EA"

type aboutAccountResponse struct {
	Data struct {
		UserResultByScreenName struct {
			Result struct {
				AboutProfile *struct {
					AccountBasedIn string `json:"account_based_in"`
				} `json:"about_profile"`
			} `json:"result"`
		} `json:"user_result_by_screen_name"`
	} `json:"data"`
}

// ResolveCountry returns the account's declared country, "" when the account
// has no about-profile.
func (c *Client) ResolveCountry(ctx context.Context, username string) (string, error) {
	var resp aboutAccountResponse
	err := c.graphqlGet(ctx, aboutAccountQueryID, "AboutAccountQuery",
		map[string]any{"screenName": username}, nil, &resp)
	if err != nil {
		return "", err
	}

	about := resp.Data.UserResultByScreenName.Result.AboutProfile
	if about == nil {
		return "", nil
	}
	return about.AccountBasedIn, nil
}
