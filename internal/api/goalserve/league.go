package goalserve

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

type API struct {
	client *Client
}

func NewAPI(client *Client) *API {
	return &API{client: client}
}

func (a *API) PlayersURL(leagueID string) string {
	return a.feedURL("soccerleague", leagueID)
}

func (a *API) FixturesURL(leagueID string) string {
	return a.feedURL("soccerfixtures", "leagueid", leagueID)
}

func (a *API) PlayersDocument(leagueID string, maxRetries int, timeout time.Duration) ([]byte, error) {
	doc, err := a.client.Fetch(a.PlayersURL(leagueID), maxRetries, timeout)
	if err != nil {
		return nil, fmt.Errorf("fetching league %s players: %w", leagueID, err)
	}
	return doc, nil
}

func (a *API) FixturesDocument(leagueID string, maxRetries int, timeout time.Duration) ([]byte, error) {
	doc, err := a.client.Fetch(a.FixturesURL(leagueID), maxRetries, timeout)
	if err != nil {
		return nil, fmt.Errorf("fetching league %s fixtures: %w", leagueID, err)
	}
	return doc, nil
}

func (a *API) feedURL(segments ...string) string {
	parts := []string{strings.TrimRight(a.client.Config.BaseURL, "/"), url.PathEscape(a.client.Config.APIKey)}
	for _, s := range segments {
		parts = append(parts, url.PathEscape(s))
	}
	return strings.Join(parts, "/")
}
