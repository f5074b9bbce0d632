package feed

import (
	"fmt"
	"log/slog"

	"github.com/omarshaarawi/leaguefeed/internal/models"
)

// NormalizePlayers flattens every player of every team into a record tagged
// with its team's name.
func NormalizePlayers(doc []byte) (models.PlayerSet, error) {
	root, err := Parse(doc)
	if err != nil {
		return models.PlayerSet{}, fmt.Errorf("%w: %v", ErrNoTeamsFound, err)
	}
	return normalizePlayers(root, TeamChain, PlayerChain)
}

func normalizePlayers(root *Node, teams, players Chain) (models.PlayerSet, error) {
	strategy, teamNodes := teams.Resolve(root)
	if len(teamNodes) == 0 {
		return models.PlayerSet{}, ErrNoTeamsFound
	}
	slog.Debug("Resolved team elements", "selector", strategy, "count", len(teamNodes))

	var set models.PlayerSet
	seen := make(map[string]struct{})
	for _, teamNode := range teamNodes {
		team := models.TeamRecord{Attributes: attributes(teamNode)}
		name, ok := team.Attributes.Get("name")
		if !ok {
			name = models.UnknownTeam
		}
		set.Teams = append(set.Teams, team)
		if _, dup := seen[name]; !dup {
			seen[name] = struct{}{}
			set.TeamNames = append(set.TeamNames, name)
		}

		_, playerNodes := players.Resolve(teamNode)
		for _, playerNode := range playerNodes {
			record := models.PlayerRecord{Attributes: models.Attributes{{Key: models.TeamNameKey, Value: name}}}
			for _, attr := range attributes(playerNode) {
				if attr.Key == models.TeamNameKey {
					continue
				}
				record.Attributes.Set(attr.Key, attr.Value)
			}
			set.Players = append(set.Players, record)
		}
	}

	if len(set.Players) == 0 {
		return models.PlayerSet{}, ErrNoPlayersFound
	}
	return set, nil
}

func attributes(n *Node) models.Attributes {
	attrs := make(models.Attributes, 0, len(n.Attrs))
	for _, a := range n.Attrs {
		attrs.Set(a.Name.Local, a.Value)
	}
	return attrs
}
