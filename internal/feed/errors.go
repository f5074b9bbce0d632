package feed

import "errors"

var (
	ErrNoTeamsFound   = errors.New("no team data found")
	ErrNoPlayersFound = errors.New("no player data found")
)
