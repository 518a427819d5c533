package nexusmods

import (
	"strconv"
	"time"
)

// ModInfo is the subset of Nexus metadata the mod manager shows and stores
type ModInfo struct {
	ModID        string
	GameDomain   string
	Name         string
	Summary      string
	Version      string
	Author       string
	Endorsements int
	UpdatedAt    time.Time
	URL          string
}

type modNode struct {
	ModID        int    `graphql:"modId"`
	Name         string `graphql:"name"`
	Summary      string `graphql:"summary"`
	Version      string `graphql:"version"`
	Author       string `graphql:"author"`
	Endorsements int    `graphql:"endorsements"`
	UpdatedAt    string `graphql:"updatedAt"`
}

func (n modNode) toInfo(gameDomain string) ModInfo {
	id := strconv.Itoa(n.ModID)
	info := ModInfo{
		ModID:        id,
		GameDomain:   gameDomain,
		Name:         n.Name,
		Summary:      n.Summary,
		Version:      n.Version,
		Author:       n.Author,
		Endorsements: n.Endorsements,
		URL:          ModURL(gameDomain, id),
	}
	if t, err := time.Parse(time.RFC3339, n.UpdatedAt); err == nil {
		info.UpdatedAt = t
	}
	return info
}
