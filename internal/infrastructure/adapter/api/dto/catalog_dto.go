package dto

import "github.com/amirhossein-jamali/game-portal/internal/domain/entity"

// GameListQuery selects the upstream image style and CDN
type GameListQuery struct {
	ImageStyle string `form:"img"`
	CDNURL     string `form:"cdnUrl"`
}

// CatalogQuery pages through persisted catalog entries
type CatalogQuery struct {
	Provider string `form:"provider"`
	Limit    int    `form:"limit"`
	Offset   int    `form:"offset"`
}

// SyncRequest triggers a catalog synchronization; unset flags use the configured defaults
type SyncRequest struct {
	ImageStyle string `json:"img" form:"img"`
	CDNURL     string `json:"cdnUrl" form:"cdnUrl"`
	DryRun     bool   `json:"dryRun" form:"dryRun"`
	Prune      *bool  `json:"prune" form:"prune"`
}

// GamesResponse lists catalog entries
type GamesResponse struct {
	Count int                        `json:"count"`
	Games []*entity.GameCatalogEntry `json:"games"`
}

// NewGamesResponse never returns a nil list
func NewGamesResponse(games []*entity.GameCatalogEntry) GamesResponse {
	if games == nil {
		games = []*entity.GameCatalogEntry{}
	}
	return GamesResponse{Count: len(games), Games: games}
}
