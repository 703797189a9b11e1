package upstream

import (
	"context"
	"encoding/json"
	"fmt"

	errs "github.com/amirhossein-jamali/game-portal/internal/domain/error"
)

// Commands understood by the games API
const (
	CmdGetGamesList = "getGamesList"
	CmdOpenGame     = "openGame"
	CmdJackpots     = "jackpots"
)

// ImageStyle selects the thumbnail variant returned by getGamesList
type ImageStyle string

// Supported image styles
const (
	ImageStyle1 ImageStyle = "game_img_1"
	ImageStyle2 ImageStyle = "game_img_2"
	ImageStyle5 ImageStyle = "game_img_5"
	ImageStyle6 ImageStyle = "game_img_6"
)

// ParseImageStyle validates an image style, falling back to def when s is empty
func ParseImageStyle(s string, def ImageStyle) (ImageStyle, error) {
	if s == "" {
		return def, nil
	}
	switch style := ImageStyle(s); style {
	case ImageStyle1, ImageStyle2, ImageStyle5, ImageStyle6:
		return style, nil
	default:
		return "", errs.NewValidationError("img", fmt.Sprintf("unsupported image style %q", s), errs.ErrInvalidInput)
	}
}

// GameListRequest holds the getGamesList parameters
type GameListRequest struct {
	ImageStyle ImageStyle
	CDNURL     string
}

// GamesAPI is the upstream games provider. Implementations return the raw JSON
// envelope once it has been checked for a success status.
type GamesAPI interface {
	FetchGameList(ctx context.Context, req GameListRequest) (json.RawMessage, error)
	OpenGame(ctx context.Context, params map[string]string) (json.RawMessage, error)
	FetchJackpots(ctx context.Context) (json.RawMessage, error)
}
