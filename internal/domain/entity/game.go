package entity

import "time"

// DefaultDevice is the device-support flag assumed when upstream omits it
const DefaultDevice = 2

// FlatGame is one raw upstream game with its provider bucket resolved
type FlatGame struct {
	ID          string `json:"id"`
	SourceID    string `json:"source_id"`
	Name        string `json:"name"`
	Img         string `json:"img"`
	Categories  string `json:"categories"`
	Provider    string `json:"provider"`
	Device      int    `json:"device"`
	Demo        int    `json:"demo"`
	BM          int    `json:"bm"`
	RewriteRule int    `json:"rewriterule"`
	ExitButton  int    `json:"exitButton"`
}

// GameCatalogEntry is a normalized, deduplicated playable game
type GameCatalogEntry struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Provider    string    `json:"provider"`
	Device      int       `json:"device"`
	Categories  string    `json:"categories"`
	Thumbnail   string    `json:"img"`
	Demo        bool      `json:"demo"`
	Bookmark    bool      `json:"bm"`
	RewriteRule bool      `json:"rewriterule"`
	ExitButton  bool      `json:"exitButton"`
	CreatedAt   time.Time `json:"-"`
	UpdatedAt   time.Time `json:"-"`
}

// SameContent compares every synchronized field, ignoring timestamps
func (g *GameCatalogEntry) SameContent(other *GameCatalogEntry) bool {
	return g.ID == other.ID &&
		g.Name == other.Name &&
		g.Provider == other.Provider &&
		g.Device == other.Device &&
		g.Categories == other.Categories &&
		g.Thumbnail == other.Thumbnail &&
		g.Demo == other.Demo &&
		g.Bookmark == other.Bookmark &&
		g.RewriteRule == other.RewriteRule &&
		g.ExitButton == other.ExitButton
}

// CopyContentFrom overwrites the synchronized fields with the ones of src
func (g *GameCatalogEntry) CopyContentFrom(src *GameCatalogEntry) {
	g.Name = src.Name
	g.Provider = src.Provider
	g.Device = src.Device
	g.Categories = src.Categories
	g.Thumbnail = src.Thumbnail
	g.Demo = src.Demo
	g.Bookmark = src.Bookmark
	g.RewriteRule = src.RewriteRule
	g.ExitButton = src.ExitButton
}

// SyncResult summarizes a reconciliation run
type SyncResult struct {
	Fetched   int  `json:"fetched"`
	Unique    int  `json:"unique"`
	Inserted  int  `json:"inserted"`
	Updated   int  `json:"updated"`
	Unchanged int  `json:"unchanged"`
	Pruned    int  `json:"pruned"`
	DryRun    bool `json:"dryRun"`
}
