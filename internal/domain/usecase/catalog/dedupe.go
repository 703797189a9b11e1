package catalog

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"strings"
	"unicode/utf8"

	"github.com/amirhossein-jamali/game-portal/internal/domain/entity"
)

// Identity key namespaces
const (
	keyID       = "id:"
	keyProvName = "provname:"
	keyImg      = "img:"
	keyHash     = "hash:"
)

// SyntheticIDPrefix marks identifiers derived from a bucket key when upstream sent none
const SyntheticIDPrefix = "syn-"

// candidate is a normalized FlatGame with its derived keys
type candidate struct {
	game        entity.FlatGame
	nameKey     string
	providerKey string
	imgKey      string
	imgScore    int
	serialized  int
}

// Deduper merges FlatGames that refer to the same playable game
type Deduper struct {
	normalizer *Normalizer
}

// NewDeduper creates a Deduper using the given normalizer
func NewDeduper(normalizer *Normalizer) *Deduper {
	return &Deduper{normalizer: normalizer}
}

// Dedupe resolves identities and keeps the best-described entry per bucket.
// Output follows bucket creation order, which is stable for a given input.
func (d *Deduper) Dedupe(flat []entity.FlatGame) []*entity.GameCatalogEntry {
	var order []string
	buckets := make(map[string]*candidate)
	aliases := make(map[string]string)

	for _, g := range flat {
		c := d.normalize(g)
		keys := c.identityKeys()

		bucketKey := ""
		for _, k := range keys {
			if owner, ok := aliases[k]; ok {
				bucketKey = owner
				break
			}
		}

		if bucketKey == "" {
			bucketKey = keys[0]
			buckets[bucketKey] = c
			order = append(order, bucketKey)
		} else if c.outranks(buckets[bucketKey]) {
			buckets[bucketKey] = c
		}

		// aliases are first-writer-wins
		for _, k := range append(c.aliasKeys(keys), bucketKey) {
			if _, taken := aliases[k]; !taken {
				aliases[k] = bucketKey
			}
		}
	}

	entries := make([]*entity.GameCatalogEntry, 0, len(order))
	for _, key := range order {
		entries = append(entries, buckets[key].toEntry(key))
	}
	return entries
}

func (d *Deduper) normalize(g entity.FlatGame) *candidate {
	g.ID = strings.TrimSpace(g.ID)
	g.Name = CollapseSpace(g.Name)
	g.Provider = CollapseSpace(g.Provider)
	g.Categories = CollapseSpace(g.Categories)
	g.Img = d.normalizer.CleanImage(g.Img)

	c := &candidate{
		game:        g,
		nameKey:     NameKey(g.Name),
		providerKey: ProviderKey(g.Provider),
		imgKey:      ImageKey(g.Img),
		imgScore:    ImageScore(g.Img),
	}
	if raw, err := json.Marshal(g); err == nil {
		c.serialized = len(raw)
	}
	return c
}

// identityKeys lists every applicable identity in priority order; never empty
func (c *candidate) identityKeys() []string {
	var keys []string
	if c.game.ID != "" {
		keys = append(keys, keyID+c.game.ID)
	}
	if c.providerKey != "" && c.nameKey != "" {
		keys = append(keys, keyProvName+c.providerKey+"#"+c.nameKey)
	}
	if c.imgKey != "" {
		keys = append(keys, keyImg+c.imgKey)
	}
	if len(keys) == 0 {
		keys = append(keys, keyHash+contentHash(c.game.Name+"|"+c.game.Provider+"|"+c.imgKey))
	}
	return keys
}

// aliasKeys restricts an entry with an id to its id: keys
func (c *candidate) aliasKeys(keys []string) []string {
	if c.game.ID == "" {
		return keys
	}
	var idKeys []string
	for _, k := range keys {
		if strings.HasPrefix(k, keyID) {
			idKeys = append(idKeys, k)
		}
	}
	return idKeys
}

// outranks applies the merge tie-break: id, provider, image score, name length, serialized length
func (c *candidate) outranks(current *candidate) bool {
	if hasIn, hasCur := c.game.ID != "", current.game.ID != ""; hasIn != hasCur {
		return hasIn
	}
	if hasIn, hasCur := c.game.Provider != "", current.game.Provider != ""; hasIn != hasCur {
		return hasIn
	}
	if c.imgScore != current.imgScore {
		return c.imgScore > current.imgScore
	}
	if in, cur := utf8.RuneCountInString(c.game.Name), utf8.RuneCountInString(current.game.Name); in != cur {
		return in > cur
	}
	return c.serialized > current.serialized
}

func (c *candidate) toEntry(bucketKey string) *entity.GameCatalogEntry {
	id := c.game.ID
	if id == "" {
		id = SyntheticIDPrefix + contentHash(bucketKey)[:16]
	}
	return &entity.GameCatalogEntry{
		ID:          id,
		Name:        c.game.Name,
		Provider:    c.game.Provider,
		Device:      c.game.Device,
		Categories:  c.game.Categories,
		Thumbnail:   c.game.Img,
		Demo:        c.game.Demo != 0,
		Bookmark:    c.game.BM != 0,
		RewriteRule: c.game.RewriteRule != 0,
		ExitButton:  c.game.ExitButton != 0,
	}
}

func contentHash(s string) string {
	sum := sha1.Sum([]byte(s))
	return hex.EncodeToString(sum[:])
}
