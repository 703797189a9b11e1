package catalog

import (
	"strconv"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/amirhossein-jamali/game-portal/internal/domain/entity"
)

// idFields lists the upstream fields that may carry a game identifier, by precedence
var idFields = []string{"id", "game_id", "uid", "uuid", "sys_id", "code", "key", "slug", "external_id"}

// Flatten turns a provider-grouped content object into one FlatGame per raw game,
// preserving bucket order and then in-bucket order. Buckets that are not arrays or
// objects and games that are not objects are skipped.
func Flatten(content gjson.Result) []entity.FlatGame {
	var games []entity.FlatGame

	content.ForEach(func(label, bucket gjson.Result) bool {
		if !bucket.IsArray() && !bucket.IsObject() {
			return true
		}
		bucketLabel := label.String()

		bucket.ForEach(func(_, raw gjson.Result) bool {
			if raw.IsObject() {
				games = append(games, flattenGame(bucketLabel, raw))
			}
			return true
		})
		return true
	})

	return games
}

func flattenGame(bucketLabel string, raw gjson.Result) entity.FlatGame {
	provider := scalarString(field(raw, "provider"))
	if provider == "" {
		provider = bucketLabel
	}

	return entity.FlatGame{
		ID:          resolveID(raw),
		SourceID:    scalarString(field(raw, "id")),
		Name:        scalarString(field(raw, "name")),
		Img:         scalarString(field(raw, "img")),
		Categories:  categories(field(raw, "categories")),
		Provider:    provider,
		Device:      intFlag(field(raw, "device"), entity.DefaultDevice),
		Demo:        intFlag(field(raw, "demo"), 0),
		BM:          intFlag(field(raw, "bm"), 0),
		RewriteRule: intFlag(field(raw, "rewriterule"), 0),
		ExitButton:  intFlag(field(raw, "exitButton"), 0),
	}
}

// field looks a key up literally, without gjson path syntax
func field(obj gjson.Result, name string) gjson.Result {
	var found gjson.Result
	obj.ForEach(func(key, value gjson.Result) bool {
		if key.String() == name {
			found = value
			return false
		}
		return true
	})
	return found
}

func resolveID(raw gjson.Result) string {
	for _, name := range idFields {
		if id := scalarString(field(raw, name)); id != "" {
			return id
		}
	}
	return ""
}

// scalarString renders strings and numbers trimmed; everything else is absent
func scalarString(v gjson.Result) string {
	switch v.Type {
	case gjson.String:
		return strings.TrimSpace(v.Str)
	case gjson.Number:
		return strings.TrimSpace(v.Raw)
	default:
		return ""
	}
}

func categories(v gjson.Result) string {
	if !v.IsArray() {
		return scalarString(v)
	}
	var parts []string
	v.ForEach(func(_, item gjson.Result) bool {
		if s := scalarString(item); s != "" {
			parts = append(parts, s)
		}
		return true
	})
	return strings.Join(parts, ",")
}

// intFlag reads a boolean-like integer, falling back to def when absent or unparsable
func intFlag(v gjson.Result, def int) int {
	switch v.Type {
	case gjson.Number:
		return int(v.Int())
	case gjson.True:
		return 1
	case gjson.False:
		return 0
	case gjson.String:
		if n, err := strconv.Atoi(strings.TrimSpace(v.Str)); err == nil {
			return n
		}
	}
	return def
}
