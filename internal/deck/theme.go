package deck

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Theme is a named, ordered set of icon tokens a deck can be built from
type Theme struct {
	Name  string
	Icons []Token
}

// ErrUnknownTheme is returned by LookupTheme for names that are not registered
var ErrUnknownTheme = errors.New("unknown icon pack")

// DefaultTheme is the icon pack used when none is configured
const DefaultTheme = "default"

var themes = map[string]Theme{
	"default": {Name: "default", Icons: []Token{
		"fa-diamond", "fa-paper-plane", "fa-anchor", "fa-bolt", "fa-cube",
		"fa-leaf", "fa-bicycle", "fa-bomb", "fa-heart", "fa-star",
	}},
	"animals": {Name: "animals", Icons: []Token{
		"fa-dog", "fa-cat", "fa-fish", "fa-crow", "fa-horse",
		"fa-dragon", "fa-frog", "fa-hippo", "fa-otter", "fa-kiwi-bird",
	}},
	"food": {Name: "food", Icons: []Token{
		"fa-pizza-slice", "fa-burger", "fa-ice-cream", "fa-cookie", "fa-bacon",
		"fa-cake-candles", "fa-mug-hot", "fa-lemon", "fa-apple-whole", "fa-carrot",
	}},
	"sports": {Name: "sports", Icons: []Token{
		"fa-basketball", "fa-football", "fa-table-tennis-paddle-ball", "fa-baseball", "fa-volleyball",
		"fa-futbol", "fa-golf-ball-tee", "fa-bowling-ball", "fa-hockey-puck", "fa-dumbbell",
	}},
	"emojis": {Name: "emojis", Icons: []Token{
		"fa-face-frown", "fa-face-smile", "fa-face-meh", "fa-face-surprise", "fa-face-angry",
		"fa-face-grin", "fa-face-grimace", "fa-face-rolling-eyes", "fa-face-sad-cry", "fa-face-astonished",
	}},
}

// LookupTheme returns the built-in icon pack with the given name
func LookupTheme(name string) (Theme, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" {
		key = DefaultTheme
	}
	theme, ok := themes[key]
	if !ok {
		return Theme{}, fmt.Errorf("%w: %q", ErrUnknownTheme, name)
	}
	icons := make([]Token, len(theme.Icons))
	copy(icons, theme.Icons)
	return Theme{Name: theme.Name, Icons: icons}, nil
}

// ThemeNames returns the names of all built-in icon packs, sorted
func ThemeNames() []string {
	names := make([]string, 0, len(themes))
	for name := range themes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// distinctPrefix reports how many icons at the head of the theme are
// distinct before the first repeat.
func (t Theme) distinctPrefix(n int) int {
	seen := make(map[Token]struct{}, n)
	for i, icon := range t.Icons {
		if i == n {
			return n
		}
		if _, dup := seen[icon]; dup {
			return i
		}
		seen[icon] = struct{}{}
	}
	return len(seen)
}
