// Package l10n holds the user-facing strings qjsup shows through the host
// UI. Strings are addressed by numeric id so a host can substitute its own
// localized resources for the same ids.
package l10n

import (
	"fmt"
	"strconv"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// String ids.
const (
	Heading        = 30000 // dialog heading
	ConfirmInstall = 30001 // yes/no prompt; takes the version
	Downloading    = 30002 // progress message; takes the version
	InstallDone    = 30004 // completion notice; takes the version
)

var messages = map[language.Tag]map[int]string{
	language.English: {
		Heading:        "QuickJS",
		ConfirmInstall: "QuickJS %s is available. Download and install it now?",
		Downloading:    "Downloading QuickJS %s...",
		InstallDone:    "QuickJS %s has been installed.",
	},
	language.German: {
		Heading:        "QuickJS",
		ConfirmInstall: "QuickJS %s ist verfügbar. Jetzt herunterladen und installieren?",
		Downloading:    "QuickJS %s wird heruntergeladen...",
		InstallDone:    "QuickJS %s wurde installiert.",
	},
	language.French: {
		Heading:        "QuickJS",
		ConfirmInstall: "QuickJS %s est disponible. Le télécharger et l'installer maintenant ?",
		Downloading:    "Téléchargement de QuickJS %s...",
		InstallDone:    "QuickJS %s a été installé.",
	},
}

// supported lists the catalog languages; the first is the fallback.
var supported = []language.Tag{language.English, language.German, language.French}

var (
	builder = newBuilder()
	matcher = language.NewMatcher(supported)
)

func newBuilder() *catalog.Builder {
	b := catalog.NewBuilder(catalog.Fallback(language.English))
	for tag, strs := range messages {
		for id, msg := range strs {
			if err := b.SetString(tag, key(id), msg); err != nil {
				panic(fmt.Sprintf("l10n: bad message %d for %s: %v", id, tag, err))
			}
		}
	}
	return b
}

func key(id int) string {
	return strconv.Itoa(id)
}

// Catalog looks up strings for one language.
type Catalog struct {
	tag     language.Tag
	printer *message.Printer
}

// New returns a catalog for the closest supported match to lang, a BCP 47
// tag such as "de-AT". Unsupported languages fall back to English.
func New(lang string) (*Catalog, error) {
	requested, err := language.Parse(lang)
	if err != nil {
		return nil, fmt.Errorf("parse language %q: %w", lang, err)
	}

	_, idx, _ := matcher.Match(requested)
	tag := supported[idx]

	return &Catalog{
		tag:     tag,
		printer: message.NewPrinter(tag, message.Catalog(builder)),
	}, nil
}

// Language returns the language strings are served in.
func (c *Catalog) Language() language.Tag {
	return c.tag
}

// String formats the string with the given id. Unknown ids render as
// "#<id>" so a missing translation is visible rather than blank.
func (c *Catalog) String(id int, args ...any) string {
	if _, ok := messages[language.English][id]; !ok {
		return "#" + key(id)
	}
	return c.printer.Sprintf(key(id), args...)
}
