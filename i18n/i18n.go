// Package i18n localizes extloc's own user-facing messages.
//
// It wraps the gotext library; catalogs are embedded in the binary and
// selected at startup from the environment. The tool grew up translating
// a Chinese-language extension, so a zh_CN catalog ships built in.
package i18n

import (
	"embed"
	"os"
	"strings"

	"github.com/leonelquinteros/gotext"
)

// locales embeds the PO catalogs.
// Directory structure: locales/{lang}/LC_MESSAGES/extloc.po
//
//go:embed all:locales
var locales embed.FS

const domain = "extloc"

var locale *gotext.Locale

// Init loads the message catalog. An empty lang auto-detects from
// LANGUAGE, LC_ALL, LC_MESSAGES, LANG (in that order, matching GNU
// gettext). Call once at startup before any T().
func Init(lang string) {
	if lang == "" {
		lang = detectLanguage()
	}

	locale = gotext.NewLocaleFSWithPath(lang, locales, "locales")
	locale.AddDomain(domain)
	locale.SetDomain(domain)
}

// T translates a message, returning it unchanged when no translation is
// available.
func T(msgid string) string {
	if locale == nil {
		return msgid
	}
	return locale.Get(msgid)
}

// detectLanguage reads the environment following GNU gettext conventions.
func detectLanguage() string {
	for _, env := range []string{"LANGUAGE", "LC_ALL", "LC_MESSAGES", "LANG"} {
		val := os.Getenv(env)
		if val == "" {
			continue
		}
		if env == "LANGUAGE" {
			val, _, _ = strings.Cut(val, ":")
		}
		if idx := strings.IndexByte(val, '.'); idx >= 0 {
			val = val[:idx]
		}
		if val == "C" || val == "POSIX" || val == "" {
			continue
		}
		return val
	}
	return "en"
}
