// Package i18n holds the client's localized strings.
//
// Keys are dotted paths ("auth.login.success"). Placeholders are written as
// {name} and filled from the args map passed to T. Unknown keys fall back to
// English and then to the key itself, so a missing translation never hides a
// message.
package i18n

import (
	"strings"

	"golang.org/x/text/language"
)

var supported = []language.Tag{language.English, language.French}

var matcher = language.NewMatcher(supported)

var catalogs = map[language.Tag]map[string]string{
	language.English: en,
	language.French:  fr,
}

// Translator resolves keys for one locale.
type Translator struct {
	tag      language.Tag
	messages map[string]string
}

// New picks the best supported locale for the given BCP 47 tag or
// Accept-Language style list ("fr-CA", "de, fr;q=0.8"). Anything
// unrecognised yields English.
func New(locale string) *Translator {
	tags, _, err := language.ParseAcceptLanguage(locale)
	if err != nil || len(tags) == 0 {
		tags = []language.Tag{language.English}
	}

	_, idx, _ := matcher.Match(tags...)
	tag := supported[idx]
	return &Translator{tag: tag, messages: catalogs[tag]}
}

// Locale returns the negotiated language, e.g. "en" or "fr".
func (t *Translator) Locale() string {
	return t.tag.String()
}

// T returns the message for key with {placeholders} replaced from args in a
// single pass, so substituted values are never expanded again. Later maps
// override earlier ones.
func (t *Translator) T(key string, args ...map[string]string) string {
	msg, ok := t.messages[key]
	if !ok {
		msg, ok = en[key]
	}
	if !ok {
		msg = key
	}

	if len(args) == 0 {
		return msg
	}
	vars := make(map[string]string)
	for _, a := range args {
		for k, v := range a {
			vars[k] = v
		}
	}
	pairs := make([]string, 0, 2*len(vars))
	for k, v := range vars {
		pairs = append(pairs, "{"+k+"}", v)
	}
	return strings.NewReplacer(pairs...).Replace(msg)
}
