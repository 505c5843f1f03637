// Package translit converts Cyrillic display names into Latin-safe text
// and URL keyword slugs.
package translit

import (
	"regexp"
	"strings"
)

// pair is one substitution rule. Rules are evaluated in table order with
// longer source sequences listed before shorter ones, so the first match
// at a given position wins.
type pair struct {
	src string
	dst string
}

// table covers Russian and Ukrainian letters. Letters that produce
// digraphs come first; soft and hard signs map to nothing.
var table = []pair{
	{"Щ", "Sch"}, {"щ", "sch"},
	{"Ё", "Yo"}, {"Ж", "Zh"}, {"Х", "Kh"}, {"Ц", "Ts"}, {"Ч", "Ch"},
	{"Ш", "Sh"}, {"Ю", "Yu"}, {"Я", "Ya"},
	{"ё", "yo"}, {"ж", "zh"}, {"х", "kh"}, {"ц", "ts"}, {"ч", "ch"},
	{"ш", "sh"}, {"ю", "yu"}, {"я", "ya"},
	{"Є", "Ye"}, {"є", "ye"},
	{"А", "A"}, {"Б", "B"}, {"В", "V"}, {"Г", "G"}, {"Д", "D"},
	{"Е", "E"}, {"З", "Z"}, {"И", "I"}, {"Й", "J"}, {"К", "K"},
	{"Л", "L"}, {"М", "M"}, {"Н", "N"}, {"О", "O"}, {"П", "P"},
	{"Р", "R"}, {"С", "S"}, {"Т", "T"}, {"У", "U"}, {"Ф", "F"},
	{"Ь", ""}, {"Ы", "Y"}, {"Ъ", ""}, {"Э", "E"},
	{"а", "a"}, {"б", "b"}, {"в", "v"}, {"г", "g"}, {"д", "d"},
	{"е", "e"}, {"з", "z"}, {"и", "i"}, {"і", "i"}, {"й", "j"},
	{"к", "k"}, {"л", "l"}, {"м", "m"}, {"н", "n"}, {"о", "o"},
	{"п", "p"}, {"р", "r"}, {"с", "s"}, {"т", "t"}, {"у", "u"},
	{"ф", "f"}, {"ь", ""}, {"ы", "y"}, {"ъ", ""}, {"э", "e"},
	{"Ї", "I"}, {"ї", "i"}, {"Ґ", "G"}, {"ґ", "g"},
}

// Transliterate maps every table sequence in s to its Latin replacement.
// Characters outside the table pass through unchanged.
func Transliterate(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	for i := 0; i < len(s); {
		matched := false
		for _, p := range table {
			if strings.HasPrefix(s[i:], p.src) {
				b.WriteString(p.dst)
				i += len(p.src)
				matched = true
				break
			}
		}
		if !matched {
			b.WriteByte(s[i])
			i++
		}
	}

	return b.String()
}

// deleted is the punctuation stripped outright from slug input. Deletion,
// not replacement: "don't" becomes "dont", not "don-t".
const deleted = "!@#$%^&*()_=+\"'{}[]`~|\\?.,<>«»№:;"

var (
	slashRunRe  = regexp.MustCompile(`/{2,}`)
	nonSlugRe   = regexp.MustCompile(`[^a-z0-9/]`)
	hyphenRunRe = regexp.MustCompile(`-{2,}`)
)

// Slugify derives a URL keyword from a display name. The result matches
// ^[a-z0-9]+(-[a-z0-9]+)*$ or is empty, and Slugify is idempotent.
// Distinct names may collide; the importer does not deduplicate keywords.
func Slugify(s string) string {
	s = strings.Map(func(r rune) rune {
		if strings.ContainsRune(deleted, r) {
			return -1
		}
		return r
	}, s)

	s = Transliterate(strings.ToLower(s))
	s = slashRunRe.ReplaceAllString(s, "/")
	s = nonSlugRe.ReplaceAllString(s, "-")
	s = strings.ReplaceAll(s, "/", "-")
	s = hyphenRunRe.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")

	return s
}
