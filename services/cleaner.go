package services

import (
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/markusmobius/go-dateparser"

	"morizon-scraper/utils"
)

// DateParser turns free-text publish dates ("3 dni temu", "12 maja 2021")
// into calendar dates.
type DateParser interface {
	ParseDate(raw string) (time.Time, error)
}

// LocaleDateParser parses date phrases in a fixed set of languages.
type LocaleDateParser struct {
	languages []string
	now       func() time.Time
}

// NewLocaleDateParser returns a parser for the given languages, e.g. "pl".
func NewLocaleDateParser(languages ...string) *LocaleDateParser {
	return &LocaleDateParser{languages: languages, now: time.Now}
}

func (p *LocaleDateParser) ParseDate(raw string) (time.Time, error) {
	cfg := &dateparser.Configuration{
		Languages:   p.languages,
		CurrentTime: p.now(),
	}
	dt, err := dateparser.Parse(cfg, raw)
	if err != nil {
		return time.Time{}, err
	}
	return dt.Time, nil
}

// floorWords maps Polish ordinal stems to floor numbers. Order matters: the
// first stem contained in the text wins. Stems are matched by substring so
// inflected forms ("drugie", "drugim") resolve too; a word that merely contains
// a stem (e.g. "trz" inside an unrelated word) will also match.
var floorWords = []struct {
	stem  string
	floor int
}{
	{"parter", 0},
	{"pierwsz", 1},
	{"drug", 2},
	{"trz", 3},
	{"czwa", 4},
	{"pią", 5},
	{"szó", 6},
	{"sió", 7},
	{"ósm", 8},
	{"dziew", 9},
	{"dzies", 10},
}

// Cleaner normalizes locale-formatted text scraped from listing pages into
// typed values. Every method returns nil for text it cannot interpret.
type Cleaner struct {
	logger *utils.Logger
	dates  DateParser
}

// NewCleaner creates a Cleaner. dates may be nil, in which case Date always
// reports an absent value.
func NewCleaner(logger *utils.Logger, dates DateParser) *Cleaner {
	return &Cleaner{logger: logger, dates: dates}
}

// Decimal strips the given labels and units, drops all whitespace, swaps the
// decimal comma for a dot and parses the rest.
//
//	"450 000 zł"  -> 450000
//	"12,5 m²"     -> 12.5
func (c *Cleaner) Decimal(raw string, strip ...string) *float64 {
	s := stripAll(raw, strip)
	s = strings.ReplaceAll(s, ",", ".")
	return utils.TryParse(s, func(v string) (float64, error) {
		return strconv.ParseFloat(v, 64)
	})
}

// Int strips the given labels, drops whitespace and parses a plain integer.
func (c *Cleaner) Int(raw string, strip ...string) *int {
	return utils.TryParse(stripAll(raw, strip), strconv.Atoi)
}

// Floor interprets a floor descriptor: "parter", "2/5", "piąte", "7".
// Only the part before a slash is considered.
func (c *Cleaner) Floor(raw string) *int {
	val := strings.ToLower(raw)
	if i := strings.Index(val, "/"); i >= 0 {
		val = val[:i]
	}
	val = strings.TrimSpace(val)

	for _, w := range floorWords {
		if strings.Contains(val, w.stem) {
			floor := w.floor
			return &floor
		}
	}
	return utils.TryParse(val, strconv.Atoi)
}

// Date runs raw through the configured DateParser and truncates the result to
// a calendar day.
func (c *Cleaner) Date(raw string) *time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" || c.dates == nil {
		return nil
	}
	t := utils.TryParse(raw, c.dates.ParseDate)
	if t == nil {
		c.logger.Debug("[cleaner] unparseable date %q", raw)
		return nil
	}
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return &day
}

// NormaliseText strips leading/trailing whitespace and collapses internal
// whitespace, newlines included.
func NormaliseText(s string) string {
	return strings.Join(strings.FieldsFunc(s, unicode.IsSpace), " ")
}

func stripAll(raw string, strip []string) string {
	s := raw
	for _, token := range strip {
		s = strings.ReplaceAll(s, token, "")
	}
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}
