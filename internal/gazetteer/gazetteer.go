package gazetteer

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Entry - каноническая точка справочника
type Entry struct {
	Name      string
	Latitude  float64
	Longitude float64
}

// MatchKind - вид совпадения при поиске по справочнику
type MatchKind int

const (
	MatchNone MatchKind = iota
	MatchExact
	MatchPartial
)

// Gazetteer - статический справочник нормализованных названий мест.
// Чистая таблица без внешних вызовов; используется как фолбэк геокодирования.
type Gazetteer struct {
	exact   map[string]Entry
	entries []Entry
}

var foldTransformer = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Normalize приводит название к ключу справочника: нижний регистр,
// обрезанные пробелы, снятые диакритики и огласовки
func Normalize(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	folded, _, err := transform.String(foldTransformer, s)
	if err != nil {
		return s
	}
	return folded
}

// New строит справочник из встроенной таблицы
func New() *Gazetteer {
	g := &Gazetteer{exact: make(map[string]Entry, len(knownLocations))}
	for _, e := range knownLocations {
		key := Normalize(e.Name)
		if _, ok := g.exact[key]; ok {
			continue
		}
		normalized := Entry{Name: key, Latitude: e.Latitude, Longitude: e.Longitude}
		g.exact[key] = normalized
		g.entries = append(g.entries, normalized)
	}
	return g
}

// Lookup ищет место по названию. Точное совпадение имеет приоритет над
// частичным (запрос содержит запись или запись содержит запрос).
// При нескольких частичных совпадениях детерминированно побеждает самая
// длинная запись.
func (g *Gazetteer) Lookup(name string) (Entry, MatchKind) {
	key := Normalize(name)
	if key == "" {
		return Entry{}, MatchNone
	}

	if e, ok := g.exact[key]; ok {
		return e, MatchExact
	}

	var best Entry
	found := false
	for _, e := range g.entries {
		if !strings.Contains(key, e.Name) && !strings.Contains(e.Name, key) {
			continue
		}
		if !found || len(e.Name) > len(best.Name) {
			best = e
			found = true
		}
	}
	if found {
		return best, MatchPartial
	}
	return Entry{}, MatchNone
}

// ExtractAny ищет любое название из справочника как подстроку текста.
// Побеждает самая длинная запись; используется последним текстовым фолбэком.
func (g *Gazetteer) ExtractAny(text string) (Entry, bool) {
	key := Normalize(text)
	if key == "" {
		return Entry{}, false
	}

	var best Entry
	found := false
	for _, e := range g.entries {
		if !strings.Contains(key, e.Name) {
			continue
		}
		if !found || len(e.Name) > len(best.Name) {
			best = e
			found = true
		}
	}
	return best, found
}
