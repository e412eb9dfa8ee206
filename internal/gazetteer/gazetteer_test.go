package gazetteer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookup_ExactMatch(t *testing.T) {
	g := New()

	e, kind := g.Lookup("Tel Aviv")
	require.Equal(t, MatchExact, kind)
	assert.InDelta(t, 32.0853, e.Latitude, 0.0001)
	assert.InDelta(t, 34.7818, e.Longitude, 0.0001)
}

func TestLookup_HebrewAlias(t *testing.T) {
	g := New()

	e, kind := g.Lookup("ירושלים")
	require.Equal(t, MatchExact, kind)
	assert.InDelta(t, 31.7683, e.Latitude, 0.0001)
}

func TestLookup_CaseAndWhitespaceInsensitive(t *testing.T) {
	g := New()

	e1, kind1 := g.Lookup("  NAZARETH ")
	e2, kind2 := g.Lookup("nazareth")
	require.Equal(t, MatchExact, kind1)
	require.Equal(t, MatchExact, kind2)
	assert.Equal(t, e1, e2)
}

func TestLookup_PartialMatch(t *testing.T) {
	g := New()

	// Запрос содержит запись справочника
	e, kind := g.Lookup("old market street, kafr qasim")
	require.Equal(t, MatchPartial, kind)
	assert.InDelta(t, 32.1136, e.Latitude, 0.0001)
}

func TestLookup_PartialMatch_LongestWins(t *testing.T) {
	g := New()

	// "baqa al-gharbiyye" и "baqa" указывают на одну точку; при частичном
	// совпадении детерминированно выбирается самая длинная запись
	e, kind := g.Lookup("shooting near baqa al-gharbiyye entrance")
	require.Equal(t, MatchPartial, kind)
	assert.Equal(t, "baqa al-gharbiyye", e.Name)
}

func TestLookup_ExactBeatsPartial(t *testing.T) {
	g := New()

	// "baqa" есть и как запись, и как подстрока "baqa al-gharbiyye";
	// точное совпадение побеждает без перебора частичных
	e, kind := g.Lookup("baqa")
	require.Equal(t, MatchExact, kind)
	assert.InDelta(t, 32.4167, e.Latitude, 0.0001)
}

func TestLookup_NoMatch(t *testing.T) {
	g := New()

	_, kind := g.Lookup("atlantis")
	assert.Equal(t, MatchNone, kind)

	_, kind = g.Lookup("")
	assert.Equal(t, MatchNone, kind)
}

func TestExtractAny(t *testing.T) {
	g := New()

	e, ok := g.ExtractAny("ירי ליד הכניסה הדרומית של רהט בשעות הערב")
	require.True(t, ok)
	assert.InDelta(t, 31.3925, e.Latitude, 0.0001)

	_, ok = g.ExtractAny("no recognizable place here")
	assert.False(t, ok)
}

func TestNormalize_Diacritics(t *testing.T) {
	// Огласовки и диакритики снимаются при нормализации
	assert.Equal(t, Normalize("café"), Normalize("cafe"))
}
