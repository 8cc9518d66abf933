package dedupe

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"briefline/internal/domain/entity"
)

func aiBody(prefix string) string {
	return prefix + " " + strings.Repeat("the ai platform shipped a new software release today. ", 5)
}

func item(id, url, title, body, lang string, age time.Duration, now time.Time) entity.RawItem {
	return entity.RawItem{
		ID:           id,
		URL:          url,
		CanonicalURL: url,
		Title:        title,
		Body:         body,
		Lang:         lang,
		PublishedAt:  now.Add(-age),
	}
}

func TestRun_DedupeByCanonicalURL_EarlierWins(t *testing.T) {
	now := time.Now().UTC()
	items := []entity.RawItem{
		item("first", "https://a.example.com/post", "AI platform launch", aiBody("one"), "en", time.Hour, now),
		item("second", "https://a.example.com/post", "AI platform launch", aiBody("two"), "en", time.Hour, now),
	}

	result := Run(items, DefaultPolicy(), now)

	require.Len(t, result.Items, 1)
	assert.Equal(t, "first", result.Items[0].ID)
}

func TestRun_NearDuplicateFingerprint(t *testing.T) {
	now := time.Now().UTC()
	body := aiBody("shared")
	items := []entity.RawItem{
		item("orig", "https://a.example.com/1", "OpenAI Ships New Model", body, "en", time.Hour, now),
		// Same normalized title + leading tokens, reposted under a new URL.
		item("repost", "https://mirror.example.com/2", "openai  ships   new model", body, "en", time.Hour, now),
	}

	result := Run(items, DefaultPolicy(), now)

	require.Len(t, result.Items, 1)
	assert.Equal(t, "orig", result.Items[0].ID)
	assert.Equal(t, 2, result.DupNeighborSize["orig"], "suppressed near-duplicate must widen the survivor's neighborhood")
}

func TestRun_FilterStagesInOrder(t *testing.T) {
	now := time.Now().UTC()
	items := []entity.RawItem{
		item("keep", "https://a.example.com/1", "AI chip launch", aiBody("keep"), "en", time.Hour, now),
		item("wrong-lang", "https://a.example.com/2", "AI chip launch fr", aiBody("fr"), "fr", time.Hour, now),
		item("ancient", "https://a.example.com/3", "AI chip launch old", aiBody("old"), "en", 30*24*time.Hour, now),
		item("stub", "https://a.example.com/4", "AI chip launch stub", "too short", "en", time.Hour, now),
		item("off-topic", "https://a.example.com/5", "Celebrity gossip roundup", strings.Repeat("celebrity gossip fashion weekend brunch. ", 10), "en", time.Hour, now),
	}

	result := Run(items, DefaultPolicy(), now)

	require.Len(t, result.Items, 1)
	assert.Equal(t, "keep", result.Items[0].ID)

	reasons := make([]string, len(result.Summary.TopDropReasons))
	for i, r := range result.Summary.TopDropReasons {
		reasons[i] = r.Reason
	}
	assert.Equal(t, []string{"lang_not_allowed", "too_old", "body_too_short", "off_topic"}, reasons)
}

func TestRun_ShortBodyKeptWhenHydrationPending(t *testing.T) {
	now := time.Now().UTC()
	short := item("pending", "https://a.example.com/1", "AI chip launch", "ai chip launch stub", "en", time.Hour, now)
	short.NeedsFulltext = true

	result := Run([]entity.RawItem{short}, DefaultPolicy(), now)

	require.Len(t, result.Items, 1, "needs_fulltext items must survive the body-length stage")
}

func TestRun_SummaryCounters(t *testing.T) {
	now := time.Now().UTC()
	items := []entity.RawItem{
		item("a", "https://a.example.com/1", "AI launch one", aiBody("a"), "en", time.Hour, now),
		item("b", "https://a.example.com/2", "AI launch two", aiBody("b"), "en", time.Hour, now),
		item("dup", "https://a.example.com/1", "AI launch one", aiBody("a"), "en", time.Hour, now),
	}

	result := Run(items, DefaultPolicy(), now)

	assert.Equal(t, 2, result.Summary.DedupTotal)
	assert.Equal(t, 2, result.Summary.KeptTotal)
	// Deprecated alias mirrors KeptTotal for older verifiers; new code must
	// read KeptTotal.
	assert.Equal(t, result.Summary.KeptTotal, result.Summary.AfterFilterTotal)
	require.NoError(t, result.Summary.Validate())
}

func TestFingerprint_NormalizesTitleWhitespaceAndCase(t *testing.T) {
	a := fingerprint("OpenAI  Ships   Model", "body tokens here")
	b := fingerprint("openai ships model", "body tokens here")
	assert.Equal(t, a, b)

	c := fingerprint("different headline entirely", "body tokens here")
	assert.NotEqual(t, a, c)
}

func TestLangAllowed(t *testing.T) {
	allowed := []string{"en", "zh"}
	assert.True(t, langAllowed("en", allowed))
	assert.True(t, langAllowed("EN", allowed))
	assert.True(t, langAllowed("zh", allowed))
	assert.True(t, langAllowed("", allowed), "unknown language passes the allowlist stage")
	assert.False(t, langAllowed("fr", allowed))
}
