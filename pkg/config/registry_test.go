package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func testRegistry() *Registry {
	return NewRegistry(zap.NewNop().Sugar())
}

func TestResolvePlatformsFromJSON(t *testing.T) {
	r := testRegistry()
	raw := `{"shop":{"senderEmail":"noreply@shop.example.com","senderName":"Shop","mailer":"default"}}`

	platforms := r.ResolvePlatforms(raw)
	assert.NotNil(t, platforms)
	assert.Equal(t, "noreply@shop.example.com", platforms["shop"].SenderEmail)
	assert.Equal(t, "Shop", platforms["shop"].SenderName)
	assert.Equal(t, "default", platforms["shop"].Mailer)
}

func TestResolvePlatformsFromStructured(t *testing.T) {
	r := testRegistry()
	structured := map[string]Platform{
		"blog": {SenderEmail: "posts@blog.example.com", SenderName: "Blog", Mailer: "bulk"},
	}

	platforms := r.ResolvePlatforms(structured)
	assert.Equal(t, structured, platforms)
}

func TestResolvePlatformsCacheIsSticky(t *testing.T) {
	r := testRegistry()
	first := r.ResolvePlatforms(`{"a":{"senderEmail":"a@example.com","senderName":"A","mailer":"m"}}`)
	assert.NotNil(t, first)

	// a different raw value after the first successful parse must not
	// change the cached table
	second := r.ResolvePlatforms(`{"b":{"senderEmail":"b@example.com","senderName":"B","mailer":"m"}}`)
	assert.Equal(t, first, second)
	_, hasA := second["a"]
	_, hasB := second["b"]
	assert.True(t, hasA)
	assert.False(t, hasB)
}

func TestResolvePlatformsAbsent(t *testing.T) {
	r := testRegistry()
	assert.Nil(t, r.ResolvePlatforms(nil))
	assert.Nil(t, r.ResolvePlatforms(""))
	assert.Nil(t, r.ResolvePlatforms(map[string]Platform(nil)))
}

func TestResolvePlatformsMalformedJSON(t *testing.T) {
	r := testRegistry()
	assert.Nil(t, r.ResolvePlatforms(`{"broken":`))

	// a failed parse must not poison the cache
	platforms := r.ResolvePlatforms(`{"ok":{"senderEmail":"x@example.com","senderName":"X","mailer":"m"}}`)
	assert.NotNil(t, platforms)
}

func TestResolvePlatformsAbsentAfterCache(t *testing.T) {
	r := testRegistry()
	assert.NotNil(t, r.ResolvePlatforms(`{"a":{"senderEmail":"a@example.com","senderName":"A","mailer":"m"}}`))
	// an absent source still reports misconfiguration even with a warm cache
	assert.Nil(t, r.ResolvePlatforms(""))
}

func TestResolveAPIKeys(t *testing.T) {
	r := testRegistry()
	keys := r.ResolveAPIKeys(`{"shop":"key-1","blog":"key-2"}`)
	assert.Equal(t, map[string]string{"shop": "key-1", "blog": "key-2"}, keys)

	// sticky across differing raw input
	again := r.ResolveAPIKeys(`{"other":"nope"}`)
	assert.Equal(t, keys, again)
}

func TestResolveAPIKeysAbsentOrMalformed(t *testing.T) {
	r := testRegistry()
	assert.Nil(t, r.ResolveAPIKeys(""))
	assert.Nil(t, r.ResolveAPIKeys(`not-json`))
}
