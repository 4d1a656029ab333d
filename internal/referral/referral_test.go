package referral

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAbsent(t *testing.T) {
	t.Parallel()

	for _, raw := range []string{"", "null", " null ", "{}"} {
		_, ok, err := Parse(json.RawMessage(raw))
		require.NoError(t, err, raw)
		assert.False(t, ok, raw)
	}

	_, ok, err := Parse(nil)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestParseClickToChatAd(t *testing.T) {
	t.Parallel()

	raw := json.RawMessage(`{
		"source_type": "ad",
		"source_id": "120000000000",
		"ctwa_clid": "AfezXYZ123",
		"headline": "Cronos 0km - cuotas fijas",
		"body": "Tomamos usado, financiá",
		"image_url": "https://example.com/ad.png"
	}`)
	ref, ok, err := Parse(raw)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "ad", ref.SourceType)
	assert.Equal(t, "120000000000", ref.SourceID)
	assert.Equal(t, "AfezXYZ123", ref.CtwaClid)
	assert.Equal(t, "Cronos 0km - cuotas fijas", ref.Headline)
	assert.Equal(t, "Tomamos usado, financiá", ref.Body)

	var kept map[string]any
	require.NoError(t, json.Unmarshal(ref.Raw, &kept))
	assert.Equal(t, "https://example.com/ad.png", kept["image_url"])
}

func TestParseDefaultsSourceTypeAndNumericSourceID(t *testing.T) {
	t.Parallel()

	ref, ok, err := Parse(json.RawMessage(`{"source_id": 120000000000, "headline": null}`))
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, DefaultSourceType, ref.SourceType)
	assert.Equal(t, "120000000000", ref.SourceID)
	assert.Empty(t, ref.Headline)
}

func TestParseKeepsLargeIntegers(t *testing.T) {
	t.Parallel()

	raw := json.RawMessage(`{"source_type":"ad","source_id":120211234567890123,"ad_id":120211234567890123}`)
	ref, ok, err := Parse(raw)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "120211234567890123", ref.SourceID)
	assert.JSONEq(t, string(raw), string(ref.Raw))
	assert.Contains(t, string(ref.Raw), `"ad_id":120211234567890123`)
}

func TestParseCoercesScalarSourceType(t *testing.T) {
	t.Parallel()

	tests := []struct {
		raw  string
		want string
	}{
		{`{"source_type": 1}`, "1"},
		{`{"source_type": 2.5}`, "2.5"},
		{`{"source_type": true}`, "true"},
		{`{"source_type": null, "ctwa_clid": "c"}`, DefaultSourceType},
	}
	for _, tt := range tests {
		ref, ok, err := Parse(json.RawMessage(tt.raw))
		require.NoError(t, err, tt.raw)
		require.True(t, ok, tt.raw)
		assert.Equal(t, tt.want, ref.SourceType, tt.raw)
	}
}

func TestParseRejectsWrongShape(t *testing.T) {
	t.Parallel()

	for _, raw := range []string{
		`{"headline": {"text": "nested"}}`,
		`{"ctwa_clid": ["a", "b"]}`,
		`{"headline": 7}`,
		`{"source_type": {"kind": "ad"}}`,
		`["ad"]`,
		`"ad"`,
		`{"source_type":`,
	} {
		_, _, err := Parse(json.RawMessage(raw))
		assert.ErrorIs(t, err, ErrInvalid, raw)
	}
}
