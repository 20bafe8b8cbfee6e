package infinite

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envelopeFrom(t *testing.T, body string) *Envelope {
	t.Helper()
	var env Envelope
	require.NoError(t, json.Unmarshal([]byte(body), &env))
	return &env
}

func TestEnvelope_Keys(t *testing.T) {
	empty := envelopeFrom(t, `{}`)
	assert.True(t, empty.IsEmpty())
	assert.False(t, empty.HasData())

	nullData := envelopeFrom(t, `{"data": null, "response": {"success": true}}`)
	assert.False(t, nullData.IsEmpty())
	assert.True(t, nullData.HasData())
	assert.True(t, nullData.Succeeded())

	noData := envelopeFrom(t, `{"response": {"success": true, "message": "ok"}}`)
	assert.False(t, noData.HasData())
}

func TestResolveWithData(t *testing.T) {
	_, err := ResolveWithData(envelopeFrom(t, `{}`))
	assert.True(t, errors.Is(err, ErrEmptyResponse))

	_, err = ResolveWithData(envelopeFrom(t, `{"response": {"success": true}}`))
	assert.True(t, errors.Is(err, ErrMissingData))

	data, err := ResolveWithData(envelopeFrom(t, `{"data": [1, 2]}`))
	require.NoError(t, err)
	assert.Len(t, data, 2)
}

func TestResolveWithDataID(t *testing.T) {
	id, err := ResolveWithDataID(envelopeFrom(t, `{"data": {"_id": "abc"}}`))
	require.NoError(t, err)
	assert.Equal(t, "abc", id)

	_, err = ResolveWithDataID(envelopeFrom(t, `{"data": {"name": "x"}}`))
	assert.True(t, errors.Is(err, ErrMissingID))

	_, err = ResolveWithDataID(envelopeFrom(t, `{"data": []}`))
	assert.True(t, errors.Is(err, ErrMissingID))
}

func TestResolveWithDataOrDefaults(t *testing.T) {
	arr, err := ResolveWithDataOrArray(envelopeFrom(t, `{"response": {"success": true}}`))
	require.NoError(t, err)
	assert.Equal(t, []any{}, arr)

	obj, err := ResolveWithDataOrObject(envelopeFrom(t, `{"response": {"success": true}}`))
	require.NoError(t, err)
	assert.Equal(t, map[string]any{}, obj)

	_, err = ResolveWithDataOrArray(envelopeFrom(t, `{}`))
	assert.True(t, errors.Is(err, ErrEmptyResponse))

	resp, err := ResolveWithResponse(envelopeFrom(t, `{"response": {"success": true, "message": "done"}}`))
	require.NoError(t, err)
	assert.Equal(t, "done", resp.Message)
}

func TestDecodeData(t *testing.T) {
	type record struct {
		ID       string    `json:"_id"`
		Title    string    `json:"title"`
		Count    int       `json:"count"`
		Created  time.Time `json:"created"`
		Modified time.Time `json:"modified"`
	}

	env := envelopeFrom(t, `{"data": {
		"_id": "r1",
		"title": "Record",
		"count": "3",
		"created": "Oct 7, 2015 07:38:01 PM",
		"modified": 1444246681000
	}}`)

	rec, err := DecodeData[record](env)
	require.NoError(t, err)
	assert.Equal(t, "r1", rec.ID)
	assert.Equal(t, "Record", rec.Title)
	assert.Equal(t, 3, rec.Count)
	assert.Equal(t, time.Date(2015, time.October, 7, 19, 38, 1, 0, time.UTC), rec.Created)
	assert.Equal(t, time.UnixMilli(1444246681000).UTC(), rec.Modified)
}

func TestParseTime(t *testing.T) {
	ts, err := ParseTime("Oct 7, 2015 07:38:01 PM")
	require.NoError(t, err)
	assert.Equal(t, "Oct 7, 2015 07:38:01 PM", FormatTime(ts))

	ts, err = ParseTime("2015-10-07T19:38:01Z")
	require.NoError(t, err)
	assert.Equal(t, 2015, ts.Year())

	_, err = ParseTime("not a date")
	assert.Error(t, err)
}

func TestHashPassword(t *testing.T) {
	// base64(sha256("password"))
	assert.Equal(t, "XohImNooBHFR0OVvjcYpJ3NgPQ1qq73WKhHvch0VQtg=", HashPassword("password"))
	assert.NotEqual(t, HashPassword("a"), HashPassword("b"))
}

func TestTime_JSON(t *testing.T) {
	var rec struct {
		Created  Time `json:"created"`
		Modified Time `json:"modified,omitzero"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"created": "Oct 7, 2015 07:38:01 PM", "modified": 1444246681000}`), &rec))
	assert.Equal(t, time.Date(2015, time.October, 7, 19, 38, 1, 0, time.UTC), rec.Created.Time)
	assert.Equal(t, time.UnixMilli(1444246681000).UTC(), rec.Modified.Time)

	out, err := json.Marshal(rec)
	require.NoError(t, err)
	assert.JSONEq(t, `{"created": "Oct 7, 2015 07:38:01 PM", "modified": "Oct 7, 2015 07:38:01 PM"}`, string(out))

	rec.Modified = Time{}
	out, err = json.Marshal(rec)
	require.NoError(t, err)
	assert.JSONEq(t, `{"created": "Oct 7, 2015 07:38:01 PM"}`, string(out))
}

func TestDecode_PlatformTime(t *testing.T) {
	var rec struct {
		Created Time `json:"created"`
	}
	require.NoError(t, Decode(map[string]any{"created": "Oct 7, 2015 07:38:01 PM"}, &rec))
	assert.Equal(t, 2015, rec.Created.Year())
}
