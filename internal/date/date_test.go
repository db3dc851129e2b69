package date

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLayouts(t *testing.T) {
	want := time.Date(2024, 3, 9, 14, 5, 6, 0, time.UTC)
	inputs := []string{
		"2024-03-09T14:05:06Z",
		"2024-03-09T14:05:06+00:00",
		"2024-03-09T14:05:06",
		"2024-03-09 14:05:06",
		" 2024-03-09T14:05:06.000000 ",
	}
	for _, in := range inputs {
		t.Run(in, func(t *testing.T) {
			ts, err := Parse(in)
			require.NoError(t, err)
			assert.True(t, want.Equal(ts.Time), "got %s", ts)
		})
	}

	day, err := Parse("2024-03-09")
	require.NoError(t, err)
	assert.Equal(t, 9, day.Day())

	_, err = Parse("yesterday")
	require.Error(t, err)
}

func TestNaiveTimestampIsUTC(t *testing.T) {
	ts, err := Parse("2024-03-09T23:30:00.123456")
	require.NoError(t, err)
	assert.Equal(t, time.UTC, ts.Location())
	assert.Equal(t, 123456000, ts.Nanosecond())
}

func TestDisplay(t *testing.T) {
	assert.Empty(t, Timestamp{}.Display(DisplayFormat))

	ts := New(time.Date(2024, 3, 9, 12, 0, 0, 0, time.Local))
	assert.Equal(t, "2024-03-09", ts.Display(""))
	assert.Equal(t, "09 Mar 2024", ts.Display("02 Jan 2006"))
}

func TestJSON(t *testing.T) {
	var v struct {
		At Timestamp `json:"at"`
	}

	require.NoError(t, json.Unmarshal([]byte(`{"at":"2024-03-09T14:05:06.5"}`), &v))
	assert.Equal(t, 500000000, v.At.Nanosecond())

	out, err := json.Marshal(v)
	require.NoError(t, err)
	assert.JSONEq(t, `{"at":"2024-03-09T14:05:06.5Z"}`, string(out))

	require.NoError(t, json.Unmarshal([]byte(`{"at":null}`), &v))
	assert.True(t, v.At.IsZero())

	require.NoError(t, json.Unmarshal([]byte(`{"at":""}`), &v))
	out, err = json.Marshal(v)
	require.NoError(t, err)
	assert.JSONEq(t, `{"at":null}`, string(out))

	require.Error(t, json.Unmarshal([]byte(`{"at":"not a date"}`), &v))
	require.Error(t, json.Unmarshal([]byte(`{"at":42}`), &v))
}
