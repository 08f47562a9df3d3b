package stream

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func extractText(raw []byte) (string, bool) {
	var chunk struct {
		Text string `json:"text"`
	}
	if err := json.Unmarshal(raw, &chunk); err != nil {
		return "", false
	}
	return chunk.Text, true
}

func TestAccumulateSSE(t *testing.T) {
	body := strings.Join([]string{
		`data: {"text":"A"}`,
		``,
		`data: {"text":"B"}`,
		``,
		`data: {"text":"C"}`,
		``,
		`data: [DONE]`,
	}, "\n")

	var got []string
	final, err := Accumulate(NewDecoder(strings.NewReader(body), FormatSSE), extractText, func(s string) {
		got = append(got, s)
	}, nil)

	require.NoError(t, err)
	assert.Equal(t, []string{"A", "AB", "ABC"}, got)
	assert.Equal(t, "ABC", final)
}

func TestAccumulateLines(t *testing.T) {
	body := "{\"text\":\"Ahoj\"}\n{\"text\":\" světe\"}\n"

	var got []string
	final, err := Accumulate(NewDecoder(strings.NewReader(body), FormatLines), extractText, func(s string) {
		got = append(got, s)
	}, nil)

	require.NoError(t, err)
	assert.Equal(t, []string{"Ahoj", "Ahoj světe"}, got)
	assert.Equal(t, "Ahoj světe", final)
}

func TestAccumulateSkipsMalformedChunks(t *testing.T) {
	body := strings.Join([]string{
		`data: {"text":"A"}`,
		`data: {not json`,
		`data: {"text":"B"}`,
	}, "\n")

	var got []string
	final, err := Accumulate(NewDecoder(strings.NewReader(body), FormatSSE), extractText, func(s string) {
		got = append(got, s)
	}, nil)

	require.NoError(t, err)
	assert.Equal(t, []string{"A", "AB"}, got)
	assert.Equal(t, "AB", final)
}

func TestAccumulateSkipsEmptyTextChunks(t *testing.T) {
	body := strings.Join([]string{
		`data: {"text":"A"}`,
		`data: {"other":"field"}`,
		`data: {"text":"B"}`,
		`data: [DONE]`,
	}, "\n")

	var calls int
	final, err := Accumulate(NewDecoder(strings.NewReader(body), FormatSSE), extractText, func(string) {
		calls++
	}, nil)

	require.NoError(t, err)
	assert.Equal(t, 2, calls)
	assert.Equal(t, "AB", final)
}

func TestDecoderStopsAtDoneSentinel(t *testing.T) {
	body := strings.Join([]string{
		`data: {"text":"A"}`,
		`data: [DONE]`,
		`data: {"text":"ignored"}`,
	}, "\n")

	final, err := Accumulate(NewDecoder(strings.NewReader(body), FormatSSE), extractText, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "A", final)
}

func TestSnapshotsSequence(t *testing.T) {
	body := "{\"text\":\"x\"}\n{\"text\":\"y\"}\n{\"text\":\"z\"}\n"

	var got []string
	for snap := range NewDecoder(strings.NewReader(body), FormatLines).Snapshots(extractText) {
		got = append(got, snap)
	}
	assert.Equal(t, []string{"x", "xy", "xyz"}, got)
}

func TestSnapshotsEarlyBreak(t *testing.T) {
	body := "{\"text\":\"x\"}\n{\"text\":\"y\"}\n"

	for range NewDecoder(strings.NewReader(body), FormatLines).Snapshots(extractText) {
		break
	}
	// reaching here without panic is the assertion
}
