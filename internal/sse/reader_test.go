package sse

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadData(t *testing.T) {
	stream := "event: message\ndata:one\n\ndata: two\n\n: comment\ndata:\ndata:[DONE]\ndata:after\n"

	var got []string
	err := ReadData(strings.NewReader(stream), func(data []byte) bool {
		got = append(got, string(data))
		return true
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"one", "two"}, got)
}

func TestReadDataStopsWhenCallbackDeclines(t *testing.T) {
	var got []string
	err := ReadData(strings.NewReader("data:a\ndata:b\ndata:c\n"), func(data []byte) bool {
		got = append(got, string(data))
		return len(got) < 2
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, got)
}
