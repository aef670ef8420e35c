package tui_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/fernspiel/internal/presentation/tui"
	"github.com/aretw0/fernspiel/pkg/book"
	"github.com/aretw0/fernspiel/pkg/dsl"
)

func TestBookMarkdown_Demo(t *testing.T) {
	b, err := book.Demo()
	require.NoError(t, err)
	defer b.Close()

	md := tui.BookMarkdown(b)
	assert.Contains(t, md, "# Phonebook")
	assert.Contains(t, md, "Starts in **Waiting for a caller**")
	assert.Contains(t, md, "## Ringing (`ringing`)")
	assert.Contains(t, md, "- rings for 3s")
	assert.Contains(t, md, "## Goodbye (`goodbye`) - terminal")
	assert.Contains(t, md, "- *type 1* → story")
	assert.Contains(t, md, "- *after 5s idle* → ringing")
	assert.Contains(t, md, "- *when done* → greeting")
}

func TestBookMarkdown_Sounds(t *testing.T) {
	b := dsl.New("a")
	b.Add("a").Sounds("rain")
	b.Sound("rain", "/tmp/rain.ogg").Loop().Volume(0.5)

	md := tui.BookMarkdown(b.MustBuild())
	assert.Contains(t, md, "- plays `/tmp/rain.ogg` (loop, volume 0.50)")
}

func TestPrintBanner(t *testing.T) {
	var buf bytes.Buffer
	tui.PrintBanner(&buf)
	assert.Contains(t, buf.String(), "|_|")
}
