package topics

import (
	"bytes"
	"testing"
	"testing/fstest"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testFS() fstest.MapFS {
	return fstest.MapFS{
		"ledger.md":         {Data: []byte("# Ledger\n\nThe completion ledger.")},
		"option-strict.txt": {Data: []byte("Strict mode records after success.")},
		"notes.txxt":        {Data: []byte("custom extension")},
		"ignore.json":       {Data: []byte("{}")},
		"nested/steps.md":   {Data: []byte("# Steps")},
	}
}

func TestScan(t *testing.T) {
	t.Run("default extensions", func(t *testing.T) {
		tm := New(testFS(), Options{})
		require.NoError(t, tm.Scan())

		assert.Equal(t, []string{"ledger", "option-strict", "steps"}, tm.ListTopics())
		topic, ok := tm.GetTopic("ledger")
		require.True(t, ok)
		assert.Equal(t, "ledger.md", topic.FilePath)
		assert.Contains(t, topic.Content, "completion ledger")
	})

	t.Run("custom extensions", func(t *testing.T) {
		tm := New(testFS(), Options{Extensions: []string{".txxt"}})
		require.NoError(t, tm.Scan())
		assert.Equal(t, []string{"notes"}, tm.ListTopics())
	})

	t.Run("nil source", func(t *testing.T) {
		tm := New(nil, Options{})
		require.NoError(t, tm.Scan())
		assert.Empty(t, tm.ListTopics())
	})
}

func TestGetTopic_FlagStyle(t *testing.T) {
	tm := New(testFS(), Options{})
	require.NoError(t, tm.Scan())

	for _, name := range []string{"--strict", "-strict", "strict", "option-strict"} {
		topic, ok := tm.GetTopic(name)
		require.True(t, ok, name)
		assert.Equal(t, "option-strict", topic.Name)
	}
	_, ok := tm.GetTopic("missing")
	assert.False(t, ok)
}

type upperRenderer struct{ ext string }

func (r *upperRenderer) Render(content, ext string) string {
	r.ext = ext
	return "RENDERED:" + content
}

func newRoot(t *testing.T, r Renderer) (*cobra.Command, *bytes.Buffer) {
	t.Helper()
	root := &cobra.Command{Use: "envboot", Run: func(*cobra.Command, []string) {}}
	root.AddCommand(&cobra.Command{Use: "bootstrap", Short: "Run every step", Run: func(*cobra.Command, []string) {}})
	_, err := Initialize(root, testFS(), Options{Renderer: r})
	require.NoError(t, err)

	buf := &bytes.Buffer{}
	root.SetOut(buf)
	root.SetErr(buf)
	return root, buf
}

func TestHelpCommand_Topic(t *testing.T) {
	r := &upperRenderer{}
	root, buf := newRoot(t, r)
	root.SetArgs([]string{"help", "ledger"})

	require.NoError(t, root.Execute())
	assert.Contains(t, buf.String(), "RENDERED:# Ledger")
	assert.Equal(t, ".md", r.ext)
}

func TestHelpCommand_TopicList(t *testing.T) {
	root, buf := newRoot(t, nil)
	root.SetArgs([]string{"help", "topics"})

	require.NoError(t, root.Execute())
	out := buf.String()
	assert.Contains(t, out, "General topics:")
	assert.Contains(t, out, "  ledger")
	assert.Contains(t, out, "  --strict")
	assert.Contains(t, out, "'envboot help <topic>'")
}

func TestHelpCommand_FallsBackToCommandHelp(t *testing.T) {
	root, buf := newRoot(t, nil)
	root.SetArgs([]string{"help", "bootstrap"})

	require.NoError(t, root.Execute())
	assert.Contains(t, buf.String(), "Run every step")
}

func TestWriteList_Empty(t *testing.T) {
	buf := &bytes.Buffer{}
	New(fstest.MapFS{}, Options{}).WriteList(buf, "envboot")
	assert.Equal(t, "No help topics available.\n", buf.String())
}

func TestMarkdownRenderer(t *testing.T) {
	r := NewMarkdownRenderer("notty", 60)
	assert.Equal(t, "plain text", r.Render("plain text", ".txt"))

	out := r.Render("# Title\n\nSome **bold** words.", ".md")
	assert.Contains(t, out, "Title")
	assert.Contains(t, out, "bold")
	assert.NotEqual(t, "# Title\n\nSome **bold** words.", out)
}

func TestRendererFunc(t *testing.T) {
	tagged := RendererFunc(func(content, ext string) string { return ext + ":" + content })
	assert.Equal(t, ".md:x", tagged.Render("x", ".md"))
	assert.Equal(t, "x", PlainRenderer.Render("x", ".md"))
}
