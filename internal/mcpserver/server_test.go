package mcpserver

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/starford/folio/internal/docstore"
	"github.com/starford/folio/internal/models"
	"github.com/starford/folio/internal/testutil"
)

func testServer(t *testing.T, files map[string]string) *Server {
	t.Helper()
	_, store := testutil.TestDocs(t, files)
	return New(docstore.New(store, nil), "test")
}

func callTool(t *testing.T, srv *Server, name string, args map[string]any) *mcp.CallToolResult {
	t.Helper()
	ctx := context.Background()
	req := mcp.CallToolRequest{}
	req.Method = "tools/call"
	req.Params.Name = name
	req.Params.Arguments = args

	// mcp-go has no in-process "call tool" helper; invoke the handlers directly.
	var result *mcp.CallToolResult
	var err error

	switch name {
	case "list_documents":
		result, err = srv.listDocuments(ctx, req)
	case "read_document":
		result, err = srv.readDocument(ctx, req)
	case "get_document_format":
		result, err = srv.getDocumentFormat(ctx, req)
	default:
		t.Fatalf("unknown tool: %s", name)
	}

	require.NoError(t, err, "tool %s", name)
	return result
}

func resultText(r *mcp.CallToolResult) string {
	if len(r.Content) > 0 {
		if tc, ok := r.Content[0].(mcp.TextContent); ok {
			return tc.Text
		}
	}
	return ""
}

func TestReadDocument(t *testing.T) {
	srv := testServer(t, map[string]string{
		"hello.md": "---\n{title: 'Hello'}\n---\n# Hello",
	})

	r := callTool(t, srv, "read_document", map[string]any{"slug": "hello"})
	require.False(t, r.IsError, resultText(r))

	var doc models.Document
	require.NoError(t, json.Unmarshal([]byte(resultText(r)), &doc))
	assert.Equal(t, "hello", doc.Slug)
	assert.Equal(t, "\n# Hello", doc.Content)
	require.NotNil(t, doc.Metadata)
	require.NotNil(t, doc.Metadata.Title)
	assert.Equal(t, "Hello", *doc.Metadata.Title)
}

func TestReadDocumentMissing(t *testing.T) {
	srv := testServer(t, nil)
	r := callTool(t, srv, "read_document", map[string]any{"slug": "nope"})
	assert.True(t, r.IsError)
	assert.Contains(t, resultText(r), "not found")
}

func TestListDocuments(t *testing.T) {
	srv := testServer(t, map[string]string{
		"a.md":  "---\n{title: 'Alpha'}\n---\n",
		"_b.md": "b",
		"c.txt": "c",
	})

	text := resultText(callTool(t, srv, "list_documents", map[string]any{}))
	assert.Equal(t, "a\tAlpha", text)

	text = resultText(callTool(t, srv, "list_documents", map[string]any{"include_hidden": true}))
	lines := strings.Split(text, "\n")
	assert.ElementsMatch(t, []string{"a\tAlpha", "_b"}, lines)
}

func TestListedNamesAreReadable(t *testing.T) {
	srv := testServer(t, map[string]string{"_draft.md": "d", "post.md": "p"})

	text := resultText(callTool(t, srv, "list_documents", map[string]any{"include_hidden": true}))
	for _, name := range strings.Split(text, "\n") {
		r := callTool(t, srv, "read_document", map[string]any{"slug": name})
		assert.False(t, r.IsError, "read %q: %s", name, resultText(r))
	}
}

func TestListDocumentsEmpty(t *testing.T) {
	srv := testServer(t, nil)
	assert.Equal(t, "no documents found", resultText(callTool(t, srv, "list_documents", map[string]any{})))
}

func TestGetDocumentFormat(t *testing.T) {
	srv := testServer(t, nil)
	text := resultText(callTool(t, srv, "get_document_format", nil))
	assert.Contains(t, text, "metadata block")
	assert.Contains(t, text, "JSON5")
}
