package lsp

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	lsp "github.com/sourcegraph/go-lsp"
	"github.com/sourcegraph/jsonrpc2"
	"src.rvim.sh/pkg/must"
	. "src.rvim.sh/pkg/prog/progtest"
	"src.rvim.sh/pkg/testutil"
)

func TestProgram(t *testing.T) {
	Test(t, &Program{},
		// The server quits when stdin is closed.
		ThatVimscript("-lsp").DoesNothing(),
		ThatVimscript().ExitsWith(2).WritesStderr("internal error: no suitable subprogram\n"),
	)
}

type client struct {
	t     *testing.T
	conn  *jsonrpc2.Conn
	diags chan lsp.PublishDiagnosticsParams
}

func setup(t *testing.T) *client {
	serverSide, clientSide := net.Pipe()
	s := must.OK1(newServer())
	ctx := context.Background()
	serverConn := jsonrpc2.NewConn(ctx,
		jsonrpc2.NewBufferedStream(serverSide, jsonrpc2.VSCodeObjectCodec{}), handler(s))
	c := &client{t: t, diags: make(chan lsp.PublishDiagnosticsParams, 10)}
	c.conn = jsonrpc2.NewConn(ctx,
		jsonrpc2.NewBufferedStream(clientSide, jsonrpc2.VSCodeObjectCodec{}),
		jsonrpc2.HandlerWithError(c.handle))
	t.Cleanup(func() {
		c.conn.Close()
		serverConn.Close()
	})
	return c
}

func (c *client) handle(_ context.Context, _ *jsonrpc2.Conn, req *jsonrpc2.Request) (any, error) {
	if req.Method == "textDocument/publishDiagnostics" && req.Params != nil {
		var params lsp.PublishDiagnosticsParams
		if json.Unmarshal(*req.Params, &params) == nil {
			c.diags <- params
		}
	}
	return nil, nil
}

func (c *client) call(method string, params, result any) error {
	c.t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), testutil.Scaled(2*time.Second))
	defer cancel()
	return c.conn.Call(ctx, method, params, result)
}

func (c *client) open(uri lsp.DocumentURI, text string) {
	c.t.Helper()
	must.OK(c.call("textDocument/didOpen", lsp.DidOpenTextDocumentParams{
		TextDocument: lsp.TextDocumentItem{URI: uri, Text: text}}, nil))
}

func (c *client) change(uri lsp.DocumentURI, text string) {
	c.t.Helper()
	must.OK(c.call("textDocument/didChange", lsp.DidChangeTextDocumentParams{
		TextDocument:   lsp.VersionedTextDocumentIdentifier{TextDocumentIdentifier: lsp.TextDocumentIdentifier{URI: uri}},
		ContentChanges: []lsp.TextDocumentContentChangeEvent{{Text: text}}}, nil))
}

func (c *client) nextDiags() lsp.PublishDiagnosticsParams {
	c.t.Helper()
	select {
	case d := <-c.diags:
		return d
	case <-time.After(testutil.Scaled(2 * time.Second)):
		c.t.Fatal("timed out waiting for diagnostics")
		return lsp.PublishDiagnosticsParams{}
	}
}

func (c *client) complete(uri lsp.DocumentURI, line, char int) []lsp.CompletionItem {
	c.t.Helper()
	var items []lsp.CompletionItem
	must.OK(c.call("textDocument/completion", lsp.CompletionParams{
		TextDocumentPositionParams: lsp.TextDocumentPositionParams{
			TextDocument: lsp.TextDocumentIdentifier{URI: uri},
			Position:     lsp.Position{Line: line, Character: char}}}, &items))
	return items
}

func TestInitialize(t *testing.T) {
	c := setup(t)
	var result lsp.InitializeResult
	must.OK(c.call("initialize", lsp.InitializeParams{}, &result))
	if result.Capabilities.CompletionProvider == nil {
		t.Errorf("completion not advertised")
	}
	if !result.Capabilities.HoverProvider {
		t.Errorf("hover not advertised")
	}
}

func TestUnknownMethod(t *testing.T) {
	c := setup(t)
	err := c.call("textDocument/rename", nil, nil)
	var rpcErr *jsonrpc2.Error
	if !errors.As(err, &rpcErr) || rpcErr.Code != jsonrpc2.CodeMethodNotFound {
		t.Errorf("got error %v, want method not found", err)
	}
}

func TestInvalidParams(t *testing.T) {
	c := setup(t)
	err := c.call("textDocument/didOpen", []int{1}, nil)
	var rpcErr *jsonrpc2.Error
	if !errors.As(err, &rpcErr) || rpcErr.Code != jsonrpc2.CodeInvalidParams {
		t.Errorf("got error %v, want invalid params", err)
	}
}

func TestDiagnostics(t *testing.T) {
	c := setup(t)
	const uri = "file:///a.vim"

	c.open(uri, "echo 1\nif 1\n  echo 2\n")
	want := lsp.PublishDiagnosticsParams{URI: uri, Diagnostics: []lsp.Diagnostic{{
		Range: lsp.Range{
			Start: lsp.Position{Line: 1, Character: 0},
			End:   lsp.Position{Line: 1, Character: 4}},
		Severity: lsp.Error,
		Source:   "parse",
		Message:  "unexpected end of script",
	}}}
	if diff := cmp.Diff(want, c.nextDiags()); diff != "" {
		t.Errorf("diagnostics (-want +got):\n%s", diff)
	}

	c.change(uri, "echo 1\nif 1\n  echo 2\nendif\nendwhile")
	want.Diagnostics[0].Range = lsp.Range{
		Start: lsp.Position{Line: 4, Character: 0},
		End:   lsp.Position{Line: 4, Character: 8}}
	want.Diagnostics[0].Message = "unexpected keyword: endwhile"
	if diff := cmp.Diff(want, c.nextDiags()); diff != "" {
		t.Errorf("diagnostics (-want +got):\n%s", diff)
	}

	c.change(uri, "echo 1\n")
	if got := c.nextDiags(); len(got.Diagnostics) != 0 {
		t.Errorf("got diagnostics %v, want none", got.Diagnostics)
	}
}

func labels(items []lsp.CompletionItem, kind lsp.CompletionItemKind) []string {
	var names []string
	for _, item := range items {
		if item.Kind == kind {
			names = append(names, item.Label)
		}
	}
	return names
}

func TestCompletion_Commands(t *testing.T) {
	c := setup(t)
	const uri = "file:///a.vim"
	c.open(uri, "ech")
	c.nextDiags()

	items := c.complete(uri, 0, 3)
	if diff := cmp.Diff([]string{"echo", "echomsg"}, labels(items, lsp.CIKKeyword)); diff != "" {
		t.Errorf("labels (-want +got):\n%s", diff)
	}
	wantEdit := &lsp.TextEdit{
		Range:   lsp.Range{End: lsp.Position{Character: 3}},
		NewText: "echo",
	}
	if diff := cmp.Diff(wantEdit, items[0].TextEdit); diff != "" {
		t.Errorf("text edit (-want +got):\n%s", diff)
	}
}

func TestCompletion_AfterBar(t *testing.T) {
	c := setup(t)
	const uri = "file:///a.vim"
	c.open(uri, "echo 1 | sourc")
	c.nextDiags()

	got := labels(c.complete(uri, 0, 14), lsp.CIKKeyword)
	if diff := cmp.Diff([]string{"source"}, got); diff != "" {
		t.Errorf("labels (-want +got):\n%s", diff)
	}
}

func TestCompletion_FunctionsAndVariables(t *testing.T) {
	c := setup(t)
	const uri = "file:///a.vim"
	code := "let g:counter = 1\nfunction! MyFunc()\nendfunction\ncall strl\ncall MyF\necho g:cou"
	c.open(uri, code)
	c.nextDiags()

	if got := labels(c.complete(uri, 3, 9), lsp.CIKFunction); !containsString(got, "strlen") {
		t.Errorf("got %v, want strlen among them", got)
	}
	if diff := cmp.Diff([]string{"MyFunc"}, labels(c.complete(uri, 4, 8), lsp.CIKFunction)); diff != "" {
		t.Errorf("labels (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"g:counter"}, labels(c.complete(uri, 5, 10), lsp.CIKVariable)); diff != "" {
		t.Errorf("labels (-want +got):\n%s", diff)
	}
}

func TestHover(t *testing.T) {
	c := setup(t)
	const uri = "file:///a.vim"
	c.open(uri, "ec len('x')\nlet x = 1")
	c.nextDiags()

	tests := []struct {
		line, char int
		want       string
	}{
		{0, 1, "command :echo"},
		{0, 4, "builtin function len()"},
		{1, 4, ""},
	}
	for _, test := range tests {
		var result map[string]any
		must.OK(c.call("textDocument/hover", lsp.TextDocumentPositionParams{
			TextDocument: lsp.TextDocumentIdentifier{URI: uri},
			Position:     lsp.Position{Line: test.line, Character: test.char}}, &result))
		got := ""
		if contents, _ := result["contents"].([]any); len(contents) > 0 {
			got, _ = contents[0].(string)
		}
		if got != test.want {
			t.Errorf("hover at %d:%d: got %q, want %q", test.line, test.char, got, test.want)
		}
	}
}

func containsString(names []string, name string) bool {
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}
