package workspace

import (
	"net/url"
	"path/filepath"
	"strings"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"

	_ "github.com/tliron/commonlog/simple"

	"github.com/dhamidi/arbor/rlang/ast"
	"github.com/dhamidi/arbor/text"
	"github.com/dhamidi/arbor/tree"
)

const lsName = "arbor"

type LSPServer struct {
	workspace *Workspace
	handler   protocol.Handler
	server    *server.Server
	version   string
	treeOpts  []tree.Option
}

func NewLSPServer(version string, opts ...tree.Option) *LSPServer {
	ls := &LSPServer{
		version:  version,
		treeOpts: opts,
	}

	ls.handler = protocol.Handler{
		Initialize:                 ls.initialize,
		Initialized:                ls.initialized,
		Shutdown:                   ls.shutdown,
		SetTrace:                   ls.setTrace,
		TextDocumentDidOpen:        ls.textDocumentDidOpen,
		TextDocumentDidChange:      ls.textDocumentDidChange,
		TextDocumentDidClose:       ls.textDocumentDidClose,
		TextDocumentDidSave:        ls.textDocumentDidSave,
		TextDocumentCompletion:     ls.textDocumentCompletion,
		TextDocumentDocumentSymbol: ls.textDocumentDocumentSymbol,
	}

	ls.server = server.NewServer(&ls.handler, lsName, false)

	return ls
}

func (ls *LSPServer) RunStdio() error {
	return ls.server.RunStdio()
}

func (ls *LSPServer) initialize(ctx *glsp.Context, params *protocol.InitializeParams) (any, error) {
	rootDir := "."
	if params.RootPath != nil && *params.RootPath != "" {
		rootDir = *params.RootPath
	} else if params.RootURI != nil && *params.RootURI != "" {
		if path, err := uriToPath(*params.RootURI); err == nil {
			rootDir = path
		}
	}

	ls.workspace = New(rootDir, ls.treeOpts...)

	capabilities := ls.handler.CreateServerCapabilities()

	capabilities.TextDocumentSync = &protocol.TextDocumentSyncOptions{
		OpenClose: boolPtr(true),
		Change:    syncKindPtr(protocol.TextDocumentSyncKindIncremental),
		Save: &protocol.SaveOptions{
			IncludeText: boolPtr(true),
		},
	}

	capabilities.CompletionProvider = &protocol.CompletionOptions{}
	capabilities.DocumentSymbolProvider = true

	return protocol.InitializeResult{
		Capabilities: capabilities,
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    lsName,
			Version: &ls.version,
		},
	}, nil
}

func (ls *LSPServer) initialized(ctx *glsp.Context, params *protocol.InitializedParams) error {
	ls.workspace.ScanAll()
	return nil
}

func (ls *LSPServer) shutdown(ctx *glsp.Context) error {
	ls.workspace.Close()
	return nil
}

func (ls *LSPServer) setTrace(ctx *glsp.Context, params *protocol.SetTraceParams) error {
	protocol.SetTraceValue(params.Value)
	return nil
}

func (ls *LSPServer) textDocumentDidOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil
	}
	doc := ls.workspace.Open(path, params.TextDocument.Text)
	ls.schedulePublish(ctx, params.TextDocument.URI, doc)
	return nil
}

func (ls *LSPServer) textDocumentDidChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil
	}
	doc := ls.workspace.Get(path)
	if doc == nil {
		return nil
	}
	for _, change := range params.ContentChanges {
		switch c := change.(type) {
		case protocol.TextDocumentContentChangeEvent:
			if c.Range == nil {
				doc.SetText(c.Text)
				continue
			}
			snap := doc.Buffer().Snapshot()
			start := snap.OffsetAt(int(c.Range.Start.Line), int(c.Range.Start.Character))
			end := snap.OffsetAt(int(c.Range.End.Line), int(c.Range.End.Character))
			doc.Apply(text.Edit{Start: start, OldLength: end - start, Text: c.Text})
		case protocol.TextDocumentContentChangeEventWhole:
			doc.SetText(c.Text)
		}
	}
	ls.schedulePublish(ctx, params.TextDocument.URI, doc)
	return nil
}

func (ls *LSPServer) textDocumentDidClose(ctx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil
	}
	ls.workspace.Remove(path)
	return nil
}

func (ls *LSPServer) textDocumentDidSave(ctx *glsp.Context, params *protocol.DidSaveTextDocumentParams) error {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil
	}
	if params.Text != nil {
		doc := ls.workspace.Open(path, *params.Text)
		ls.schedulePublish(ctx, params.TextDocument.URI, doc)
	} else {
		ls.workspace.ScanFile(path)
	}
	return nil
}

// schedulePublish sends diagnostics once the document's tree catches up
// with its buffer. Re-registering on every change keeps exactly one
// publication queued per document.
func (ls *LSPServer) schedulePublish(ctx *glsp.Context, uri string, doc *Document) {
	doc.InvokeWhenReady("publish-diagnostics", func(any) {
		ls.publishDiagnostics(ctx, uri, doc)
	}, nil, true)
}

func (ls *LSPServer) publishDiagnostics(ctx *glsp.Context, uri string, doc *Document) {
	root := doc.Ready()
	snap := doc.Buffer().Snapshot()

	diagnostics := make([]protocol.Diagnostic, 0, len(root.Diagnostics))
	for _, d := range root.Diagnostics {
		severity := protocol.DiagnosticSeverityError
		if d.Severity == ast.SeverityWarning {
			severity = protocol.DiagnosticSeverityWarning
		}
		diagnostics = append(diagnostics, protocol.Diagnostic{
			Range:    toProtocolRange(snap, d.Range),
			Severity: &severity,
			Message:  d.Message,
		})
	}

	ctx.Notify(protocol.ServerTextDocumentPublishDiagnostics, protocol.PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: diagnostics,
	})
}

func (ls *LSPServer) textDocumentCompletion(ctx *glsp.Context, params *protocol.CompletionParams) (any, error) {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil, nil
	}
	doc := ls.workspace.Get(path)
	if doc == nil {
		return nil, nil
	}
	snap := doc.Buffer().Snapshot()
	offset := snap.OffsetAt(int(params.Position.Line), int(params.Position.Character))

	completions := ls.workspace.CompletionsAt(path, offset)
	if len(completions) == 0 {
		return nil, nil
	}

	items := make([]protocol.CompletionItem, 0, len(completions))
	for _, c := range completions {
		kind := toProtocolKind(c.Kind)
		detail := c.Detail
		insertText := c.InsertText
		format := protocol.InsertTextFormatPlainText
		if strings.Contains(insertText, "$1") {
			format = protocol.InsertTextFormatSnippet
		}
		item := protocol.CompletionItem{
			Label:            c.Label,
			Kind:             &kind,
			InsertText:       &insertText,
			InsertTextFormat: &format,
		}
		if detail != "" {
			item.Detail = &detail
		}
		items = append(items, item)
	}
	return items, nil
}

func (ls *LSPServer) textDocumentDocumentSymbol(ctx *glsp.Context, params *protocol.DocumentSymbolParams) (any, error) {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil, nil
	}
	doc := ls.workspace.Get(path)
	if doc == nil {
		return nil, nil
	}
	snap := doc.Buffer().Snapshot()

	var symbols []protocol.DocumentSymbol
	for _, sym := range ls.workspace.DocumentSymbols(path) {
		kind := protocol.SymbolKindVariable
		if sym.Function {
			kind = protocol.SymbolKindFunction
		}
		r := toProtocolRange(snap, sym.Range)
		symbols = append(symbols, protocol.DocumentSymbol{
			Name:           sym.Name,
			Kind:           kind,
			Range:          r,
			SelectionRange: r,
		})
	}
	return symbols, nil
}

func toProtocolRange(snap *text.Snapshot, r ast.TextRange) protocol.Range {
	startLine, startChar := snap.PositionAt(r.Start)
	endLine, endChar := snap.PositionAt(r.End())
	return protocol.Range{
		Start: protocol.Position{Line: protocol.UInteger(startLine), Character: protocol.UInteger(startChar)},
		End:   protocol.Position{Line: protocol.UInteger(endLine), Character: protocol.UInteger(endChar)},
	}
}

func toProtocolKind(kind CompletionKind) protocol.CompletionItemKind {
	switch kind {
	case CompletionKindVariable:
		return protocol.CompletionItemKindVariable
	case CompletionKindFunction:
		return protocol.CompletionItemKindFunction
	case CompletionKindKeyword:
		return protocol.CompletionItemKindKeyword
	default:
		return protocol.CompletionItemKindText
	}
}

func uriToPath(uri string) (string, error) {
	if strings.HasPrefix(uri, "file://") {
		parsed, err := url.Parse(uri)
		if err != nil {
			return "", err
		}
		return filepath.Clean(parsed.Path), nil
	}
	return uri, nil
}

func boolPtr(b bool) *bool {
	return &b
}

func syncKindPtr(kind protocol.TextDocumentSyncKind) *protocol.TextDocumentSyncKind {
	return &kind
}
