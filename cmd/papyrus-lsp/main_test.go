package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/pacer/papyrus/cmd/papyrus-lsp/lsp"
	"github.com/pacer/papyrus/internal/config"
	"github.com/pacer/papyrus/internal/papyrus/testutil"
)

type message struct {
	Id     *int               `json:"id"`
	Method string             `json:"method"`
	Result json.RawMessage    `json:"result"`
	Error  *lsp.ResponseError `json:"error"`
	Params json.RawMessage    `json:"params"`
}

func request(t *testing.T, id int, method string, params any) []byte {
	t.Helper()
	return frame(t, map[string]any{"jsonrpc": "2.0", "id": id, "method": method, "params": params})
}

func notification(t *testing.T, method string, params any) []byte {
	t.Helper()
	return frame(t, map[string]any{"jsonrpc": "2.0", "method": method, "params": params})
}

func frame(t *testing.T, content any) []byte {
	t.Helper()

	data, err := json.Marshal(content)
	if err != nil {
		t.Fatalf("unable to marshal %v: %v", content, err)
	}

	return lsp.Encode(data)
}

func document(uri, text string) map[string]any {
	return map[string]any{"textDocument": map[string]any{"uri": uri, "text": text}}
}

func runServer(t *testing.T, messages ...[]byte) ([]message, error) {
	t.Helper()

	var output bytes.Buffer
	srv := newServer(config.Default(), lsp.NewConn(&output))

	err := srv.Serve(context.Background(), bytes.NewReader(bytes.Join(messages, nil)))

	var received []message

	scanner := lsp.ReceiveInput(&output)
	for scanner.Scan() {
		var m message
		if err := json.Unmarshal(scanner.Bytes(), &m); err != nil {
			t.Fatalf("server sent malformed JSON: %v", err)
		}

		received = append(received, m)
	}

	if scanner.Err() != nil {
		t.Fatalf("server sent malformed message: %v", scanner.Err())
	}

	return received, err
}

func responseTo(t *testing.T, messages []message, id int) message {
	t.Helper()

	for _, m := range messages {
		if m.Id != nil && *m.Id == id && m.Method == "" {
			return m
		}
	}

	t.Fatalf("no response to request %d in %v", id, messages)
	return message{}
}

func diagnosticsFor(t *testing.T, messages []message, uri string) []lsp.PublishDiagnosticsParams {
	t.Helper()

	var found []lsp.PublishDiagnosticsParams

	for _, m := range messages {
		if m.Method != lsp.MethodPublishDiagnostics {
			continue
		}

		var params lsp.PublishDiagnosticsParams
		if err := json.Unmarshal(m.Params, &params); err != nil {
			t.Fatalf("malformed diagnostics: %v", err)
		}

		if params.Uri == uri {
			found = append(found, params)
		}
	}

	return found
}

func TestServerSession(t *testing.T) {
	dir := testutil.TempDir(t, map[string]string{
		"Quest.psc":      "If x\n Return\nEndIf",
		"sub/Broken.psc": "While x",
		"notes.txt":      "While",
	})

	rootURI := lsp.FilePathToUri(dir)
	openURI := rootURI + "/Open.psc"
	openText := "While a\n If b\n EndIf\nEndWhile\nx ="

	messages, err := runServer(t,
		request(t, 1, lsp.MethodInitialize, map[string]any{"rootUri": rootURI}),
		notification(t, lsp.MethodInitialized, map[string]any{}),
		notification(t, lsp.MethodDidOpen, document(openURI, openText)),
		request(t, 2, lsp.MethodFoldingRange, document(openURI, "")),
		request(t, 3, "textDocument/hover", document(openURI, "")),
		request(t, 4, lsp.MethodShutdown, nil),
		request(t, 5, lsp.MethodFoldingRange, document(openURI, "")),
		notification(t, lsp.MethodExit, nil),
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var initialize lsp.InitializeResult
	if err := json.Unmarshal(responseTo(t, messages, 1).Result, &initialize); err != nil {
		t.Fatalf("malformed initialize result: %v", err)
	}

	if !initialize.Capabilities.FoldingRangeProvider || initialize.Capabilities.TextDocumentSync != lsp.TextDocumentSyncFull {
		t.Errorf("unexpected capabilities: %+v", initialize.Capabilities)
	}

	if initialize.ServerInfo.Name != serverName {
		t.Errorf("unexpected server name %q", initialize.ServerInfo.Name)
	}

	var folds []lsp.FoldingRangeResult
	if err := json.Unmarshal(responseTo(t, messages, 2).Result, &folds); err != nil {
		t.Fatalf("malformed folding range result: %v", err)
	}

	expectedFolds := []lsp.FoldingRangeResult{
		{StartLine: 0, StartCharacter: 0, EndLine: 2, Kind: lsp.FoldingRangeRegion},
		{StartLine: 1, StartCharacter: 1, EndLine: 1, Kind: lsp.FoldingRangeRegion},
	}

	if len(folds) != len(expectedFolds) {
		t.Fatalf("folds = %+v, expected %+v", folds, expectedFolds)
	}

	for i := range expectedFolds {
		if folds[i] != expectedFolds[i] {
			t.Errorf("fold %d = %+v, expected %+v", i, folds[i], expectedFolds[i])
		}
	}

	if res := responseTo(t, messages, 3); res.Error == nil || res.Error.Code != lsp.ErrorMethodNotFound {
		t.Errorf("expected hover to be unsupported, got %+v", res)
	}

	if res := responseTo(t, messages, 4); res.Error != nil || string(res.Result) != "null" {
		t.Errorf("unexpected shutdown response: %+v", res)
	}

	if res := responseTo(t, messages, 5); res.Error == nil || res.Error.Code != lsp.ErrorInvalidRequest {
		t.Errorf("expected requests after shutdown to be refused, got %+v", res)
	}

	open := diagnosticsFor(t, messages, openURI)
	if len(open) == 0 {
		t.Fatal("no diagnostics published for the open document")
	}

	last := open[len(open)-1]
	if len(last.Diagnostics) != 1 {
		t.Fatalf("expected 1 diagnostic, got %+v", last.Diagnostics)
	}

	diagnostic := last.Diagnostics[0]
	expectedStart := lsp.Position{Line: 4, Character: 3}
	if diagnostic.Range.Start != expectedStart || diagnostic.Severity != lsp.SeverityError || diagnostic.Source != lsp.DiagnosticSource {
		t.Errorf("unexpected diagnostic: %+v", diagnostic)
	}

	if !testutil.ContainsSubstring(diagnostic.Message, "expression") {
		t.Errorf("unexpected message: %s", diagnostic.Message)
	}

	quest := diagnosticsFor(t, messages, rootURI+"/Quest.psc")
	if len(quest) != 1 || quest[0].Diagnostics == nil || len(quest[0].Diagnostics) != 0 {
		t.Errorf("expected an empty diagnostic list for a valid workspace file, got %+v", quest)
	}

	broken := diagnosticsFor(t, messages, rootURI+"/sub/Broken.psc")
	if len(broken) != 1 || len(broken[0].Diagnostics) != 1 {
		t.Errorf("expected the workspace file to be checked, got %+v", broken)
	}

	if notes := diagnosticsFor(t, messages, rootURI+"/notes.txt"); len(notes) != 0 {
		t.Errorf("files without a script extension must be skipped, got %+v", notes)
	}
}

func TestServerDidChangeAndClose(t *testing.T) {
	dir := testutil.TempDir(t, map[string]string{"Quest.psc": "Return"})

	rootURI := lsp.FilePathToUri(dir)
	questURI := rootURI + "/Quest.psc"
	otherURI := lsp.FilePathToUri(filepath.Join(dir+"-elsewhere", "Other.psc"))

	change := map[string]any{
		"textDocument":   map[string]any{"uri": questURI},
		"contentChanges": []map[string]any{{"text": "If x"}},
	}

	messages, err := runServer(t,
		request(t, 1, lsp.MethodInitialize, map[string]any{"rootUri": rootURI}),
		notification(t, lsp.MethodDidOpen, document(questURI, "Return")),
		notification(t, lsp.MethodDidChange, change),
		request(t, 2, lsp.MethodFoldingRange, document(questURI, "")),
		notification(t, lsp.MethodDidClose, document(questURI, "")),
		notification(t, lsp.MethodDidOpen, document(otherURI, "If x")),
		notification(t, lsp.MethodDidClose, document(otherURI, "")),
		request(t, 3, lsp.MethodFoldingRange, document(otherURI, "")),
		request(t, 4, lsp.MethodShutdown, nil),
		notification(t, lsp.MethodExit, nil),
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if res := responseTo(t, messages, 2); res.Error != nil || string(res.Result) != "[]" {
		t.Errorf("expected no fold for the changed document, got %+v", res)
	}

	if res := responseTo(t, messages, 3); res.Error == nil {
		t.Errorf("a closed document outside the workspace should be forgotten, got %+v", res)
	}

	// closing falls back to the file on disk, which is valid
	quest := diagnosticsFor(t, messages, questURI)
	if len(quest) == 0 || len(quest[len(quest)-1].Diagnostics) != 0 {
		t.Errorf("expected the diagnostics of the file on disk last, got %+v", quest)
	}

	cleared := false
	for _, params := range diagnosticsFor(t, messages, otherURI) {
		if len(params.Diagnostics) == 0 {
			cleared = true
		}
	}

	if !cleared {
		t.Error("expected the diagnostics of the closed document to be cleared")
	}
}

func TestServerExitWithoutShutdown(t *testing.T) {
	_, err := runServer(t,
		request(t, 1, lsp.MethodInitialize, map[string]any{}),
		notification(t, lsp.MethodExit, nil),
	)

	if !errors.Is(err, errExitWithoutShutdown) {
		t.Errorf("expected an exit error, got %v", err)
	}
}

func TestServerTruncatedInput(t *testing.T) {
	truncated := request(t, 1, lsp.MethodInitialize, map[string]any{})

	_, err := runServer(t, truncated[:len(truncated)-3])
	if !errors.Is(err, lsp.ErrTruncatedMessage) {
		t.Errorf("expected a truncated message error, got %v", err)
	}
}

func TestCreateLogFile(t *testing.T) {
	dir := testutil.TempDir(t, nil)
	path := filepath.Join(dir, "logs", "papyrus-lsp.log")

	file, err := createLogFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := file.WriteString("first\n"); err != nil {
		t.Fatalf("unable to write: %v", err)
	}
	_ = file.Close()

	file, err = createLogFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := file.WriteString("second\n"); err != nil {
		t.Fatalf("unable to write: %v", err)
	}
	_ = file.Close()

	content, err := os.ReadFile(path)
	if err != nil || string(content) != "first\nsecond\n" {
		t.Errorf("expected the log to be appended, got %q, %v", content, err)
	}
}
