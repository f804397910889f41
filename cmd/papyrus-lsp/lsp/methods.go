// Package lsp implements the LSP messages understood by the Papyrus language server.
package lsp

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/pacer/papyrus/internal/papyrus/lexer"
)

// ID represents a JSON-RPC request ID that can be either a string or number.
type ID int

func (id *ID) UnmarshalJSON(data []byte) error {
	length := len(data)
	if length >= 2 && data[0] == '"' && data[length-1] == '"' {
		data = data[1 : length-1]
	}

	number, err := strconv.Atoi(string(data))
	if err != nil {
		return errors.New("'ID' expected either a string or an integer")
	}

	*id = ID(number)
	return nil
}

func (id ID) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Itoa(int(id))), nil
}

// RequestMessage represents a JSON-RPC request.
type RequestMessage[T any] struct {
	JsonRpc string `json:"jsonrpc"`
	Id      ID     `json:"id"`
	Method  string `json:"method"`
	Params  T      `json:"params"`
}

// ResponseMessage represents a JSON-RPC response.
type ResponseMessage[T any] struct {
	JsonRpc string         `json:"jsonrpc"`
	Id      ID             `json:"id"`
	Result  T              `json:"result"`
	Error   *ResponseError `json:"error,omitempty"`
}

type ResponseError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// NotificationMessage represents a JSON-RPC notification (no response expected).
type NotificationMessage[T any] struct {
	JsonRpc string `json:"jsonrpc"`
	Method  string `json:"method"`
	Params  T      `json:"params"`
}

type InitializeParams struct {
	ProcessId  int `json:"processId"`
	ClientInfo struct {
		Name    string `json:"name"`
		Version string `json:"version"`
	} `json:"clientInfo"`
	RootUri  string `json:"rootUri"`
	RootPath string `json:"rootPath"`
}

type ServerCapabilities struct {
	TextDocumentSync     int  `json:"textDocumentSync"`
	FoldingRangeProvider bool `json:"foldingRangeProvider"`
}

type InitializeResult struct {
	Capabilities ServerCapabilities `json:"capabilities"`
	ServerInfo   struct {
		Name    string `json:"name"`
		Version string `json:"version"`
	} `json:"serverInfo"`
}

type PublishDiagnosticsParams struct {
	Uri         string       `json:"uri"`
	Diagnostics []Diagnostic `json:"diagnostics"`
}

type Diagnostic struct {
	Range    Range  `json:"range"`
	Message  string `json:"message"`
	Severity int    `json:"severity"`
	Source   string `json:"source"`
}

type Position struct {
	Line      uint `json:"line"`
	Character uint `json:"character"`
}

type Range struct {
	Start Position `json:"start"`
	End   Position `json:"end"`
}

type TextDocumentItem struct {
	Uri        string `json:"uri"`
	Version    int    `json:"version"`
	LanguageId string `json:"languageId"`
	Text       string `json:"text"`
}

type TextDocumentIdentifier struct {
	Uri string `json:"uri"`
}

// intToUint safely converts int to uint, returning 0 for negative values.
func intToUint(v int) uint {
	if v < 0 {
		return 0
	}
	return uint(v) //nolint:gosec // bounds checked above
}

func convertPosition(position lexer.Position) Position {
	return Position{
		Line:      intToUint(position.Line),
		Character: intToUint(position.Character),
	}
}

// ConvertSpanToLspRange converts a byte span of 'source' to an LSP range.
func ConvertSpanToLspRange(source []byte, span lexer.Span) Range {
	reach := lexer.RangeFromSpan(source, span)

	return Range{
		Start: convertPosition(reach.Start),
		End:   convertPosition(reach.End),
	}
}

func marshalResponse(method string, response any) []byte {
	data, err := json.Marshal(response)
	if err != nil {
		msg := "error while marshalling '" + method + "' response: " + err.Error()
		slog.Error(msg)
		panic(msg)
	}

	return data
}

// ProcessInitializeRequest answers the initialize request and returns the workspace root URI.
func ProcessInitializeRequest(data []byte, lspName, lspVersion string) (response []byte, root string, err error) {
	var req RequestMessage[InitializeParams]

	if err := json.Unmarshal(data, &req); err != nil {
		return nil, "", fmt.Errorf("error while unmarshalling '%s': %w", MethodInitialize, err)
	}

	res := ResponseMessage[InitializeResult]{
		JsonRpc: JSONRPCVersion,
		Id:      req.Id,
		Result: InitializeResult{
			Capabilities: ServerCapabilities{
				TextDocumentSync:     TextDocumentSyncFull,
				FoldingRangeProvider: true,
			},
		},
	}

	res.Result.ServerInfo.Name = lspName
	res.Result.ServerInfo.Version = lspVersion

	root = req.Params.RootUri
	if root == "" && req.Params.RootPath != "" {
		root = FilePathToUri(req.Params.RootPath)
	}

	return marshalResponse(MethodInitialize, res), root, nil
}

func ProcessShutdownRequest(jsonVersion string, requestId ID) []byte {
	response := ResponseMessage[any]{
		JsonRpc: jsonVersion,
		Id:      requestId,
	}

	return marshalResponse(MethodShutdown, response)
}

// ProcessErrorResponse answers a request with a JSON-RPC error.
func ProcessErrorResponse(requestId ID, code int, message string) []byte {
	response := ResponseMessage[any]{
		JsonRpc: JSONRPCVersion,
		Id:      requestId,
		Error: &ResponseError{
			Code:    code,
			Message: message,
		},
	}

	return marshalResponse("error", response)
}

// ProcessIllegalRequestAfterShutdown returns an error for requests after shutdown.
func ProcessIllegalRequestAfterShutdown(requestId ID) []byte {
	return ProcessErrorResponse(requestId, ErrorInvalidRequest, "illegal request while server shutting down")
}

type DidOpenTextDocumentParams struct {
	TextDocument TextDocumentItem `json:"textDocument"`
}

func ProcessDidOpenTextDocumentNotification(data []byte) (fileURI string, fileContent []byte, err error) {
	var request RequestMessage[DidOpenTextDocumentParams]

	if err := json.Unmarshal(data, &request); err != nil {
		return "", nil, fmt.Errorf("error while unmarshalling '%s': %w", MethodDidOpen, err)
	}

	document := request.Params.TextDocument

	return document.Uri, []byte(document.Text), nil
}

type TextDocumentContentChangeEvent struct {
	Range       *Range `json:"range,omitempty"`
	RangeLength uint   `json:"rangeLength"`
	Text        string `json:"text"`
}

type DidChangeTextDocumentParams struct {
	TextDocument   TextDocumentItem                 `json:"textDocument"`
	ContentChanges []TextDocumentContentChangeEvent `json:"contentChanges"`
}

// ProcessDidChangeTextDocumentNotification returns the new text of the document.
// The server asks for full synchronization, so the last change holds the whole text.
func ProcessDidChangeTextDocumentNotification(data []byte) (fileURI string, fileContent []byte, err error) {
	var request RequestMessage[DidChangeTextDocumentParams]

	if err := json.Unmarshal(data, &request); err != nil {
		return "", nil, fmt.Errorf("error while unmarshalling '%s': %w", MethodDidChange, err)
	}

	changes := request.Params.ContentChanges
	if len(changes) == 0 {
		slog.Warn("'contentChanges' field is empty", slog.String("uri", request.Params.TextDocument.Uri))
		return "", nil, nil
	}

	last := changes[len(changes)-1]
	if last.Range != nil {
		return "", nil, fmt.Errorf("incremental change received for %s, only full synchronization is supported", request.Params.TextDocument.Uri)
	}

	return request.Params.TextDocument.Uri, []byte(last.Text), nil
}

type DidCloseTextDocumentParams struct {
	TextDocument TextDocumentIdentifier `json:"textDocument"`
}

func ProcessDidCloseTextDocumentNotification(data []byte) (fileURI string, err error) {
	var request RequestMessage[DidCloseTextDocumentParams]

	if err := json.Unmarshal(data, &request); err != nil {
		return "", fmt.Errorf("error while unmarshalling '%s': %w", MethodDidClose, err)
	}

	return request.Params.TextDocument.Uri, nil
}

// PublishDiagnostics builds the notification listing 'errs' for the document 'uri'.
// An empty list clears the diagnostics previously shown for it.
func PublishDiagnostics(uri string, source []byte, errs []lexer.Error) []byte {
	notification := NotificationMessage[PublishDiagnosticsParams]{
		JsonRpc: JSONRPCVersion,
		Method:  MethodPublishDiagnostics,
		Params: PublishDiagnosticsParams{
			Uri:         uri,
			Diagnostics: make([]Diagnostic, 0, len(errs)),
		},
	}

	for _, err := range errs {
		if err == nil {
			msg := "nil should not be in the error list"
			slog.Error(msg, slog.String("uri", uri))
			panic(msg)
		}

		notification.Params.Diagnostics = append(notification.Params.Diagnostics, Diagnostic{
			Message:  err.GetError(),
			Range:    ConvertSpanToLspRange(source, err.GetSpan()),
			Severity: SeverityError,
			Source:   DiagnosticSource,
		})
	}

	return marshalResponse(MethodPublishDiagnostics, notification)
}

type FoldingRangeParams struct {
	TextDocument TextDocumentIdentifier `json:"textDocument"`
}

type FoldingRangeResult struct {
	StartLine      uint             `json:"startLine"`
	StartCharacter uint             `json:"startCharacter"`
	EndLine        uint             `json:"endLine"`
	EndCharacter   uint             `json:"endCharacter"`
	Kind           FoldingRangeKind `json:"kind"`
}

type FoldingRangeKind string

const FoldingRangeRegion FoldingRangeKind = "region"

// ParseFoldingRangeRequest returns the request id and the document it targets.
func ParseFoldingRangeRequest(data []byte) (ID, string, error) {
	var req RequestMessage[FoldingRangeParams]

	if err := json.Unmarshal(data, &req); err != nil {
		return 0, "", fmt.Errorf("error while unmarshalling '%s': %w", MethodFoldingRange, err)
	}

	return req.Id, req.Params.TextDocument.Uri, nil
}

// ProcessFoldingRangeRequest answers with one region per block span.
// The closing line of a block ('EndIf', 'EndWhile') stays visible once folded,
// and blocks on a single line are not foldable.
func ProcessFoldingRangeRequest(requestId ID, source []byte, blocks []lexer.Span) []byte {
	res := ResponseMessage[[]FoldingRangeResult]{
		JsonRpc: JSONRPCVersion,
		Id:      requestId,
		Result:  []FoldingRangeResult{},
	}

	for _, block := range blocks {
		reach := ConvertSpanToLspRange(source, block)
		if reach.Start.Line == reach.End.Line {
			continue
		}

		reach.End.Line--

		res.Result = append(res.Result, FoldingRangeResult{
			StartLine:      reach.Start.Line,
			StartCharacter: reach.Start.Character,
			EndLine:        reach.End.Line,
			Kind:           FoldingRangeRegion,
		})
	}

	return marshalResponse(MethodFoldingRange, res)
}
