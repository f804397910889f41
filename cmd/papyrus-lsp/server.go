package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"os"
	"sync"

	"github.com/pacer/papyrus/cmd/papyrus-lsp/lsp"
	"github.com/pacer/papyrus/internal/config"
	"github.com/pacer/papyrus/internal/papyrus"
	"github.com/pacer/papyrus/internal/papyrus/parser"
)

var errExitWithoutShutdown = errors.New("'exit' received before 'shutdown'")

// workspaceStore holds the state for a workspace. Keys are document URIs.
type workspaceStore struct {
	RootURI  string
	RootPath string
	Loaded   bool

	// latest known text, from the editor when the document is open, from the disk otherwise
	Documents map[string][]byte
	Results   map[string]*papyrus.FileResult
}

// requestCounter tracks the number of each request type.
type requestCounter struct {
	Initialize   int
	Initialized  int
	Shutdown     int
	TextDocument struct {
		DidClose  int
		DidOpen   int
		DidChange int
	}
	FoldingRange int
	Other        int
}

// envelope is the part of a message needed to dispatch it.
// Notifications have no id.
type envelope struct {
	JsonRpc string  `json:"jsonrpc"`
	Id      *lsp.ID `json:"id"`
	Method  string  `json:"method"`
}

type server struct {
	cfg           *config.Config
	conn          *lsp.Conn
	parserOptions []parser.Option

	mu             sync.Mutex
	storage        workspaceStore
	textFromClient map[string][]byte // waiting for diagnostics

	counter requestCounter

	// holds at most one pending signal, the worker drains 'textFromClient' as a whole
	textChangedNotification chan struct{}
}

func newServer(cfg *config.Config, conn *lsp.Conn) *server {
	return &server{
		cfg:           cfg,
		conn:          conn,
		parserOptions: []parser.Option{parser.WithMaxDepth(cfg.Parser.MaxDepth)},
		storage: workspaceStore{
			Documents: make(map[string][]byte),
			Results:   make(map[string]*papyrus.FileResult),
		},
		textFromClient:          make(map[string][]byte),
		textChangedNotification: make(chan struct{}, 1),
	}
}

// Serve answers the requests read from 'input' until the client exits or the input ends.
// Diagnostics still pending at that point are published before Serve returns.
func (s *server) Serve(ctx context.Context, input io.Reader) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	done := make(chan struct{})

	go func() {
		defer close(done)
		s.processDiagnosticNotification(ctx)
	}()

	slog.Info("starting lsp server",
		slog.String("server_name", serverName),
		slog.String("server_version", version),
	)

	err := s.readRequests(input)

	close(s.textChangedNotification)
	<-done

	slog.Info("shutting down lsp server", s.serverGroupLogging(""))

	return err
}

func (s *server) readRequests(input io.Reader) error {
	scanner := lsp.ReceiveInput(input)
	isExiting := false

	for scanner.Scan() {
		data := scanner.Bytes()

		var request envelope
		if err := json.Unmarshal(data, &request); err != nil {
			slog.Warn("malformed message", slog.String("error", err.Error()))
			s.send(lsp.ProcessErrorResponse(0, lsp.ErrorParseError, err.Error()))
			continue
		}

		if isExiting {
			if request.Method == lsp.MethodExit {
				return nil
			}

			if request.Id != nil {
				s.send(lsp.ProcessIllegalRequestAfterShutdown(*request.Id))
			}

			continue
		}

		slog.Info("request "+request.Method, s.serverGroupLogging(request.Method))

		response, err := s.handle(request, data)
		if errors.Is(err, errExitWithoutShutdown) {
			return err
		}

		if err != nil {
			slog.Error("request failed",
				slog.String("method", request.Method),
				slog.String("error", err.Error()),
			)
		}

		if response != nil {
			s.send(response)
			slog.Debug("response "+request.Method, slog.String("response", string(response)))
		}

		if request.Method == lsp.MethodShutdown {
			isExiting = true
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("error while reading lsp input: %w", err)
	}

	return nil
}

// handle returns the response to send back, nil for notifications.
func (s *server) handle(request envelope, data []byte) ([]byte, error) {
	var id lsp.ID
	if request.Id != nil {
		id = *request.Id
	}

	switch request.Method {
	case lsp.MethodInitialize:
		s.counter.Initialize++

		response, rootURI, err := lsp.ProcessInitializeRequest(data, serverName, version)
		if err != nil {
			return lsp.ProcessErrorResponse(id, lsp.ErrorInvalidRequest, err.Error()), err
		}

		s.setRoot(rootURI)

		return response, nil

	case lsp.MethodInitialized:
		s.counter.Initialized++
		return nil, nil

	case lsp.MethodShutdown:
		s.counter.Shutdown++
		return lsp.ProcessShutdownRequest(request.JsonRpc, id), nil

	case lsp.MethodExit:
		return nil, errExitWithoutShutdown

	case lsp.MethodDidOpen:
		s.counter.TextDocument.DidOpen++

		uri, content, err := lsp.ProcessDidOpenTextDocumentNotification(data)
		if err != nil {
			return nil, err
		}

		s.insertTextDocumentToDiagnostic(uri, content)

	case lsp.MethodDidChange:
		s.counter.TextDocument.DidChange++

		uri, content, err := lsp.ProcessDidChangeTextDocumentNotification(data)
		if err != nil {
			return nil, err
		}

		s.insertTextDocumentToDiagnostic(uri, content)

	case lsp.MethodDidClose:
		s.counter.TextDocument.DidClose++

		uri, err := lsp.ProcessDidCloseTextDocumentNotification(data)
		if err != nil {
			return nil, err
		}

		s.closeTextDocument(uri)

	case lsp.MethodFoldingRange:
		s.counter.FoldingRange++

		id, uri, err := lsp.ParseFoldingRangeRequest(data)
		if err != nil {
			return lsp.ProcessErrorResponse(id, lsp.ErrorInvalidRequest, err.Error()), err
		}

		source, ok := s.document(uri)
		if !ok {
			msg := "file not found on server for folding range request: " + uri
			return lsp.ProcessErrorResponse(id, lsp.ErrorInvalidRequest, msg), errors.New(msg)
		}

		statements, _ := papyrus.ParseSingleFile(source, s.parserOptions...)

		return lsp.ProcessFoldingRangeRequest(id, source, papyrus.FoldingRanges(statements)), nil

	default:
		s.counter.Other++

		if request.Id != nil {
			return lsp.ProcessErrorResponse(id, lsp.ErrorMethodNotFound, "method not supported: "+request.Method), nil
		}
	}

	return nil, nil
}

func (s *server) send(response []byte) {
	if err := s.conn.SendToLspClient(response); err != nil {
		slog.Error(err.Error())
	}
}

// notify wakes the diagnostics worker; a signal already pending covers the new work.
func (s *server) notify() {
	select {
	case s.textChangedNotification <- struct{}{}:
	default:
	}
}

func (s *server) setRoot(rootURI string) {
	if rootURI == "" {
		slog.Warn("no workspace root given, only open documents are checked")
		return
	}

	rootPath, err := lsp.UriToFilePath(rootURI)
	if err != nil {
		slog.Warn("unusable workspace root", slog.String("error", err.Error()))
		return
	}

	s.mu.Lock()
	s.storage.RootURI = rootURI
	s.storage.RootPath = rootPath
	s.mu.Unlock()

	s.notify()
}

// insertTextDocumentToDiagnostic queues a document for diagnostic processing.
func (s *server) insertTextDocumentToDiagnostic(uri string, content []byte) {
	if uri == "" {
		return
	}

	s.mu.Lock()
	s.storage.Documents[uri] = content
	s.textFromClient[uri] = content
	s.mu.Unlock()

	s.notify()
}

// closeTextDocument falls back to the file on disk once the editor lets go of it.
// Documents outside the workspace, or gone from the disk, are forgotten and their
// diagnostics cleared.
func (s *server) closeTextDocument(uri string) {
	s.mu.Lock()
	rootURI := s.storage.RootURI
	s.mu.Unlock()

	if lsp.IsInsideDirectory(uri, rootURI) && papyrus.HasFileExtension(uri, s.cfg.Workspace.Extensions) {
		if path, err := lsp.UriToFilePath(uri); err == nil {
			//nolint:gosec // path of a workspace document
			if content, err := os.ReadFile(path); err == nil {
				s.insertTextDocumentToDiagnostic(uri, content)
				return
			}
		}
	}

	s.mu.Lock()
	delete(s.storage.Documents, uri)
	delete(s.storage.Results, uri)
	delete(s.textFromClient, uri)
	s.mu.Unlock()

	s.send(lsp.PublishDiagnostics(uri, nil, nil))
}

func (s *server) document(uri string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	source, ok := s.storage.Documents[uri]
	return source, ok
}

// loadWorkspace queues every script of the workspace once the root is known.
// Text received from the editor wins over the content on disk.
func (s *server) loadWorkspace() {
	s.mu.Lock()
	rootPath := s.storage.RootPath
	if rootPath == "" || s.storage.Loaded {
		s.mu.Unlock()
		return
	}

	s.storage.Loaded = true
	s.mu.Unlock()

	files, err := papyrus.OpenProjectFiles(rootPath, s.cfg.Workspace.Extensions, s.cfg.Workspace.MaxDirDepth)
	if err != nil {
		slog.Warn("unable to open workspace files", slog.String("error", err.Error()))
		return
	}

	files = convertKeysFromFilePathToUri(files)

	s.mu.Lock()
	for uri, content := range files {
		if _, ok := s.storage.Documents[uri]; ok {
			continue
		}

		s.storage.Documents[uri] = content
		s.textFromClient[uri] = content
	}
	s.mu.Unlock()

	slog.Info("workspace loaded",
		slog.String("root_path", rootPath),
		slog.Int("files", len(files)),
	)
}

// processDiagnosticNotification parses queued documents and publishes their
// diagnostics, until 'textChangedNotification' is closed.
func (s *server) processDiagnosticNotification(ctx context.Context) {
	for range s.textChangedNotification {
		s.loadWorkspace()

		s.mu.Lock()
		batch := s.textFromClient
		s.textFromClient = make(map[string][]byte)
		s.mu.Unlock()

		if len(batch) == 0 {
			continue
		}

		results, err := papyrus.ParseFilesInWorkspace(ctx, batch, s.cfg.Workspace.Concurrency, s.parserOptions...)
		if err != nil {
			slog.Warn("diagnostics interrupted", slog.String("error", err.Error()))
			continue
		}

		s.mu.Lock()
		maps.Copy(s.storage.Results, results)
		s.mu.Unlock()

		for _, uri := range papyrus.SortedFileNames(results) {
			result := results[uri]
			s.send(lsp.PublishDiagnostics(uri, result.Source, result.Errs))
		}

		s.storageSanityCheck()
	}
}

// storageSanityCheck verifies that storage state is consistent.
func (s *server) storageSanityCheck() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for uri := range s.storage.Results {
		if _, ok := s.storage.Documents[uri]; ok {
			continue
		}

		// closed while its diagnostics were computed
		if _, queued := s.textFromClient[uri]; !queued {
			delete(s.storage.Results, uri)
			continue
		}

		msg := "diagnosed file missing from the documents"
		slog.Error(msg, slog.String("uri", uri))
		panic(msg)
	}
}

// convertKeysFromFilePathToUri converts map keys from file paths to URIs.
func convertKeysFromFilePathToUri(files map[string][]byte) map[string][]byte {
	filesWithUriKeys := make(map[string][]byte, len(files))

	for path, fileContent := range files {
		filesWithUriKeys[lsp.FilePathToUri(path)] = fileContent
	}

	return filesWithUriKeys
}

// mapToKeys returns the keys of a map as a slice.
func mapToKeys[K comparable, V any](dict map[K]V) []K {
	list := make([]K, 0, len(dict))
	for key := range dict {
		list = append(list, key)
	}
	return list
}

// serverGroupLogging returns a structured logging group with server state.
func (s *server) serverGroupLogging(lastRequest string) slog.Attr {
	s.mu.Lock()
	defer s.mu.Unlock()

	return slog.Group("server",
		slog.String("root_path", s.storage.RootPath),
		slog.String("last_request", lastRequest),
		slog.Int("documents", len(s.storage.Documents)),
		slog.Any("files_waiting_processing", mapToKeys(s.textFromClient)),
		slog.Any("request_counter", s.counter),
	)
}
