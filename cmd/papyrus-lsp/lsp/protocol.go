package lsp

// LSP protocol constants.
const (
	JSONRPCVersion = "2.0"

	SeverityError   = 1
	SeverityWarning = 2
	SeverityInfo    = 3
	SeverityHint    = 4

	// TextDocumentSyncFull: every change sends the whole document.
	TextDocumentSyncFull = 1

	ErrorParseError     = -32700
	ErrorInvalidRequest = -32600
	ErrorMethodNotFound = -32601
)

// LSP method names.
const (
	MethodInitialize         = "initialize"
	MethodInitialized        = "initialized"
	MethodShutdown           = "shutdown"
	MethodExit               = "exit"
	MethodDidOpen            = "textDocument/didOpen"
	MethodDidChange          = "textDocument/didChange"
	MethodDidClose           = "textDocument/didClose"
	MethodFoldingRange       = "textDocument/foldingRange"
	MethodPublishDiagnostics = "textDocument/publishDiagnostics"
)

// DiagnosticSource names this server in the diagnostics shown by editors.
const DiagnosticSource = "papyrus"

// LSP header constants.
const (
	ContentLengthHeader = "Content-Length"
	HeaderDelimiter     = "\r\n\r\n"
	LineDelimiter       = "\r\n"

	// MaxMessageSize bounds a single message, whole documents travel on every change.
	MaxMessageSize = 32 << 20
)

// File and logging constants.
const (
	DirPermissions  = 0750
	FilePermissions = 0600
	MaxLogFileSize  = 5_000_000 // 5MB
)
