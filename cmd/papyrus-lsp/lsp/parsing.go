package lsp

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"
)

var (
	ErrMissingContentLength = errors.New("missing '" + ContentLengthHeader + "' header")
	ErrTruncatedMessage     = errors.New("input ended in the middle of a message")
)

// ReceiveInput creates a scanner yielding the content of each LSP message read from 'input'.
func ReceiveInput(input io.Reader) *bufio.Scanner {
	scanner := bufio.NewScanner(input)
	scanner.Buffer(make([]byte, 0, 64*1024), MaxMessageSize)
	scanner.Split(decode)

	return scanner
}

// Encode prefixes 'content' with its Content-Length header.
func Encode(content []byte) []byte {
	header := ContentLengthHeader + ": " + strconv.Itoa(len(content)) + HeaderDelimiter

	message := make([]byte, 0, len(header)+len(content))
	message = append(message, header...)

	return append(message, content...)
}

// decode is a bufio.SplitFunc cutting the input at message boundaries.
func decode(data []byte, atEOF bool) (advance int, token []byte, err error) {
	headerEnd := bytes.Index(data, []byte(HeaderDelimiter))
	if headerEnd == -1 {
		if atEOF && len(bytes.TrimSpace(data)) > 0 {
			return 0, nil, ErrTruncatedMessage
		}

		return 0, nil, nil
	}

	contentLength, err := getHeaderContentLength(data[:headerEnd])
	if err != nil {
		return 0, nil, err
	}

	start := headerEnd + len(HeaderDelimiter)
	end := start + contentLength

	if len(data) < end {
		if atEOF {
			return 0, nil, ErrTruncatedMessage
		}

		return 0, nil, nil
	}

	return end, data[start:end], nil
}

// getHeaderContentLength reads the Content-Length value out of a header block.
// Other headers, such as Content-Type, are ignored.
func getHeaderContentLength(header []byte) (int, error) {
	for _, line := range strings.Split(string(header), LineDelimiter) {
		name, value, found := strings.Cut(line, ":")
		if !found || !strings.EqualFold(strings.TrimSpace(name), ContentLengthHeader) {
			continue
		}

		contentLength, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return -1, fmt.Errorf("malformed '%s' header: %w", ContentLengthHeader, err)
		}

		if contentLength < 0 {
			return -1, fmt.Errorf("'%s' cannot be negative", ContentLengthHeader)
		}

		return contentLength, nil
	}

	return -1, ErrMissingContentLength
}

// Conn writes framed messages to the client. Responses and diagnostics come from
// different goroutines, the lock keeps their messages from interleaving.
type Conn struct {
	mu     sync.Mutex
	output io.Writer
}

func NewConn(output io.Writer) *Conn {
	return &Conn{output: output}
}

// SendToLspClient frames 'response' and writes it out.
func (c *Conn) SendToLspClient(response []byte) error {
	if response == nil {
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, err := c.output.Write(Encode(response)); err != nil {
		return fmt.Errorf("error while writing to output: %w", err)
	}

	return nil
}
