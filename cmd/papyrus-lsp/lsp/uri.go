package lsp

import (
	"errors"
	"fmt"
	"net/url"
	"path/filepath"
	"runtime"
	"strings"
)

// UriToFilePath converts a 'file' URI to an OS path.
func UriToFilePath(uri string) (string, error) {
	if uri == "" {
		return "", errors.New("URI to a file cannot be empty")
	}

	u, err := url.Parse(uri)
	if err != nil {
		return "", fmt.Errorf("unable to convert from URI to OS path: %w", err)
	}

	switch {
	case u.Scheme != "file":
		return "", fmt.Errorf("can only handle 'file' scheme: %s", uri)
	case u.RawQuery != "":
		return "", fmt.Errorf("'?' character is not permitted in file URI: %s", uri)
	case u.Fragment != "":
		return "", fmt.Errorf("'#' character is not permitted in file URI: %s", uri)
	case u.Path == "":
		return "", fmt.Errorf("path to a file cannot be empty: %s", uri)
	}

	path := u.Path
	if runtime.GOOS == "windows" && len(path) >= 3 && path[0] == '/' && path[2] == ':' {
		path = path[1:]
	}

	return filepath.FromSlash(path), nil
}

// FilePathToUri converts an OS path to a 'file' URI, relative paths are made absolute.
func FilePathToUri(path string) string {
	if absPath, err := filepath.Abs(path); err == nil {
		path = absPath
	}

	slashPath := filepath.ToSlash(path)
	if !strings.HasPrefix(slashPath, "/") {
		slashPath = "/" + slashPath
	}

	u := url.URL{
		Scheme: "file",
		Path:   slashPath,
	}

	return u.String()
}

// IsInsideDirectory reports whether the document 'uri' lives below the directory 'rootUri'.
func IsInsideDirectory(uri, rootUri string) bool {
	if rootUri == "" {
		return false
	}

	return strings.HasPrefix(uri, strings.TrimSuffix(rootUri, "/")+"/")
}
