package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
)

type multipartBody struct {
	buf         *bytes.Buffer
	contentType string
}

// buildMultipartBody encodes a multipart/form-data request. File parameter
// values are filesystem paths: a string is one file, an array is one file per
// element, anything else is a per-call error raised before any network I/O.
// Non-file parameters are attached as ordinary fields.
func buildMultipartBody(args map[string]any, fileParams []string) (*multipartBody, error) {
	files := make(map[string]bool, len(fileParams))
	for _, name := range fileParams {
		files[name] = true
	}

	buf := &bytes.Buffer{}
	writer := multipart.NewWriter(buf)

	for name, value := range args {
		if !files[name] {
			if err := writeField(writer, name, value); err != nil {
				return nil, err
			}
			continue
		}

		switch v := value.(type) {
		case string:
			if err := writeFile(writer, name, v); err != nil {
				return nil, err
			}
		case []any:
			for _, item := range v {
				path, ok := item.(string)
				if !ok {
					return nil, fmt.Errorf("file parameter %q: expected path string, got %T", name, item)
				}
				if err := writeFile(writer, name, path); err != nil {
					return nil, err
				}
			}
		default:
			return nil, fmt.Errorf("file parameter %q: expected path string or array of paths, got %T", name, value)
		}
	}

	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize multipart body: %w", err)
	}
	return &multipartBody{buf: buf, contentType: writer.FormDataContentType()}, nil
}

// writeFile streams one file into the multipart body. The handle is released
// before returning on every path.
func writeFile(writer *multipart.Writer, field, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("file parameter %q: %w", field, err)
	}
	defer f.Close()

	part, err := writer.CreateFormFile(field, filepath.Base(path))
	if err != nil {
		return fmt.Errorf("file parameter %q: %w", field, err)
	}
	if _, err := io.Copy(part, f); err != nil {
		return fmt.Errorf("file parameter %q: %w", field, err)
	}
	return nil
}

// writeField attaches a non-file argument. Structures serialize as JSON.
func writeField(writer *multipart.Writer, name string, value any) error {
	var text string
	switch v := value.(type) {
	case string:
		text = v
	case map[string]any, []any:
		data, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("field %q: %w", name, err)
		}
		text = string(data)
	default:
		text = fmt.Sprint(v)
	}
	return writer.WriteField(name, text)
}
