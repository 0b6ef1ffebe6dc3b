package mailer

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"
)

var frontmatterDelim = []byte("---")

// Template is a parsed template file.
type Template struct {
	Metadata map[string]any
	Body     string
}

// ParseTemplate splits optional YAML frontmatter from the markdown body.
func ParseTemplate(content []byte) (*Template, error) {
	if !bytes.HasPrefix(content, frontmatterDelim) {
		return &Template{Metadata: map[string]any{}, Body: string(content)}, nil
	}

	rest := bytes.TrimLeft(bytes.TrimPrefix(content, frontmatterDelim), "\r\n")
	if len(rest) == 0 {
		return nil, fmt.Errorf("%w: empty template", ErrInvalidFrontmatter)
	}

	end := bytes.Index(rest, frontmatterDelim)
	if end == -1 {
		return nil, fmt.Errorf("%w: closing delimiter not found", ErrInvalidFrontmatter)
	}

	body := rest[end+len(frontmatterDelim):]
	body = bytes.TrimPrefix(body, []byte("\r"))
	body = bytes.TrimPrefix(body, []byte("\n"))

	meta := map[string]any{}
	if head := bytes.TrimSpace(rest[:end]); len(head) > 0 {
		if err := yaml.Unmarshal(head, &meta); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidFrontmatter, err)
		}
	}

	return &Template{Metadata: meta, Body: string(body)}, nil
}
