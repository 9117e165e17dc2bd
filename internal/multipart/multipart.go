// Package multipart encodes the multipart/form-data bodies sent by upload
// requests: any number of form fields and at most one file.
package multipart

import (
	"bytes"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"mime"
	stdmultipart "mime/multipart"
	"net/textproto"
	"strings"

	"github.com/google/uuid"
)

// Static errors for err113 compliance.
var (
	ErrMultipleFiles   = errors.New("multipart body supports at most one file part")
	ErrUnknownPartKind = errors.New("unknown multipart part kind")
	ErrNotMultipart    = errors.New("content type is not multipart/form-data")
	ErrMissingBoundary = errors.New("content type has no boundary")
)

// Kind tags the variant held by a Part.
type Kind int

const (
	// KindKeyValue is a plain form field.
	KindKeyValue Kind = iota + 1
	// KindFile is a file attachment.
	KindFile
)

// String implements fmt.Stringer.
func (k Kind) String() string {
	switch k {
	case KindKeyValue:
		return "key-value"
	case KindFile:
		return "file"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Part is one segment of a body. Value is used by key/value parts;
// Filename, ContentType and Content by file parts.
type Part struct {
	Kind        Kind
	Name        string
	Value       string
	Filename    string
	ContentType string
	Content     []byte
}

// KeyValue creates a form field part.
func KeyValue(name, value string) Part {
	return Part{Kind: KindKeyValue, Name: name, Value: value}
}

// File creates a file part.
func File(name, filename, contentType string, content []byte) Part {
	return Part{Kind: KindFile, Name: name, Filename: filename, ContentType: contentType, Content: content}
}

// Body is an ordered list of parts; parts are encoded in slice order.
type Body []Part

// Encoded is a serialized body together with the header that describes it.
type Encoded struct {
	Boundary    string
	ContentType string
	Bytes       []byte
}

const boundaryPrefix = "mgmt-"

// NewBoundary returns a fresh random boundary token.
func NewBoundary() string {
	id := uuid.New()

	return boundaryPrefix + hex.EncodeToString(id[:])
}

// Encode serializes body with a newly generated boundary.
func Encode(body Body) (*Encoded, error) {
	return EncodeWithBoundary(body, NewBoundary())
}

// EncodeWithBoundary serializes body delimited by boundary. The content is not
// scanned for the boundary, so callers must pass an unguessable token.
func EncodeWithBoundary(body Body, boundary string) (*Encoded, error) {
	var buf bytes.Buffer

	writer := stdmultipart.NewWriter(&buf)

	err := writer.SetBoundary(boundary)
	if err != nil {
		return nil, fmt.Errorf("setting boundary: %w", err)
	}

	files := 0

	for _, part := range body {
		switch part.Kind {
		case KindKeyValue:
			err = writeKeyValue(writer, part)
		case KindFile:
			files++
			if files > 1 {
				return nil, fmt.Errorf("%w: %q", ErrMultipleFiles, part.Name)
			}

			err = writeFile(writer, part)
		default:
			return nil, fmt.Errorf("%w: %s", ErrUnknownPartKind, part.Kind)
		}

		if err != nil {
			return nil, err
		}
	}

	err = writer.Close()
	if err != nil {
		return nil, fmt.Errorf("closing multipart writer: %w", err)
	}

	return &Encoded{
		Boundary:    boundary,
		ContentType: writer.FormDataContentType(),
		Bytes:       buf.Bytes(),
	}, nil
}

func writeKeyValue(writer *stdmultipart.Writer, part Part) error {
	err := writer.WriteField(part.Name, part.Value)
	if err != nil {
		return fmt.Errorf("writing field %q: %w", part.Name, err)
	}

	return nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func writeFile(writer *stdmultipart.Writer, part Part) error {
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
		quoteEscaper.Replace(part.Name), quoteEscaper.Replace(part.Filename)))
	header.Set("Content-Type", part.ContentType)

	partWriter, err := writer.CreatePart(header)
	if err != nil {
		return fmt.Errorf("creating file part %q: %w", part.Name, err)
	}

	_, err = partWriter.Write(part.Content)
	if err != nil {
		return fmt.Errorf("writing file part %q: %w", part.Name, err)
	}

	return nil
}

// Parse reads a body produced by Encode back into parts. contentType is the
// Content-Type header that accompanied the body; its boundary is returned.
func Parse(contentType string, data []byte) (Body, string, error) {
	mediaType, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		return nil, "", fmt.Errorf("parsing content type: %w", err)
	}

	if mediaType != "multipart/form-data" {
		return nil, "", fmt.Errorf("%w: %s", ErrNotMultipart, mediaType)
	}

	boundary := params["boundary"]
	if boundary == "" {
		return nil, "", ErrMissingBoundary
	}

	reader := stdmultipart.NewReader(bytes.NewReader(data), boundary)

	var body Body

	for {
		p, err := reader.NextRawPart()
		if errors.Is(err, io.EOF) {
			break
		}

		if err != nil {
			return nil, "", fmt.Errorf("reading part: %w", err)
		}

		content, err := io.ReadAll(p)
		if err != nil {
			return nil, "", fmt.Errorf("reading part %q: %w", p.FormName(), err)
		}

		if p.FileName() != "" {
			body = append(body, File(p.FormName(), p.FileName(), p.Header.Get("Content-Type"), content))
		} else {
			body = append(body, KeyValue(p.FormName(), string(content)))
		}
	}

	return body, boundary, nil
}

// Lookup returns the first part named name.
func (b Body) Lookup(name string) (Part, bool) {
	for _, part := range b {
		if part.Name == name {
			return part, true
		}
	}

	return Part{}, false
}
