package store

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/fxamacker/cbor/v2"
	"gopkg.in/yaml.v3"
)

// Format names accepted by CodecFor.
const (
	FormatYAML = "yaml"
	FormatCBOR = "cbor"
)

// ErrUnknownFormat indicates a storage format other than yaml or cbor.
var ErrUnknownFormat = errors.New("store: unknown format")

// Codec converts a document to and from bytes.
type Codec interface {
	Name() string
	Marshal(doc Document) ([]byte, error)
	Unmarshal(data []byte, doc *Document) error
}

// CodecFor returns the codec for format. An empty format is inferred from the
// file extension of path: ".cbor" selects CBOR, anything else YAML.
func CodecFor(format, path string) (Codec, error) {
	if format == "" {
		if strings.EqualFold(filepath.Ext(path), ".cbor") {
			format = FormatCBOR
		} else {
			format = FormatYAML
		}
	}
	switch strings.ToLower(format) {
	case FormatYAML:
		return yamlCodec{}, nil
	case FormatCBOR:
		return cborCodec{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

type yamlCodec struct{}

func (yamlCodec) Name() string { return FormatYAML }

func (yamlCodec) Marshal(doc Document) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (yamlCodec) Unmarshal(data []byte, doc *Document) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(doc); err != nil {
		// Comment-only files decode to nothing.
		if errors.Is(err, io.EOF) {
			return nil
		}
		return err
	}
	return nil
}

type cborCodec struct{}

func (cborCodec) Name() string { return FormatCBOR }

func (cborCodec) Marshal(doc Document) ([]byte, error) {
	return cbor.Marshal(doc)
}

func (cborCodec) Unmarshal(data []byte, doc *Document) error {
	return cbor.Unmarshal(data, doc)
}
