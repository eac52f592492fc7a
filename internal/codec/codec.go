// Package codec serializes site schedule data. Documents carry a schema
// version; version 2 is written, and first-generation documents without a
// version are still readable.
package codec

import (
	"bytes"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/alexanderramin/critpath/internal/domain"
)

// SchemaVersion is the document version written by Marshal.
const SchemaVersion = 2

// Marshal encodes data as a versioned JSON document.
func Marshal(data *domain.CriticalPathData) ([]byte, error) {
	if data == nil {
		return nil, fmt.Errorf("marshal: nil data")
	}
	b, err := json.Marshal(toDocument(data))
	if err != nil {
		return nil, fmt.Errorf("encoding document: %w", err)
	}
	return b, nil
}

// MarshalIndent is Marshal with two-space indentation.
func MarshalIndent(data *domain.CriticalPathData) ([]byte, error) {
	b, err := Marshal(data)
	if err != nil {
		return nil, err
	}
	var out bytes.Buffer
	if err := json.Indent(&out, b, "", "  "); err != nil {
		return nil, fmt.Errorf("indenting document: %w", err)
	}
	return out.Bytes(), nil
}

// Version reports the schema version of a JSON document. Documents without
// a schema_version field are first-generation and report 1.
func Version(b []byte) (int, error) {
	var probe struct {
		SchemaVersion *int `json:"schema_version"`
	}
	if err := json.Unmarshal(b, &probe); err != nil {
		return 0, fmt.Errorf("decoding document: %w", err)
	}
	if probe.SchemaVersion == nil {
		return 1, nil
	}
	return *probe.SchemaVersion, nil
}

// Unmarshal decodes a document written by Marshal or by the first-generation
// store. Documents with a newer schema version are rejected.
func Unmarshal(b []byte) (*domain.CriticalPathData, error) {
	v, err := Version(b)
	if err != nil {
		return nil, err
	}
	switch v {
	case 1:
		return decodeLegacy(b)
	case SchemaVersion:
		var doc document
		if err := json.Unmarshal(b, &doc); err != nil {
			return nil, fmt.Errorf("decoding document: %w", err)
		}
		return doc.toDomain()
	default:
		return nil, fmt.Errorf("unsupported schema version %d", v)
	}
}

// MarshalYAML encodes data as the same versioned document in YAML.
func MarshalYAML(data *domain.CriticalPathData) ([]byte, error) {
	if data == nil {
		return nil, fmt.Errorf("marshal: nil data")
	}
	b, err := yaml.Marshal(toDocument(data))
	if err != nil {
		return nil, fmt.Errorf("encoding yaml document: %w", err)
	}
	return b, nil
}

// UnmarshalYAML decodes a document written by MarshalYAML. Audit logs are
// passed through JSON so they hold the same shapes as a JSON load. Empty
// collections are omitted from YAML and decode as nil.
func UnmarshalYAML(b []byte) (*domain.CriticalPathData, error) {
	var doc document
	if err := yaml.Unmarshal(b, &doc); err != nil {
		return nil, fmt.Errorf("decoding yaml document: %w", err)
	}
	if doc.SchemaVersion != SchemaVersion {
		return nil, fmt.Errorf("unsupported schema version %d", doc.SchemaVersion)
	}
	var err error
	if doc.DocumentScanHistory, err = normalize(doc.DocumentScanHistory); err != nil {
		return nil, err
	}
	if doc.IntelligenceDatabase, err = normalize(doc.IntelligenceDatabase); err != nil {
		return nil, err
	}
	return doc.toDomain()
}

func normalize(m map[string]any) (map[string]any, error) {
	if m == nil {
		return nil, nil
	}
	raw, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("normalizing audit log: %w", err)
	}
	var out map[string]any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("normalizing audit log: %w", err)
	}
	return out, nil
}
