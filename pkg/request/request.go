// Package request decodes patch descriptions into a patch.Set.
//
// A request is a list of descriptions in JSON or YAML. Each names a file and
// exactly one way to locate the range to replace: an explicit character
// range, 0-indexed line/column positions, or a snippet:
//
//	# patches.yaml
//	- file: main.go
//	  snippet:
//	    between:
//	      start: {target: {literal: "func main() {"}}
//	      end: {target: {literal: "}"}}
//	  replacement: "\n\tos.Exit(run())\n"
package request

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/yaklabco/textum/pkg/patch"
	"github.com/yaklabco/textum/pkg/snip"
)

// ErrInvalidRequest indicates a malformed patch description.
var ErrInvalidRequest = errors.New("invalid request")

// DecodeError ties a decode or build failure to the entry that caused it.
// Index is -1 when the document itself could not be read.
type DecodeError struct {
	Index int
	Err   error
}

func (e *DecodeError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("decode request: %v", e.Err)
	}
	return fmt.Sprintf("patch %d: %v", e.Index, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// LinesSpec locates a range by 0-indexed [line, col] pairs.
type LinesSpec struct {
	Start []int `json:"start" yaml:"start"`
	End   []int `json:"end"   yaml:"end"`
}

// Description is one entry of a request.
type Description struct {
	File         string       `json:"file"                     yaml:"file"`
	Range        []int        `json:"range,omitempty"          yaml:"range,omitempty"`
	Lines        *LinesSpec   `json:"lines,omitempty"          yaml:"lines,omitempty"`
	Snippet      *SnippetSpec `json:"snippet,omitempty"        yaml:"snippet,omitempty"`
	Replacement  *string      `json:"replacement,omitempty"    yaml:"replacement,omitempty"`
	SymbolPath   []string     `json:"symbol_path,omitempty"    yaml:"symbol_path,omitempty"`
	MaxLineDrift *int         `json:"max_line_drift,omitempty" yaml:"max_line_drift,omitempty"`
}

// template returns the patch fields that do not depend on the file content.
func (d Description) template() patch.Patch {
	return patch.Patch{
		File:         d.File,
		Replacement:  d.Replacement,
		SymbolPath:   d.SymbolPath,
		MaxLineDrift: d.MaxLineDrift,
	}
}

// AddTo registers the description with set.
func (d Description) AddTo(set *patch.Set) error {
	if d.File == "" {
		return fmt.Errorf("%w: file is empty", ErrInvalidRequest)
	}
	if err := exactlyOne("locator", d.Range != nil, d.Lines != nil, d.Snippet != nil); err != nil {
		return err
	}

	tmpl := d.template()

	switch {
	case d.Range != nil:
		start, end, err := pair("range", d.Range)
		if err != nil {
			return err
		}
		tmpl.Range = patch.Range{Start: start, End: end}
		set.Add(tmpl)

	case d.Lines != nil:
		lineStart, colStart, err := pair("lines.start", d.Lines.Start)
		if err != nil {
			return err
		}
		lineEnd, colEnd, err := pair("lines.end", d.Lines.End)
		if err != nil {
			return err
		}
		set.AddLocated(tmpl, patch.LinePositions{
			LineStart: lineStart, ColStart: colStart,
			LineEnd: lineEnd, ColEnd: colEnd,
		})

	default:
		snippet, err := d.Snippet.Build()
		if err != nil {
			return err
		}
		set.AddLocated(tmpl, snippet)
	}

	return nil
}

func pair(what string, values []int) (int, int, error) {
	if len(values) != 2 {
		return 0, 0, fmt.Errorf("%w: %s needs 2 values, got %d", ErrInvalidRequest, what, len(values))
	}
	if values[0] < 0 || values[1] < 0 {
		return 0, 0, fmt.Errorf("%w: %s values must not be negative", ErrInvalidRequest, what)
	}
	return values[0], values[1], nil
}

// Build registers every description with a new set. The first failing
// entry is reported as a *DecodeError.
func Build(descs []Description, opts ...patch.Option) (*patch.Set, error) {
	set := patch.NewSet(opts...)
	for idx, desc := range descs {
		if err := desc.AddTo(set); err != nil {
			return nil, &DecodeError{Index: idx, Err: err}
		}
	}
	return set, nil
}

// Decode reads a request. Input starting with '[' or '{' is JSON; anything
// else is YAML. A single object is accepted as a one-entry list.
func Decode(r io.Reader) ([]Description, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, &DecodeError{Index: -1, Err: err}
	}
	return Parse(data)
}

// Parse decodes a request held in memory.
func Parse(data []byte) ([]Description, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, &DecodeError{Index: -1, Err: fmt.Errorf("%w: empty request", ErrInvalidRequest)}
	}

	if trimmed[0] == '[' || trimmed[0] == '{' {
		return parseJSON(trimmed)
	}
	return parseYAML(trimmed)
}

func parseJSON(data []byte) ([]Description, error) {
	var raw []json.RawMessage
	if data[0] == '{' {
		raw = []json.RawMessage{data}
	} else if err := json.Unmarshal(data, &raw); err != nil {
		return nil, &DecodeError{Index: -1, Err: err}
	}

	descs := make([]Description, len(raw))
	for idx, entry := range raw {
		decoder := json.NewDecoder(bytes.NewReader(entry))
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&descs[idx]); err != nil {
			return nil, &DecodeError{Index: idx, Err: err}
		}
	}
	return descs, nil
}

func parseYAML(data []byte) ([]Description, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, &DecodeError{Index: -1, Err: err}
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) != 1 {
		return nil, &DecodeError{Index: -1, Err: fmt.Errorf("%w: expected a single document", ErrInvalidRequest)}
	}

	root := doc.Content[0]
	var entries []*yaml.Node
	switch root.Kind {
	case yaml.SequenceNode:
		entries = root.Content
	case yaml.MappingNode:
		entries = []*yaml.Node{root}
	default:
		return nil, &DecodeError{Index: -1, Err: fmt.Errorf("%w: expected a list of patches", ErrInvalidRequest)}
	}

	descs := make([]Description, len(entries))
	for idx, entry := range entries {
		if err := decodeStrict(entry, &descs[idx]); err != nil {
			return nil, &DecodeError{Index: idx, Err: err}
		}
	}
	return descs, nil
}

// decodeStrict decodes node into out, rejecting unknown keys.
func decodeStrict(node *yaml.Node, out any) error {
	data, err := yaml.Marshal(node)
	if err != nil {
		return err
	}
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	return decoder.Decode(out)
}

// ParseSnippet decodes a single snippet written in YAML or JSON flow style,
// for example `{between: {start: {target: {literal: a}}, end: {target: {literal: b}}}}`.
func ParseSnippet(text string) (snip.Snippet, error) {
	var spec SnippetSpec
	doc := []byte(text)

	var node yaml.Node
	if err := yaml.Unmarshal(doc, &node); err != nil {
		return nil, fmt.Errorf("%w: snippet: %w", ErrInvalidRequest, err)
	}
	if len(node.Content) != 1 {
		return nil, fmt.Errorf("%w: snippet is empty", ErrInvalidRequest)
	}
	if err := decodeStrict(node.Content[0], &spec); err != nil {
		return nil, fmt.Errorf("%w: snippet: %w", ErrInvalidRequest, err)
	}
	return spec.Build()
}

// FromPatch describes p with an explicit range.
func FromPatch(p patch.Patch) Description {
	return Description{
		File:         p.File,
		Range:        []int{p.Range.Start, p.Range.End},
		Replacement:  p.Replacement,
		SymbolPath:   p.SymbolPath,
		MaxLineDrift: p.MaxLineDrift,
	}
}

// Encode writes descs as indented JSON.
func Encode(w io.Writer, descs []Description) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(descs); err != nil {
		return fmt.Errorf("encode request: %w", err)
	}
	return nil
}
