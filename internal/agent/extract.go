package agent

import (
	"encoding/json"
	"errors"
	"strings"
)

// ErrNoStructuredOutput is returned when a model response contains no usable
// JSON payload. A malformed payload is treated the same as a missing one:
// both are stage failures, fatal, never retried.
var ErrNoStructuredOutput = errors.New("no structured output found")

// JSONBlock locates the JSON payload in a model response, handling fenced
// markdown blocks and bare objects.
func JSONBlock(output string) ([]byte, error) {
	if idx := strings.Index(output, "```json"); idx != -1 {
		rest := output[idx+len("```json"):]
		if end := strings.Index(rest, "```"); end != -1 {
			return []byte(strings.TrimSpace(rest[:end])), nil
		}
		return nil, ErrNoStructuredOutput
	}

	start := strings.Index(output, "{")
	end := strings.LastIndex(output, "}")
	if start == -1 || end <= start {
		return nil, ErrNoStructuredOutput
	}
	return []byte(output[start : end+1]), nil
}

// ExtractFiles pulls a path→content map from a model response. It accepts
// either {"files": {...}} or a bare path→content object.
func ExtractFiles(output string) (map[string]string, error) {
	raw, err := JSONBlock(output)
	if err != nil {
		return nil, err
	}

	var wrapped struct {
		Files map[string]string `json:"files"`
	}
	if err := json.Unmarshal(raw, &wrapped); err == nil && len(wrapped.Files) > 0 {
		return wrapped.Files, nil
	}

	var direct map[string]string
	if err := json.Unmarshal(raw, &direct); err == nil && len(direct) > 0 {
		return direct, nil
	}

	return nil, ErrNoStructuredOutput
}

// Patch is one full-content file replacement proposed by the debugger stage.
type Patch struct {
	Path    string `json:"path"`
	Content string `json:"content"`
	Reason  string `json:"reason,omitempty"`
}

// ExtractPatches pulls the debugger's patch list from a model response. It
// accepts {"patches": [...]} with a files-map fallback. An empty result with
// a nil error means the model produced valid output containing no patches.
func ExtractPatches(output string) ([]Patch, error) {
	raw, err := JSONBlock(output)
	if err != nil {
		return nil, err
	}

	var wrapped struct {
		Patches []Patch           `json:"patches"`
		Files   map[string]string `json:"files"`
	}
	if err := json.Unmarshal(raw, &wrapped); err != nil {
		return nil, ErrNoStructuredOutput
	}

	patches := wrapped.Patches
	if len(patches) == 0 {
		for path, content := range wrapped.Files {
			patches = append(patches, Patch{Path: path, Content: content})
		}
	}

	var valid []Patch
	for _, p := range patches {
		if p.Path != "" && p.Content != "" {
			valid = append(valid, p)
		}
	}
	return valid, nil
}
