package parser

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/iancoleman/orderedmap"

	"github.com/L1nMay/scanresults/internal/model"
)

const (
	ResultsFile = "results.json"
	OutputFile  = "output.xml"
	InfoFile    = "info.json"
)

// {"host":"10.0.0.1","port":445,"scantype":"smbenum","file":"smbenum-445.txt"}
// {"host":"10.0.0.1","port":"3389","scantype":"bluekeep","status":"[+] 10.0.0.1 - The target is vulnerable."}
// {"host":"10.0.0.1","port":80,"scantype":"ffuf","file":"ffuf.json","output":{"results":[...]}}
type jobEntry struct {
	Host     string          `json:"host"`
	Port     json.RawMessage `json:"port"`
	ScanType string          `json:"scantype"`
	Status   string          `json:"status"`
	File     string          `json:"file"`
	Output   json.RawMessage `json:"output"`
}

// JobResults is the outcome of parsing one results.json.
type JobResults struct {
	Findings []model.Finding
	// Dropped holds one error per skipped entry, wrapping ErrMalformedInput
	// or ErrMissingArtifact.
	Dropped []error
}

// ParseJobResultsFile parses <dir>/results.json. Artifact paths are resolved
// relative to dir, every finding gets the stamp timestamp.
func ParseJobResultsFile(dir string, stamp time.Time) (*JobResults, error) {
	path := filepath.Join(dir, ResultsFile)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	res, err := ParseJobResults(data, dir, stamp)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return res, nil
}

func ParseJobResults(data []byte, dir string, stamp time.Time) (*JobResults, error) {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: results array: %v", model.ErrMalformedInput, err)
	}

	res := &JobResults{}
	for i, msg := range raw {
		f, err := parseJobEntry(msg, dir)
		if err != nil {
			res.Dropped = append(res.Dropped, fmt.Errorf("entry %d: %w", i, err))
			continue
		}
		f.Timestamp = stamp
		res.Findings = append(res.Findings, f)
	}
	return res, nil
}

func parseJobEntry(msg json.RawMessage, dir string) (model.Finding, error) {
	var e jobEntry
	if err := json.Unmarshal(msg, &e); err != nil {
		return model.Finding{}, fmt.Errorf("%w: %v", model.ErrMalformedInput, err)
	}
	if e.Host == "" || e.ScanType == "" {
		return model.Finding{}, fmt.Errorf("%w: host and scantype are required", model.ErrMalformedInput)
	}
	port, err := portString(e.Port)
	if err != nil {
		return model.Finding{}, err
	}

	fname := ""
	if e.File != "" {
		fname = filepath.Join(dir, e.File)
	}

	st := model.ScanType(e.ScanType)
	rec := model.PortRecord{Port: port}

	switch st.Payload() {
	case model.PayloadFuzz:
		results, err := fuzzResults(e.Output)
		if err != nil {
			return model.Finding{}, err
		}
		rec.File = fname
		rec.Results = results
	case model.PayloadVulnCheck:
		rec.Status = e.Status
	default:
		if err := checkArtifact(fname); err != nil {
			return model.Finding{}, fmt.Errorf("%s %s:%s: %w", st, e.Host, port, err)
		}
		rec.File = fname
	}

	return model.Finding{
		Address:  e.Host,
		ScanType: st,
		Ports:    []model.PortRecord{rec},
	}, nil
}

// portString accepts both 445 and "445".
func portString(raw json.RawMessage) (string, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return "", nil
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return "", fmt.Errorf("%w: port: %v", model.ErrMalformedInput, err)
		}
		return s, nil
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return "", fmt.Errorf("%w: port: %v", model.ErrMalformedInput, err)
	}
	return n.String(), nil
}

// fuzzResults returns output.results as decoded json with object key order kept.
func fuzzResults(output json.RawMessage) ([]any, error) {
	if len(bytes.TrimSpace(output)) == 0 {
		return nil, fmt.Errorf("%w: ffuf entry without output", model.ErrMalformedInput)
	}
	om := orderedmap.New()
	if err := json.Unmarshal(output, om); err != nil {
		return nil, fmt.Errorf("%w: ffuf output: %v", model.ErrMalformedInput, err)
	}
	v, ok := om.Get("results")
	if !ok {
		return nil, fmt.Errorf("%w: ffuf output without results", model.ErrMalformedInput)
	}
	switch results := v.(type) {
	case []interface{}:
		return results, nil
	case nil:
		return []any{}, nil
	default:
		return nil, fmt.Errorf("%w: ffuf results is %T, not a list", model.ErrMalformedInput, v)
	}
}

// checkArtifact treats an absent and an empty file the same way.
func checkArtifact(path string) error {
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("%w: no file referenced", model.ErrMissingArtifact)
	}
	st, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("%w: %v", model.ErrMissingArtifact, err)
	}
	if st.Size() == 0 {
		return fmt.Errorf("%w: %s is empty", model.ErrMissingArtifact, path)
	}
	return nil
}
