// Package results builds the in-memory host map from a result directory tree.
//
// A result root holds loose nmap/masscan xml files and one directory per scan
// job. A job directory carries results.json or output.xml (results.json wins
// when both exist) and optionally info.json. The store is rebuilt on every
// query and never cached.
package results

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/multierr"

	"github.com/L1nMay/scanresults/internal/logger"
	"github.com/L1nMay/scanresults/internal/metrics"
	"github.com/L1nMay/scanresults/internal/model"
	"github.com/L1nMay/scanresults/internal/parser"
)

type Results struct {
	Hosts model.HostMap
	Jobs  []model.ScanJob

	diag error
}

// Ingest reads every result under root. Problems with single files or
// entries are logged and kept as diagnostics; only an unreadable root is an
// error.
func Ingest(root string) (*Results, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", model.ErrStructuralIO, root, err)
	}

	r := &Results{Hosts: model.HostMap{}}

	var dirs []string
	for _, e := range entries {
		p := filepath.Join(root, e.Name())
		st, err := os.Stat(p)
		if err != nil {
			r.skip(p, metrics.ReasonUnreadable, err)
			continue
		}
		switch {
		case st.IsDir():
			dirs = append(dirs, p)
		case strings.HasSuffix(e.Name(), ".xml"):
			r.readHostTree(p)
		}
	}
	for _, d := range dirs {
		r.readJobDir(d)
	}

	return r, nil
}

// Diagnostics returns the problems met during ingestion, one per skipped file or entry.
func (r *Results) Diagnostics() []error {
	return multierr.Errors(r.diag)
}

// ByIP returns every finding of ip in ingestion order.
func (r *Results) ByIP(ip string) []model.Finding {
	return r.Hosts[ip]
}

// ByPort returns the hosts having a port record equal to port, with all their findings.
func (r *Results) ByPort(port string) model.HostMap {
	out := model.HostMap{}
	for addr, findings := range r.Hosts {
		for i := range findings {
			if findings[i].HasPort(port) {
				out[addr] = findings
				break
			}
		}
	}
	return out
}

func (r *Results) add(findings []model.Finding) {
	for _, f := range findings {
		r.Hosts.Add(f)
	}
	metrics.AddFindings(len(findings))
}

func (r *Results) readHostTree(path string) {
	findings, err := parser.ParseHostTreeFile(path)
	if err != nil {
		r.skip(path, reason(err), err)
		return
	}
	metrics.IncIngested(metrics.FormatHostTree)
	r.add(findings)
}

func (r *Results) readJobDir(dir string) {
	st, err := os.Stat(dir)
	if err != nil {
		r.skip(dir, metrics.ReasonUnreadable, err)
		return
	}
	stamp := st.ModTime().UTC()

	switch {
	case isFile(filepath.Join(dir, parser.ResultsFile)):
		res, err := parser.ParseJobResultsFile(dir, stamp)
		if err != nil {
			r.skip(filepath.Join(dir, parser.ResultsFile), reason(err), err)
			break
		}
		metrics.IncIngested(metrics.FormatJobResults)
		for _, d := range res.Dropped {
			r.drop(dir, d)
		}
		r.add(res.Findings)
	case isFile(filepath.Join(dir, parser.OutputFile)):
		r.readHostTree(filepath.Join(dir, parser.OutputFile))
	}

	if !isFile(filepath.Join(dir, parser.InfoFile)) {
		return
	}
	job, err := parser.ParseJobInfoFile(dir)
	if err != nil {
		r.skip(filepath.Join(dir, parser.InfoFile), reason(err), err)
		return
	}
	if job != nil {
		metrics.IncIngested(metrics.FormatJobInfo)
		r.Jobs = append(r.Jobs, *job)
	}
}

func (r *Results) skip(path, why string, err error) {
	metrics.IncSkipped(why)
	logger.WithField("path", path).Warnf("skipping %s: %v", why, err)
	r.diag = multierr.Append(r.diag, err)
}

// drop records a single results.json entry that produced no finding. A
// missing artifact is an empty result, not a problem worth reporting.
func (r *Results) drop(dir string, err error) {
	if errors.Is(err, model.ErrMissingArtifact) {
		metrics.IncSkipped(metrics.ReasonMissingArtifact)
		logger.WithField("dir", dir).Debugf("dropping entry: %v", err)
		return
	}
	r.skip(dir, reason(err), err)
}

func reason(err error) string {
	switch {
	case errors.Is(err, model.ErrMalformedInput):
		return metrics.ReasonMalformed
	case errors.Is(err, model.ErrMissingArtifact):
		return metrics.ReasonMissingArtifact
	case errors.Is(err, model.ErrInvalidNetworkSpec):
		return metrics.ReasonInvalidTarget
	default:
		return metrics.ReasonUnreadable
	}
}

func isFile(path string) bool {
	st, err := os.Stat(path)
	return err == nil && st.Mode().IsRegular()
}
