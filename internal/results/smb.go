package results

import (
	"os"

	"github.com/L1nMay/scanresults/internal/logger"
	"github.com/L1nMay/scanresults/internal/model"
	"github.com/L1nMay/scanresults/internal/parser"
)

// SMBOutputs returns the transcript text of every smbenum finding of ip.
// Unreadable transcripts are skipped.
func SMBOutputs(hosts model.HostMap, ip string) []string {
	var out []string
	for _, f := range hosts[ip] {
		if f.ScanType != model.ScanSMBEnum || len(f.Ports) == 0 {
			continue
		}
		b, err := os.ReadFile(f.Ports[0].File)
		if err != nil {
			logger.WithField("host", ip).Warnf("smb transcript: %v", err)
			continue
		}
		out = append(out, string(b))
	}
	return out
}

// SMBSummaryFor merges the summaries of all transcripts of ip, later ones win.
func SMBSummaryFor(hosts model.HostMap, ip string) model.SMBSummary {
	var s model.SMBSummary
	for _, text := range SMBOutputs(hosts, ip) {
		s.Merge(parser.ParseSMBTranscript(text))
	}
	return s
}
