package model

import (
	"sort"
	"time"
)

type ScanType string

const (
	ScanNmap        ScanType = "nmap"
	ScanMasscan     ScanType = "masscan"
	ScanFfuf        ScanType = "ffuf"
	ScanBluekeep    ScanType = "bluekeep"
	ScanMS12020     ScanType = "ms12_020"
	ScanMS17010     ScanType = "ms17_010"
	ScanCVE20211675 ScanType = "cve_2021_1675"
	ScanSMBEnum     ScanType = "smbenum"

	// ScanSMBInfo is never read from disk, it tags the summary appended to per-host queries.
	ScanSMBInfo ScanType = "smbinfo"
)

// PayloadKind says which PortRecord fields a scan type fills in.
type PayloadKind int

const (
	// PayloadArtifact: port + file, the file must exist and be non-empty.
	PayloadArtifact PayloadKind = iota
	// PayloadHostTree: port + optional service, from nmap/masscan xml.
	PayloadHostTree
	// PayloadFuzz: port + optional file + verbatim fuzzer hits.
	PayloadFuzz
	// PayloadVulnCheck: port + status text.
	PayloadVulnCheck
	// PayloadSummary: no ports, Finding.SMBInfo is set.
	PayloadSummary
)

func (t ScanType) Payload() PayloadKind {
	switch t {
	case ScanNmap, ScanMasscan:
		return PayloadHostTree
	case ScanFfuf:
		return PayloadFuzz
	case ScanBluekeep, ScanMS12020, ScanMS17010, ScanCVE20211675:
		return PayloadVulnCheck
	case ScanSMBInfo:
		return PayloadSummary
	default:
		return PayloadArtifact
	}
}

func (t ScanType) String() string {
	return string(t)
}

type PortRecord struct {
	Port    string `json:"port"`
	Status  string `json:"status,omitempty"`
	Service string `json:"service,omitempty"`
	File    string `json:"file,omitempty"`
	Results []any  `json:"results,omitempty"`
}

// Finding is one scan's result against one host.
type Finding struct {
	Address   string       `json:"address"`
	ScanType  ScanType     `json:"scantype"`
	Ports     []PortRecord `json:"ports"`
	Timestamp time.Time    `json:"timestamp"`
	SMBInfo   *SMBSummary  `json:"smbinfo,omitempty"`
}

// FirstStatus returns the status of the first port record. Vulnerability
// checks always produce exactly one.
func (f *Finding) FirstStatus() (string, bool) {
	if len(f.Ports) == 0 {
		return "", false
	}
	return f.Ports[0].Status, true
}

// HasPort reports whether any port record of the finding is exactly port.
func (f *Finding) HasPort(port string) bool {
	for _, p := range f.Ports {
		if p.Port == port {
			return true
		}
	}
	return false
}

// HostMap maps a host address to its findings in ingestion order.
type HostMap map[string][]Finding

func (h HostMap) Add(f Finding) {
	h[f.Address] = append(h[f.Address], f)
}

// Addresses returns the keys in lexicographic order. Use results.SortedAddresses
// for numeric ordering.
func (h HostMap) Addresses() []string {
	out := make([]string, 0, len(h))
	for k := range h {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// ScanJob is the info.json metadata of a host/port scan directory.
type ScanJob struct {
	ID        string    `json:"id"`
	ScanType  ScanType  `json:"scantype"`
	Target    string    `json:"target"`
	Timestamp time.Time `json:"timestamp"`
}

type Note struct {
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}
