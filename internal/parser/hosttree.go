package parser

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/L1nMay/scanresults/internal/model"
)

// <nmaprun scanner="masscan" start="1660000000"><host><address addr="10.0.0.1" addrtype="ipv4"/><ports>...</ports></host></nmaprun>
type nmapRun struct {
	XMLName xml.Name   `xml:"nmaprun"`
	Scanner string     `xml:"scanner,attr"`
	Start   int64      `xml:"start,attr"`
	Hosts   []nmapHost `xml:"host"`
}

type nmapHost struct {
	Status struct {
		State string `xml:"state,attr"`
	} `xml:"status"`
	Addresses []nmapAddress `xml:"address"`
	Ports     []nmapPort    `xml:"ports>port"`
}

type nmapAddress struct {
	Addr     string `xml:"addr,attr"`
	AddrType string `xml:"addrtype,attr"`
}

type nmapPort struct {
	Protocol string `xml:"protocol,attr"`
	PortID   string `xml:"portid,attr"`
	State    struct {
		State string `xml:"state,attr"`
	} `xml:"state"`
	Service struct {
		Name string `xml:"name,attr"`
	} `xml:"service"`
}

// ParseHostTree parses nmap or masscan xml output into one Finding per host.
// masscan writes a <host> element per open port, those are merged. fallback
// is used as the timestamp when the document has no start attribute.
func ParseHostTree(r io.Reader, fallback time.Time) ([]model.Finding, error) {
	var run nmapRun
	if err := xml.NewDecoder(r).Decode(&run); err != nil {
		return nil, fmt.Errorf("%w: host xml: %v", model.ErrMalformedInput, err)
	}

	scanType := model.ScanType(strings.ToLower(strings.TrimSpace(run.Scanner)))
	if scanType == "" {
		scanType = model.ScanNmap
	}

	ts := fallback
	if run.Start > 0 {
		ts = time.Unix(run.Start, 0).UTC()
	}

	var findings []model.Finding
	index := map[string]int{}

	for _, h := range run.Hosts {
		if h.Status.State == "down" {
			continue
		}
		addr := hostAddress(h)
		if addr == "" {
			continue
		}

		i, ok := index[addr]
		if !ok {
			findings = append(findings, model.Finding{
				Address:   addr,
				ScanType:  scanType,
				Ports:     []model.PortRecord{},
				Timestamp: ts,
			})
			i = len(findings) - 1
			index[addr] = i
		}

		for _, p := range h.Ports {
			if !strings.HasPrefix(p.State.State, "open") || p.PortID == "" {
				continue
			}
			findings[i].Ports = mergePort(findings[i].Ports, model.PortRecord{
				Port:    p.PortID,
				Service: p.Service.Name,
			})
		}
	}

	return findings, nil
}

// ParseHostTreeFile parses the xml file at path, using its modification time
// as the fallback timestamp.
func ParseHostTreeFile(path string) ([]model.Finding, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	st, err := f.Stat()
	if err != nil {
		return nil, err
	}

	findings, err := ParseHostTree(f, st.ModTime().UTC())
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return findings, nil
}

func hostAddress(h nmapHost) string {
	for _, a := range h.Addresses {
		if a.AddrType == "ipv4" || a.AddrType == "ipv6" {
			return a.Addr
		}
	}
	return ""
}

// mergePort appends p unless the port is already listed, in which case a
// missing service name is filled in.
func mergePort(ports []model.PortRecord, p model.PortRecord) []model.PortRecord {
	for i := range ports {
		if ports[i].Port == p.Port {
			if ports[i].Service == "" {
				ports[i].Service = p.Service
			}
			return ports
		}
	}
	return append(ports, p)
}
