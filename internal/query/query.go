// Package query answers result queries. Every call reads the result tree
// from disk again, so a Service holds no result state and is safe for
// concurrent use.
package query

import (
	"fmt"

	"github.com/L1nMay/scanresults/internal/filter"
	"github.com/L1nMay/scanresults/internal/ipaddr"
	"github.com/L1nMay/scanresults/internal/logger"
	"github.com/L1nMay/scanresults/internal/metrics"
	"github.com/L1nMay/scanresults/internal/model"
	"github.com/L1nMay/scanresults/internal/results"
)

const (
	KindIP       = "ip"
	KindPort     = "port"
	KindFilter   = "filter"
	KindAll      = "all"
	KindNetworks = "networks"
	KindIPs      = "ips"
	KindScans    = "scans"
)

// Filters are applied in field order. Zero values are skipped.
type Filters struct {
	Prefix      string
	Port        string
	Service     string
	Vulns       bool
	Screenshots bool
	Notes       bool
	Content     string
	Readable    bool
	Writable    bool
}

type Request struct {
	Kind    string
	Address string
	Port    string
	Filters Filters
}

// Response is one of model.HostMap, IPList, Networks, Jobs or Status.
type Response any

type IPList struct {
	IPs []string `json:"ips"`
}

// Networks counts hosts per first two address labels.
type Networks map[string]int

type Jobs struct {
	Scans []model.ScanJob `json:"scans"`
}

type Status struct {
	Status string `json:"status"`
}

var notOK = Status{Status: "not ok"}

type Service struct {
	root     string
	comments filter.CommentIndex
}

// NewService answers queries against the result tree at root. comments may be
// nil, then no host has notes.
func NewService(root string, comments filter.CommentIndex) *Service {
	return &Service{root: root, comments: comments}
}

// Run answers req. An unknown kind gets a "not ok" status, errors are
// reserved for an unreadable result root, an invalid network filter and a
// failing notes store.
func (s *Service) Run(req Request) (Response, error) {
	switch req.Kind {
	case KindIP, KindPort, KindFilter, KindAll, KindNetworks, KindIPs, KindScans:
		metrics.IncQuery(req.Kind)
	default:
		metrics.IncQuery("unknown")
		logger.Warnf("%v: %q", model.ErrUnknownQueryKind, req.Kind)
		return notOK, nil
	}

	r, err := results.Ingest(s.root)
	if err != nil {
		return nil, err
	}

	switch req.Kind {
	case KindIP:
		return forIP(r, req.Address), nil
	case KindPort:
		return r.ByPort(req.Port), nil
	case KindFilter:
		return s.filtered(r.Hosts, req.Filters)
	case KindAll:
		return r.Hosts, nil
	case KindNetworks:
		counts := Networks{}
		for addr := range r.Hosts {
			counts[ipaddr.Slash16(addr)]++
		}
		return counts, nil
	case KindIPs:
		return ipList(r.Hosts), nil
	default:
		jobs := r.Jobs
		if jobs == nil {
			jobs = []model.ScanJob{}
		}
		return Jobs{Scans: jobs}, nil
	}
}

// forIP returns the newest finding per scan type of ip followed by its SMB
// summary. Unknown hosts give an empty map.
func forIP(r *results.Results, ip string) model.HostMap {
	findings, ok := r.Hosts[ip]
	if !ok {
		return model.HostMap{}
	}
	latest := results.LatestPerScanType(findings)
	summary := results.SMBSummaryFor(r.Hosts, ip)
	latest = append(latest, model.Finding{
		Address:  ip,
		ScanType: model.ScanSMBInfo,
		SMBInfo:  &summary,
	})
	return model.HostMap{ip: latest}
}

func ipList(hosts model.HostMap) IPList {
	return IPList{IPs: results.SortedAddresses(hosts.Addresses())}
}

func (s *Service) filtered(hosts model.HostMap, f Filters) (IPList, error) {
	count := func(stage string) {
		logger.WithField("stage", stage).Infof("count %s=%d", stage, len(hosts))
	}
	count("all")

	var err error
	if f.Prefix != "" {
		if hosts, err = filter.ByPrefix(hosts, f.Prefix); err != nil {
			return IPList{}, err
		}
		count("prefix")
	}
	if f.Port != "" {
		hosts = filter.ByPort(hosts, f.Port)
		count("port")
	}
	if f.Service != "" {
		hosts = filter.ByService(hosts, f.Service)
		count("service")
	}
	if f.Vulns {
		hosts = filter.ByVulns(hosts)
		count("vulns")
	}
	if f.Screenshots {
		hosts = filter.ByScreenshots(hosts)
		count("screenshots")
	}
	if f.Notes {
		noted, err := s.noted()
		if err != nil {
			return IPList{}, err
		}
		hosts = filter.ByNotes(hosts, noted)
		count("notes")
	}
	if f.Content != "" {
		hosts = filter.ByContent(hosts, f.Content)
		count("content")
	}
	if f.Readable || f.Writable {
		hosts = filter.ByShares(hosts, f.Readable, f.Writable, results.SMBSummaryFor)
		count("shares")
	}
	count("final")

	return ipList(hosts), nil
}

func (s *Service) noted() (map[string]struct{}, error) {
	if s.comments == nil {
		return nil, nil
	}
	noted, err := s.comments.HostsWithComments()
	if err != nil {
		return nil, fmt.Errorf("hosts with comments: %w", err)
	}
	return noted, nil
}
