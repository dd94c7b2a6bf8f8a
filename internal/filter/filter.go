// Package filter narrows a host map. Every filter returns a new map and
// leaves its input untouched, so filters chain by feeding one result into the
// next. A kept host always keeps all of its findings.
package filter

import (
	"net/netip"
	"strings"

	"github.com/L1nMay/scanresults/internal/ipaddr"
	"github.com/L1nMay/scanresults/internal/model"
)

// CommentIndex is the read side of the notes store.
type CommentIndex interface {
	HostsWithComments() (map[string]struct{}, error)
}

// SummaryFunc derives the SMB summary of one host, see results.SMBSummaryFor.
type SummaryFunc func(hosts model.HostMap, ip string) model.SMBSummary

func keepIf(hosts model.HostMap, keep func(addr string, findings []model.Finding) bool) model.HostMap {
	out := model.HostMap{}
	for addr, findings := range hosts {
		if keep(addr, findings) {
			out[addr] = findings
		}
	}
	return out
}

func anyFinding(findings []model.Finding, match func(f *model.Finding) bool) bool {
	for i := range findings {
		if match(&findings[i]) {
			return true
		}
	}
	return false
}

// ByPrefix keeps hosts whose address starts with prefix. A missing trailing
// dot is added to IPv4 style prefixes, so "10.0" does not match "10.00.1.1".
// "addr/mask" is handed to ByNetwork.
func ByPrefix(hosts model.HostMap, prefix string) (model.HostMap, error) {
	if addr, mask, ok := strings.Cut(prefix, "/"); ok {
		return ByNetwork(hosts, addr, mask)
	}
	if prefix != "" && !strings.Contains(prefix, ":") && !strings.HasSuffix(prefix, ".") {
		prefix += "."
	}
	return keepIf(hosts, func(addr string, _ []model.Finding) bool {
		return strings.HasPrefix(addr, prefix)
	}), nil
}

func ByPort(hosts model.HostMap, port string) model.HostMap {
	return keepIf(hosts, func(_ string, findings []model.Finding) bool {
		return anyFinding(findings, func(f *model.Finding) bool { return f.HasPort(port) })
	})
}

// ByService keeps hosts with a port whose service name starts with service.
// Only host/port scans record service names.
func ByService(hosts model.HostMap, service string) model.HostMap {
	return keepIf(hosts, func(_ string, findings []model.Finding) bool {
		return anyFinding(findings, func(f *model.Finding) bool {
			for _, p := range f.Ports {
				if p.Service != "" && strings.HasPrefix(p.Service, service) {
					return true
				}
			}
			return false
		})
	})
}

// ByNetwork keeps hosts inside address/mask. A /32 on a dotted quad is a
// plain lookup. Invalid networks return ErrInvalidNetworkSpec.
func ByNetwork(hosts model.HostMap, address, mask string) (model.HostMap, error) {
	if mask == "32" && ipaddr.IsDottedQuad(address) {
		out := model.HostMap{}
		if findings, ok := hosts[address]; ok {
			out[address] = findings
		}
		return out, nil
	}

	network, err := ipaddr.ParseNetwork(address + "/" + mask)
	if err != nil {
		return nil, err
	}
	return keepIf(hosts, func(addr string, _ []model.Finding) bool {
		a, err := netip.ParseAddr(addr)
		return err == nil && network.Contains(a)
	}), nil
}

func ByScreenshots(hosts model.HostMap) model.HostMap {
	return keepIf(hosts, func(_ string, findings []model.Finding) bool {
		return anyFinding(findings, func(f *model.Finding) bool {
			return strings.Contains(string(f.ScanType), "screenshot")
		})
	})
}

// ByNotes keeps hosts present in noted.
func ByNotes(hosts model.HostMap, noted map[string]struct{}) model.HostMap {
	return keepIf(hosts, func(addr string, _ []model.Finding) bool {
		_, ok := noted[addr]
		return ok
	})
}

// ByMissingScan keeps hosts that have no finding of scanType.
func ByMissingScan(hosts model.HostMap, scanType model.ScanType) model.HostMap {
	return keepIf(hosts, func(_ string, findings []model.Finding) bool {
		return !anyFinding(findings, func(f *model.Finding) bool { return f.ScanType == scanType })
	})
}

// ByShares keeps hosts exposing a readable and/or writable SMB share. With
// both flags set either permission is enough.
func ByShares(hosts model.HostMap, readable, writable bool, summarize SummaryFunc) model.HostMap {
	return keepIf(hosts, func(addr string, _ []model.Finding) bool {
		for _, s := range summarize(hosts, addr).Shares {
			perm := strings.ToLower(s.Permissions)
			if readable && strings.Contains(perm, "read") {
				return true
			}
			if writable && strings.Contains(perm, "write") {
				return true
			}
		}
		return false
	})
}
