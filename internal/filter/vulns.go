package filter

import (
	"strings"

	"github.com/L1nMay/scanresults/internal/logger"
	"github.com/L1nMay/scanresults/internal/model"
)

// vulnCheck recognizes a positive result of one vulnerability check by its status text.
type vulnCheck struct {
	scanType model.ScanType
	positive func(status string) bool
}

var (
	bluekeep = vulnCheck{model.ScanBluekeep, func(s string) bool {
		return strings.Contains(s, "target is vulnerable")
	}}
	ms17010 = vulnCheck{model.ScanMS17010, func(s string) bool {
		return strings.Contains(s, "Host is likely VULNERABLE")
	}}
	// "Host is not vulnerable" must not match.
	ms12020 = vulnCheck{model.ScanMS12020, func(s string) bool {
		s = strings.ToLower(s)
		return strings.Contains(s, "vulnerable") && !strings.Contains(s, "not")
	}}
	cve20211675 = vulnCheck{model.ScanCVE20211675, func(s string) bool {
		return strings.Contains(strings.ToLower(s), "target is vulnerable")
	}}
)

func (c vulnCheck) match(addr string, f *model.Finding) bool {
	if f.ScanType != c.scanType {
		return false
	}
	status, ok := f.FirstStatus()
	if !ok || !c.positive(status) {
		return false
	}
	logger.WithField("host", addr).Debugf("%s: %s", c.scanType, status)
	return true
}

func byVulns(hosts model.HostMap, checks ...vulnCheck) model.HostMap {
	return keepIf(hosts, func(addr string, findings []model.Finding) bool {
		return anyFinding(findings, func(f *model.Finding) bool {
			for _, c := range checks {
				if c.match(addr, f) {
					return true
				}
			}
			return false
		})
	})
}

func ByBluekeep(hosts model.HostMap) model.HostMap {
	return byVulns(hosts, bluekeep)
}

func ByMS17010(hosts model.HostMap) model.HostMap {
	return byVulns(hosts, ms17010)
}

func ByMS12020(hosts model.HostMap) model.HostMap {
	return byVulns(hosts, ms12020)
}

func ByCVE20211675(hosts model.HostMap) model.HostMap {
	return byVulns(hosts, cve20211675)
}

// ByVulns keeps hosts positive for any of the known checks.
func ByVulns(hosts model.HostMap) model.HostMap {
	return byVulns(hosts, ms17010, bluekeep, ms12020, cve20211675)
}
