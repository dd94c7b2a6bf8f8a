package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/L1nMay/scanresults/internal/model"
)

func vulnHosts(st model.ScanType, status string) model.HostMap {
	h := model.HostMap{}
	h.Add(finding("10.0.0.1", st, model.PortRecord{Port: "445", Status: status}))
	return h
}

func TestVulnFilters(t *testing.T) {
	tests := []struct {
		name   string
		filter func(model.HostMap) model.HostMap
		st     model.ScanType
		status string
		want   bool
	}{
		{"Bluekeep vulnerable", ByBluekeep, model.ScanBluekeep, "[+] 10.0.0.1:3389 - The target is vulnerable.", true},
		{"Bluekeep case sensitive", ByBluekeep, model.ScanBluekeep, "The Target Is Vulnerable", false},
		{"Bluekeep safe", ByBluekeep, model.ScanBluekeep, "[*] 10.0.0.1:3389 - The target is not exploitable.", false},
		{"Bluekeep wrong scan type", ByBluekeep, model.ScanMS17010, "The target is vulnerable.", false},
		{"MS17-010 vulnerable", ByMS17010, model.ScanMS17010, "[+] 10.0.0.1:445 - Host is likely VULNERABLE to MS17-010!", true},
		{"MS17-010 case sensitive", ByMS17010, model.ScanMS17010, "host is likely vulnerable", false},
		{"MS12-020 vulnerable", ByMS12020, model.ScanMS12020, "Host is vulnerable", true},
		{"MS12-020 negated", ByMS12020, model.ScanMS12020, "Host is not vulnerable", false},
		{"MS12-020 upper case", ByMS12020, model.ScanMS12020, "HOST IS VULNERABLE", true},
		{"CVE-2021-1675 vulnerable", ByCVE20211675, model.ScanCVE20211675, "[+] The Target Is Vulnerable", true},
		{"CVE-2021-1675 safe", ByCVE20211675, model.ScanCVE20211675, "[-] patched", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.filter(vulnHosts(tt.st, tt.status))
			assert.Equal(t, tt.want, len(got) == 1)
		})
	}
}

func TestVulnFilterWithoutPorts(t *testing.T) {
	h := model.HostMap{}
	h.Add(finding("10.0.0.1", model.ScanBluekeep))
	assert.Empty(t, ByBluekeep(h))
}

func TestByVulnsUnion(t *testing.T) {
	h := model.HostMap{}
	h.Add(finding("10.0.0.1", model.ScanBluekeep, model.PortRecord{Port: "3389", Status: "The target is vulnerable."}))
	h.Add(finding("10.0.0.2", model.ScanMS17010, model.PortRecord{Port: "445", Status: "Host is likely VULNERABLE to MS17-010!"}))
	h.Add(finding("10.0.0.3", model.ScanMS12020, model.PortRecord{Port: "3389", Status: "Host is vulnerable"}))
	h.Add(finding("10.0.0.4", model.ScanCVE20211675, model.PortRecord{Port: "445", Status: "target is vulnerable"}))
	h.Add(finding("10.0.0.5", model.ScanMS12020, model.PortRecord{Port: "3389", Status: "Host is not vulnerable"}))
	h.Add(finding("10.0.0.6", model.ScanNmap, model.PortRecord{Port: "3389", Status: "target is vulnerable"}))

	assert.Equal(t, []string{"10.0.0.1", "10.0.0.2", "10.0.0.3", "10.0.0.4"}, ByVulns(h).Addresses())
}
