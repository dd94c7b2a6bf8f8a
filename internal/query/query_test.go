package query

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/L1nMay/scanresults/internal/filter"
	"github.com/L1nMay/scanresults/internal/model"
	"github.com/L1nMay/scanresults/internal/results"
)

const (
	jobVulns = "0f8fad5b-d9cb-469f-a165-70867728950e"
	jobNmap  = "7c9e6679-7425-40de-944b-e07fc1f90ae7"
	jobSMB   = "c56a4180-65aa-42ec-a945-5fd21dec0538"
)

const nmapXML = `<nmaprun scanner="nmap" start="%d">
<host><status state="up"/><address addr="10.0.0.5" addrtype="ipv4"/>
<ports><port protocol="tcp" portid="445"><state state="open"/><service name="microsoft-ds"/></port></ports></host>
<host><status state="up"/><address addr="10.0.0.10" addrtype="ipv4"/>
<ports><port protocol="tcp" portid="22"><state state="open"/><service name="ssh"/></port></ports></host>
<host><status state="up"/><address addr="10.1.0.7" addrtype="ipv4"/>
<ports><port protocol="tcp" portid="445"><state state="open"/><service name="microsoft-ds"/></port></ports></host>
<host><status state="up"/><address addr="192.168.3.4" addrtype="ipv4"/>
<ports><port protocol="tcp" portid="80"><state state="open"/><service name="http"/></port></ports></host>
</nmaprun>`

const smbTranscript = `SMB 10.0.0.5 445 FS01 [*] Windows Server 2019 (name:FS01) (domain:corp.local) (signing:True)
SMB 10.0.0.5 445 FS01 [+] Enumerated shares
SMB 10.0.0.5 445 FS01 Share     Permissions  Remark
SMB 10.0.0.5 445 FS01 -----     -----------  ------
SMB 10.0.0.5 445 FS01 data      READ,WRITE   Team share
`

type staticComments struct {
	hosts map[string]struct{}
	err   error
}

func (c staticComments) HostsWithComments() (map[string]struct{}, error) {
	return c.hosts, c.err
}

func write(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func resultRoot(t *testing.T) string {
	t.Helper()
	root := t.TempDir()

	write(t, filepath.Join(root, "older.xml"), fmt.Sprintf(nmapXML, 1600000000))
	write(t, filepath.Join(root, jobNmap, "output.xml"), fmt.Sprintf(nmapXML, 1700000000))
	write(t, filepath.Join(root, jobNmap, "info.json"), `{"scantype":"nmap","target":"10.0.0.0/8"}`)

	vulns := filepath.Join(root, jobVulns)
	write(t, filepath.Join(vulns, "shot.png"), "\x89PNG")
	write(t, filepath.Join(vulns, "results.json"), `[
	  {"host":"10.0.0.5","port":3389,"scantype":"bluekeep","status":"The target is vulnerable."},
	  {"host":"10.1.0.7","port":445,"scantype":"ms12_020","status":"Host is not vulnerable"},
	  {"host":"192.168.3.4","port":80,"scantype":"screenshot","file":"shot.png"},
	  {"host":"192.168.3.4","port":80,"scantype":"ffuf","output":{"results":[{"url":"http://192.168.3.4/login","status":200}]}}
	]`)

	smb := filepath.Join(root, jobSMB)
	write(t, filepath.Join(smb, "smb.txt"), smbTranscript)
	write(t, filepath.Join(smb, "results.json"), `[{"host":"10.0.0.5","port":445,"scantype":"smbenum","file":"smb.txt"}]`)

	return root
}

func TestRunIP(t *testing.T) {
	svc := NewService(resultRoot(t), nil)

	resp, err := svc.Run(Request{Kind: KindIP, Address: "10.0.0.5"})
	require.NoError(t, err)
	hosts, ok := resp.(model.HostMap)
	require.True(t, ok, "response is %T", resp)
	findings := hosts["10.0.0.5"]

	var types []model.ScanType
	for _, f := range findings {
		types = append(types, f.ScanType)
	}
	assert.Equal(t, []model.ScanType{model.ScanNmap, model.ScanBluekeep, model.ScanSMBEnum, model.ScanSMBInfo}, types)
	assert.Equal(t, int64(1700000000), findings[0].Timestamp.Unix())

	summary := findings[len(findings)-1].SMBInfo
	require.NotNil(t, summary)
	assert.Equal(t, "FS01", summary.Name)
	assert.Equal(t, []model.ShareRecord{{Name: "data", Permissions: "READ,WRITE", Remark: "Team share"}}, summary.Shares)

	resp, err = svc.Run(Request{Kind: KindIP, Address: "10.9.9.9"})
	require.NoError(t, err)
	assert.Equal(t, model.HostMap{}, resp)
}

func TestRunKinds(t *testing.T) {
	svc := NewService(resultRoot(t), nil)

	resp, err := svc.Run(Request{Kind: KindIPs})
	require.NoError(t, err)
	assert.Equal(t, IPList{IPs: []string{"10.0.0.5", "10.0.0.10", "10.1.0.7", "192.168.3.4"}}, resp)

	resp, err = svc.Run(Request{Kind: KindNetworks})
	require.NoError(t, err)
	assert.Equal(t, Networks{"10.0": 2, "10.1": 1, "192.168": 1}, resp)

	resp, err = svc.Run(Request{Kind: KindPort, Port: "445"})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"10.0.0.5", "10.1.0.7"}, resp.(model.HostMap).Addresses())

	resp, err = svc.Run(Request{Kind: KindAll})
	require.NoError(t, err)
	assert.Len(t, resp.(model.HostMap), 4)

	resp, err = svc.Run(Request{Kind: KindScans})
	require.NoError(t, err)
	jobs := resp.(Jobs)
	require.Len(t, jobs.Scans, 1)
	assert.Equal(t, jobNmap, jobs.Scans[0].ID)

	resp, err = svc.Run(Request{Kind: "hosts"})
	require.NoError(t, err)
	assert.Equal(t, Status{Status: "not ok"}, resp)
}

func TestRunMissingRoot(t *testing.T) {
	svc := NewService(filepath.Join(t.TempDir(), "missing"), nil)
	_, err := svc.Run(Request{Kind: KindAll})
	assert.True(t, errors.Is(err, model.ErrStructuralIO))

	// unknown kinds never touch the disk
	resp, err := svc.Run(Request{Kind: ""})
	require.NoError(t, err)
	assert.Equal(t, Status{Status: "not ok"}, resp)
}

func TestRunFilter(t *testing.T) {
	comments := staticComments{hosts: map[string]struct{}{"10.0.0.10": {}, "192.168.3.4": {}}}
	svc := NewService(resultRoot(t), comments)

	tests := []struct {
		name    string
		filters Filters
		want    []string
	}{
		{name: "No filters", filters: Filters{}, want: []string{"10.0.0.5", "10.0.0.10", "10.1.0.7", "192.168.3.4"}},
		{name: "Prefix", filters: Filters{Prefix: "10.0"}, want: []string{"10.0.0.5", "10.0.0.10"}},
		{name: "Prefix and port", filters: Filters{Prefix: "10", Port: "445"}, want: []string{"10.0.0.5", "10.1.0.7"}},
		{name: "Network prefix", filters: Filters{Prefix: "10.0.0.0/16"}, want: []string{"10.0.0.5", "10.0.0.10"}},
		{name: "Single host", filters: Filters{Prefix: "10.1.0.7/32"}, want: []string{"10.1.0.7"}},
		{name: "Service", filters: Filters{Service: "micro"}, want: []string{"10.0.0.5", "10.1.0.7"}},
		{name: "Vulns", filters: Filters{Vulns: true}, want: []string{"10.0.0.5"}},
		{name: "Screenshots", filters: Filters{Screenshots: true}, want: []string{"192.168.3.4"}},
		{name: "Notes", filters: Filters{Notes: true}, want: []string{"10.0.0.10", "192.168.3.4"}},
		{name: "Notes and prefix", filters: Filters{Prefix: "10", Notes: true}, want: []string{"10.0.0.10"}},
		{name: "Content", filters: Filters{Content: "LOGIN"}, want: []string{"192.168.3.4"}},
		{name: "Writable shares", filters: Filters{Writable: true}, want: []string{"10.0.0.5"}},
		{name: "Nothing left", filters: Filters{Port: "445", Screenshots: true}, want: []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := svc.Run(Request{Kind: KindFilter, Filters: tt.filters})
			require.NoError(t, err)
			assert.Equal(t, IPList{IPs: tt.want}, resp)
		})
	}
}

func TestRunFilterMatchesManualChain(t *testing.T) {
	root := resultRoot(t)
	resp, err := NewService(root, nil).Run(Request{Kind: KindFilter, Filters: Filters{Prefix: "10.0", Port: "445"}})
	require.NoError(t, err)

	r, err := results.Ingest(root)
	require.NoError(t, err)
	byPrefix, err := filter.ByPrefix(r.Hosts, "10.0")
	require.NoError(t, err)
	manual := filter.ByPort(byPrefix, "445")

	assert.Equal(t, IPList{IPs: results.SortedAddresses(manual.Addresses())}, resp)
}

func TestRunFilterErrors(t *testing.T) {
	root := resultRoot(t)

	_, err := NewService(root, nil).Run(Request{Kind: KindFilter, Filters: Filters{Prefix: "10.0.0.1/8"}})
	assert.True(t, errors.Is(err, model.ErrInvalidNetworkSpec))

	broken := staticComments{err: errors.New("db down")}
	_, err = NewService(root, broken).Run(Request{Kind: KindFilter, Filters: Filters{Notes: true}})
	assert.ErrorContains(t, err, "db down")

	resp, err := NewService(root, nil).Run(Request{Kind: KindFilter, Filters: Filters{Notes: true}})
	require.NoError(t, err)
	assert.Equal(t, IPList{IPs: []string{}}, resp)
}
