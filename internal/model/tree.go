package model

import (
	"encoding/json"
	"time"

	"github.com/iancoleman/orderedmap"
)

// Tree returns the finding as an ordered key/value tree, keys in the order
// they appear in the API output. Free-text search walks this view.
func (f Finding) Tree() *orderedmap.OrderedMap {
	t := orderedmap.New()
	t.Set("address", f.Address)
	t.Set("scantype", string(f.ScanType))
	if f.SMBInfo != nil {
		t.Set("smbinfo", f.SMBInfo.tree())
	} else {
		ports := make([]any, 0, len(f.Ports))
		for _, p := range f.Ports {
			ports = append(ports, p.tree())
		}
		t.Set("ports", ports)
	}
	if !f.Timestamp.IsZero() {
		t.Set("timestamp", f.Timestamp.UTC().Format(time.RFC3339))
	}
	return t
}

// MarshalJSON writes the Tree view, so empty fields are left out and the
// smbinfo pseudo-finding carries no ports.
func (f Finding) MarshalJSON() ([]byte, error) {
	return json.Marshal(f.Tree())
}

func (p PortRecord) tree() *orderedmap.OrderedMap {
	t := orderedmap.New()
	t.Set("port", p.Port)
	if p.Status != "" {
		t.Set("status", p.Status)
	}
	if p.Service != "" {
		t.Set("service", p.Service)
	}
	if p.File != "" {
		t.Set("file", p.File)
	}
	if p.Results != nil {
		t.Set("results", p.Results)
	}
	return t
}

func (s SMBSummary) tree() *orderedmap.OrderedMap {
	t := orderedmap.New()
	if s.OSVersion != "" {
		t.Set("osversion", s.OSVersion)
	}
	if s.Name != "" {
		t.Set("name", s.Name)
	}
	if s.Domain != "" {
		t.Set("domain", s.Domain)
	}
	if len(s.Shares) > 0 {
		shares := make([]any, 0, len(s.Shares))
		for _, sh := range s.Shares {
			st := orderedmap.New()
			st.Set("name", sh.Name)
			st.Set("permissions", sh.Permissions)
			st.Set("remark", sh.Remark)
			shares = append(shares, st)
		}
		t.Set("shares", shares)
	}
	return t
}
