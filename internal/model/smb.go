package model

type ShareRecord struct {
	Name        string `json:"name"`
	Permissions string `json:"permissions"`
	Remark      string `json:"remark"`
}

// SMBSummary is what can be recovered from an SMB enumeration transcript.
// Every field is optional.
type SMBSummary struct {
	OSVersion string        `json:"osversion,omitempty"`
	Name      string        `json:"name,omitempty"`
	Domain    string        `json:"domain,omitempty"`
	Shares    []ShareRecord `json:"shares,omitempty"`
}

// Merge overwrites every field that is set in other.
func (s *SMBSummary) Merge(other SMBSummary) {
	if other.OSVersion != "" {
		s.OSVersion = other.OSVersion
	}
	if other.Name != "" {
		s.Name = other.Name
	}
	if other.Domain != "" {
		s.Domain = other.Domain
	}
	if len(other.Shares) > 0 {
		s.Shares = other.Shares
	}
}

func (s SMBSummary) Empty() bool {
	return s.OSVersion == "" && s.Name == "" && s.Domain == "" && len(s.Shares) == 0
}
