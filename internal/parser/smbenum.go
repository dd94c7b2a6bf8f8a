package parser

import (
	"regexp"
	"strings"

	"github.com/L1nMay/scanresults/internal/model"
)

// SMB  10.0.0.1  445  DC01  [*] Windows Server 2016 Standard 14393 x64 (name:DC01) (domain:corp.local) (signing:True)
var bannerRe = regexp.MustCompile(`.*\[\*\]\s([^(]+)\s\(name:([^)]+)\)\s\(domain:([^)]+)\).*`)

const (
	sharesMarker   = "[+] Enumerated shares"
	sectionMarker  = "[+] Enumerated"
	domainNameLine = "Domain Name: "
)

type shareState int

const (
	stateScanning shareState = iota
	stateInShareList
)

// ParseSMBTranscript extracts host details and the share table from smb
// enumeration output. Every part of the summary is optional.
func ParseSMBTranscript(text string) model.SMBSummary {
	lines := transcriptLines(text)

	var s model.SMBSummary
	parseBanner(lines, &s)
	s.Shares = parseShares(lines)
	return s
}

func transcriptLines(text string) []string {
	var out []string
	for _, l := range strings.Split(text, "\n") {
		l = strings.TrimSpace(l)
		if strings.Contains(l, "Working on it") {
			continue
		}
		out = append(out, l)
	}
	return out
}

func parseBanner(lines []string, s *model.SMBSummary) {
	for _, l := range lines {
		if strings.Contains(l, "name:") && strings.Contains(l, "domain:") {
			if m := bannerRe.FindStringSubmatch(l); m != nil {
				s.OSVersion = m[1]
				s.Name = m[2]
				s.Domain = m[3]
			}
		}
		if strings.HasPrefix(l, domainNameLine) {
			s.Domain = strings.TrimSpace(strings.SplitN(l, ": ", 2)[1])
		}
	}
}

// shareColumns are rune offsets of the Share, Permissions and Remark headers.
type shareColumns struct {
	name, permissions, remark int
}

func headerColumns(line string) (shareColumns, bool) {
	r := []rune(line)
	c := shareColumns{
		name:        runeIndex(r, "Share"),
		permissions: runeIndex(r, "Permissions"),
		remark:      runeIndex(r, "Remark"),
	}
	if c.name < 0 || c.permissions < 0 || c.remark < 0 {
		return shareColumns{}, false
	}
	return c, true
}

// split cuts a share row at the header offsets. Columns are separated by at
// least two characters of padding, so the two runes before the next header are dropped.
func (c shareColumns) split(line string) model.ShareRecord {
	r := []rune(line)
	return model.ShareRecord{
		Name:        strings.TrimSpace(runeSlice(r, c.name, c.permissions-2)),
		Permissions: strings.TrimSpace(runeSlice(r, c.permissions, c.remark-2)),
		Remark:      strings.TrimSpace(runeSlice(r, c.remark, len(r))),
	}
}

func parseShares(lines []string) []model.ShareRecord {
	var (
		shares     []model.ShareRecord
		state      = stateScanning
		cols       shareColumns
		haveHeader bool
	)

	for _, l := range lines {
		switch state {
		case stateScanning:
			if strings.Contains(l, sharesMarker) {
				state = stateInShareList
				haveHeader = false
			}
		case stateInShareList:
			switch {
			case strings.Contains(l, sharesMarker):
				haveHeader = false
			case strings.Contains(l, "Permissions"):
				cols, haveHeader = headerColumns(l)
			case strings.Contains(l, sectionMarker):
				state = stateScanning
			case l == "", strings.Contains(l, "------"), strings.Contains(l, "[+]"):
			case haveHeader:
				shares = append(shares, cols.split(l))
			}
		}
	}
	return shares
}

func runeIndex(r []rune, sub string) int {
	i := strings.Index(string(r), sub)
	if i < 0 {
		return -1
	}
	return len([]rune(string(r)[:i]))
}

func runeSlice(r []rune, from, to int) string {
	if from < 0 {
		from = 0
	}
	if to > len(r) {
		to = len(r)
	}
	if from >= to {
		return ""
	}
	return string(r[from:to])
}
