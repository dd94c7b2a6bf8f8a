package results

import (
	"sort"

	"github.com/L1nMay/scanresults/internal/ipaddr"
	"github.com/L1nMay/scanresults/internal/model"
)

// LatestPerScanType keeps the newest finding of each scan type. On equal
// timestamps the first one wins. Output follows the first appearance of each
// scan type.
func LatestPerScanType(findings []model.Finding) []model.Finding {
	var out []model.Finding
	index := map[model.ScanType]int{}
	for _, f := range findings {
		i, ok := index[f.ScanType]
		if !ok {
			index[f.ScanType] = len(out)
			out = append(out, f)
			continue
		}
		if f.Timestamp.After(out[i].Timestamp) {
			out[i] = f
		}
	}
	return out
}

// SortedAddresses returns a sorted copy of addrs, numerically rather than as strings.
func SortedAddresses(addrs []string) []string {
	out := make([]string, len(addrs))
	copy(out, addrs)
	sort.SliceStable(out, func(i, j int) bool {
		return ipaddr.Compare(out[i], out[j]) < 0
	})
	return out
}
