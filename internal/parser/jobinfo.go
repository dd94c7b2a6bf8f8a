package parser

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/L1nMay/scanresults/internal/ipaddr"
	"github.com/L1nMay/scanresults/internal/model"
)

type jobInfo struct {
	ScanType string `json:"scantype"`
	Target   string `json:"target"`
}

// ParseJobInfoFile reads <dir>/info.json. It returns a nil job without error
// for scan types other than nmap and masscan, and ErrInvalidNetworkSpec when
// the target is not a network.
func ParseJobInfoFile(dir string) (*model.ScanJob, error) {
	path := filepath.Join(dir, InfoFile)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	st, err := os.Stat(path)
	if err != nil {
		return nil, err
	}

	var info jobInfo
	if err := json.Unmarshal(data, &info); err != nil {
		return nil, fmt.Errorf("%s: %w: %v", path, model.ErrMalformedInput, err)
	}

	scanType := model.ScanType(info.ScanType)
	if scanType.Payload() != model.PayloadHostTree {
		return nil, nil
	}
	if _, err := ipaddr.ParseNetwork(info.Target); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return &model.ScanJob{
		ID:        filepath.Base(dir),
		ScanType:  scanType,
		Target:    info.Target,
		Timestamp: st.ModTime().UTC(),
	}, nil
}
