package main

import (
	"fmt"
	"io"

	"github.com/L1nMay/scanresults/internal/filter"
	"github.com/L1nMay/scanresults/internal/model"
	"github.com/L1nMay/scanresults/internal/results"
)

type reportOptions struct {
	allVulns       bool
	readableShares bool
}

type section struct {
	title string
	hosts func(model.HostMap) model.HostMap
}

func sections(opts reportOptions) []section {
	out := []section{
		{"Hosts vulnerable to Bluekeep:", filter.ByBluekeep},
		{"Hosts vulnerable to MS17-010:", filter.ByMS17010},
	}
	if opts.allVulns {
		out = append(out,
			section{"Hosts vulnerable to MS12-020:", filter.ByMS12020},
			section{"Hosts vulnerable to CVE-2021-1675:", filter.ByCVE20211675},
		)
	}
	if opts.readableShares {
		out = append(out, section{"Hosts with readable SMB shares:", func(h model.HostMap) model.HostMap {
			return filter.ByShares(h, true, false, results.SMBSummaryFor)
		}})
	}
	return out
}

func writeReport(w io.Writer, hosts model.HostMap, opts reportOptions) error {
	for i, s := range sections(opts) {
		if i > 0 {
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintln(w, s.title); err != nil {
			return err
		}
		for _, ip := range results.SortedAddresses(s.hosts(hosts).Addresses()) {
			if _, err := fmt.Fprintf(w, "  %s\n", ip); err != nil {
				return err
			}
		}
	}
	return nil
}
