package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// FilesIngested counts result files parsed successfully, by format.
	FilesIngested = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "scanresults_files_ingested_total",
		Help: "Result files parsed successfully",
	}, []string{"format"})

	// FilesSkipped counts result files or entries skipped during ingestion, by reason.
	FilesSkipped = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "scanresults_files_skipped_total",
		Help: "Result files or entries skipped during ingestion",
	}, []string{"reason"})

	FindingsIngested = promauto.NewCounter(prometheus.CounterOpts{
		Name: "scanresults_findings_ingested_total",
		Help: "Findings added to a result store",
	})

	Queries = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "scanresults_queries_total",
		Help: "Queries answered, by kind",
	}, []string{"kind"})
)

const (
	FormatHostTree   = "hosttree"
	FormatJobResults = "results_json"
	FormatJobInfo    = "info_json"

	ReasonMalformed       = "malformed"
	ReasonMissingArtifact = "missing_artifact"
	ReasonInvalidTarget   = "invalid_target"
	ReasonUnreadable      = "unreadable"
)

func IncIngested(format string) {
	FilesIngested.WithLabelValues(format).Inc()
}

func IncSkipped(reason string) {
	FilesSkipped.WithLabelValues(reason).Inc()
}

func AddFindings(n int) {
	FindingsIngested.Add(float64(n))
}

func IncQuery(kind string) {
	Queries.WithLabelValues(kind).Inc()
}
