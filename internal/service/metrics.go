package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	uploadsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tagbox_uploads_total",
		Help: "Uploads by result",
	}, []string{"result"})

	uploadTagFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tagbox_upload_tag_failures_total",
		Help: "Tags skipped during an upload because creating or linking them failed",
	})

	searchesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tagbox_searches_total",
		Help: "Fuzzy name searches by entity",
	}, []string{"entity"})

	searchCandidates = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "tagbox_search_candidates",
		Help:    "Rows returned by the substring prefilter before ranking",
		Buckets: prometheus.ExponentialBuckets(1, 4, 6),
	}, []string{"entity"})
)
