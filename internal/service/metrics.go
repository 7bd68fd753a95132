package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Submit outcomes used as metric labels.
const (
	outcomeSucceeded    = "succeeded"
	outcomeUploadFailed = "upload_failed"
	outcomeCreateFailed = "create_failed"
	outcomeRejected     = "rejected"
)

var (
	submissionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "brand_form_submissions_total",
			Help: "Brand form submits by outcome.",
		},
		[]string{"outcome"},
	)

	submitDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "brand_form_submit_duration_seconds",
			Help:    "Time spent in the brand form submit workflow.",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"outcome"},
	)

	imagesUploadedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "brand_form_images_uploaded_total",
			Help: "Images uploaded through the brand form.",
		},
	)

	formsOpenedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "brand_form_sessions_opened_total",
			Help: "Brand form sessions opened.",
		},
	)
)
