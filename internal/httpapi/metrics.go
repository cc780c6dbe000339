package httpapi

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Role and tenant denials share one user-facing message; the counter keeps the
// internal reason observable.
var guardDenials = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "campus_guard_denials_total",
	Help: "Requests rejected by the endpoint guard, by internal reason.",
}, []string{"reason"})

var loginFailures = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "campus_login_failures_total",
	Help: "Failed credential verifications, by internal tag.",
}, []string{"tag"})
