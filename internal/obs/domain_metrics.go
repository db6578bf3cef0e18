package obs

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	domainOnce sync.Once

	// InvoicesIssuedTotal counts invoice creations by type.
	InvoicesIssuedTotal *prometheus.CounterVec
	// InvoicesCancelledTotal counts invoice cancellations.
	InvoicesCancelledTotal prometheus.Counter
	// PaymentsRecordedTotal counts recorded payments by method and kind.
	PaymentsRecordedTotal *prometheus.CounterVec
	// PDFRendersTotal counts invoice PDF renders by outcome.
	PDFRendersTotal *prometheus.CounterVec
	// DashboardCacheTotal tracks dashboard stats cache hits and misses.
	DashboardCacheTotal *prometheus.CounterVec
)

// MustRegisterDomainMetrics initialises and registers domain-specific
// Prometheus collectors. Safe to call more than once.
func MustRegisterDomainMetrics(namespace string, reg prometheus.Registerer) {
	domainOnce.Do(func() {
		if reg == nil {
			reg = prometheus.DefaultRegisterer
		}
		InvoicesIssuedTotal = registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "invoices_issued_total",
			Help:      "Count of created invoices by invoice type.",
		}, []string{"type"}))
		InvoicesCancelledTotal = registerCounter(reg, prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "invoices_cancelled_total",
			Help:      "Count of cancelled invoices.",
		}))
		PaymentsRecordedTotal = registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "payments_recorded_total",
			Help:      "Count of recorded payments by method and kind.",
		}, []string{"method", "kind"}))
		PDFRendersTotal = registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "invoice_pdf_renders_total",
			Help:      "Count of invoice PDF render attempts by result.",
		}, []string{"result"}))
		DashboardCacheTotal = registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "dashboard_cache_total",
			Help:      "Dashboard stats cache lookups by result.",
		}, []string{"result"}))
	})
}

func registerCounter(reg prometheus.Registerer, c prometheus.Counter) prometheus.Counter {
	if err := reg.Register(c); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Counter); ok {
				return existing
			}
		}
		panic(err)
	}
	return c
}
