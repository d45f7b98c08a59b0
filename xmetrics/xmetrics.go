package xmetrics

import (
	"github.com/hashicorp/go-metrics"
	"github.com/hashicorp/go-metrics/prometheus"

	"github.com/reacharm/observer/xerror"
)

func InitGlobal(serviceName string) error {
	sink, err := prometheus.NewPrometheusSink()
	if err != nil {
		return xerror.Wrap(err, xerror.Normal, "init prometheus sink falied")
	}

	if _, err := metrics.NewGlobal(metrics.DefaultConfig(serviceName), sink); err != nil {
		return xerror.Wrap(err, xerror.Normal, "new global metrics falied")
	}

	return nil
}

func AddAttach(subjectName string, observerNum int) {
	metrics.IncrCounter(DashboardMetrics().AttachNum().Tag(), 1)

	setObserverNum(subjectName, observerNum)
}

func AddDetach(subjectName string, detachedNum, observerNum int) {
	metrics.IncrCounter(DashboardMetrics().DetachNum().Tag(), float32(detachedNum))

	setObserverNum(subjectName, observerNum)
}

func ConsumeNotify(subjectName string, deliveredNum int) {
	metrics.IncrCounter(DashboardMetrics().NotifyNum().Tag(), 1)
	metrics.IncrCounter(DashboardMetrics().DeliveredNum().Tag(), float32(deliveredNum))
}

func AddUpdatePanic() {
	metrics.IncrCounter(DashboardMetrics().UpdatePanicNum().Tag(), 1)
}

// anonymous subjects have no stable identity to key a gauge on
func setObserverNum(subjectName string, observerNum int) {
	if subjectName == "" {
		return
	}
	metrics.SetGauge(SubjectMetrics(subjectName).ObserverNum().Tag(), float32(observerNum))
}
