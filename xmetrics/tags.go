package xmetrics

type IMetricsTag interface {
	Tag() []string
}

type metricsTag struct {
	tags []string
}

// dashboard metrics
type dashboardMetrics struct {
	metricsTag
}

func DashboardMetrics() *dashboardMetrics {
	return &dashboardMetrics{
		metricsTag: metricsTag{[]string{"dashboard"}},
	}
}

func (d *dashboardMetrics) Tag() []string {
	return d.tags
}

func (d *dashboardMetrics) AttachNum() IMetricsTag {
	d.tags = append(d.tags, "attachNum")
	return d
}

func (d *dashboardMetrics) DetachNum() IMetricsTag {
	d.tags = append(d.tags, "detachNum")
	return d
}

func (d *dashboardMetrics) NotifyNum() IMetricsTag {
	d.tags = append(d.tags, "notifyNum")
	return d
}

func (d *dashboardMetrics) DeliveredNum() IMetricsTag {
	d.tags = append(d.tags, "deliveredNum")
	return d
}

func (d *dashboardMetrics) UpdatePanicNum() IMetricsTag {
	d.tags = append(d.tags, "updatePanicNum")
	return d
}

// subject metrics
type subjectMetrics struct {
	metricsTag
	name string
}

func SubjectMetrics(subjectName string) *subjectMetrics {
	return &subjectMetrics{
		metricsTag: metricsTag{[]string{"subject"}},
		name:       subjectName,
	}
}

func (s *subjectMetrics) Tag() []string {
	s.tags = append(s.tags, s.name)
	return s.tags
}

func (s *subjectMetrics) ObserverNum() IMetricsTag {
	s.tags = append(s.tags, "observerNum")
	return s
}
