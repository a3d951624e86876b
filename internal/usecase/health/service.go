package health

import "context"

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates partial failure.
	Degraded Status = "degraded"
	// Unhealthy indicates total failure.
	Unhealthy Status = "error"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
)

// Report aggregates health check results.
type Report struct {
	Status Status
	Checks map[string]CheckResult
}

// Service coordinates health checks.
type Service struct {
	db      DBPinger
	ranking RankingChecker
}

// New creates a Service. ranking can be nil.
func New(db DBPinger, ranking RankingChecker) *Service {
	return &Service{db: db, ranking: ranking}
}

// Check runs health checks against all components.
func (s *Service) Check(ctx context.Context) Report {
	checks := make(map[string]CheckResult)

	dbOK := s.db.Ping(ctx) == nil
	checks["database"] = result(dbOK)

	if s.ranking != nil {
		checks["ranking"] = result(s.ranking.HealthCheck(ctx) == nil)
	}

	status := Healthy
	switch {
	case !dbOK:
		// nothing can be searched without storage
		status = Unhealthy
	case checks["ranking"] == CheckError:
		status = Degraded
	}

	return Report{Status: status, Checks: checks}
}

func result(ok bool) CheckResult {
	if ok {
		return CheckOK
	}
	return CheckError
}
