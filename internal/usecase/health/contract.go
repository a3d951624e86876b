package health

import "context"

// DBPinger checks database availability.
type DBPinger interface {
	Ping(ctx context.Context) error
}

// RankingChecker verifies the scoring pipeline on a fixed sample.
type RankingChecker interface {
	HealthCheck(ctx context.Context) error
}
