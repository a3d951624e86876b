package health

import (
	"context"
	"errors"
	"testing"
)

// --- Mocks ---

type mockDBPinger struct {
	err error
}

func (m *mockDBPinger) Ping(_ context.Context) error { return m.err }

type mockRankingChecker struct {
	err error
}

func (m *mockRankingChecker) HealthCheck(_ context.Context) error { return m.err }

// --- Tests ---

func TestCheck(t *testing.T) {
	down := errors.New("down")
	tests := []struct {
		name        string
		dbErr       error
		ranking     RankingChecker
		wantStatus  Status
		wantDB      CheckResult
		wantRanking CheckResult // "" = check absent
	}{
		{"all healthy", nil, &mockRankingChecker{}, Healthy, CheckOK, CheckOK},
		{"db down", down, &mockRankingChecker{}, Unhealthy, CheckError, CheckOK},
		{"ranking broken", nil, &mockRankingChecker{err: down}, Degraded, CheckOK, CheckError},
		{"both fail", down, &mockRankingChecker{err: down}, Unhealthy, CheckError, CheckError},
		{"no ranking checker", nil, nil, Healthy, CheckOK, ""},
		{"no ranking checker, db down", down, nil, Unhealthy, CheckError, ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r := New(&mockDBPinger{err: tc.dbErr}, tc.ranking).Check(context.Background())

			if r.Status != tc.wantStatus {
				t.Errorf("status = %q, want %q", r.Status, tc.wantStatus)
			}
			if r.Checks["database"] != tc.wantDB {
				t.Errorf("database = %q, want %q", r.Checks["database"], tc.wantDB)
			}
			got, ok := r.Checks["ranking"]
			if tc.wantRanking == "" {
				if ok {
					t.Error("ranking check should be absent")
				}
				return
			}
			if got != tc.wantRanking {
				t.Errorf("ranking = %q, want %q", got, tc.wantRanking)
			}
		})
	}
}
