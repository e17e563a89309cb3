package quota

import (
	"os"
	"strconv"
	"time"
)

const (
	freePlan      = "Free"
	freePlanLimit = 3
)

// planLimit returns the monthly allowance for new quotas, overridable via
// RFQ_MONTHLY_LIMIT.
func planLimit() int {
	raw := os.Getenv("RFQ_MONTHLY_LIMIT")
	if raw == "" {
		return freePlanLimit
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit <= 0 {
		return freePlanLimit
	}
	return limit
}

func defaultQuota(now time.Time) Quota {
	return Quota{
		Plan:     freePlan,
		Limit:    planLimit(),
		Used:     0,
		ResetsAt: nextPeriodStart(now),
	}
}

// nextPeriodStart returns midnight UTC on the first day of the following
// calendar month.
func nextPeriodStart(now time.Time) time.Time {
	now = now.UTC()
	return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, 1, 0)
}
