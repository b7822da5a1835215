package analyzer

import (
	"github.com/yairfalse/sampo/pkg/types"
)

// CorrelationPolicy decides whether a security run and a compliance run
// belong to the same review window. Isolated behind an interface so the
// bucketing can change without touching aggregation.
type CorrelationPolicy interface {
	Correlated(security, compliance types.RunMetadata) bool
}

// SameDayPolicy correlates runs that executed on the same UTC calendar
// day. Calendar bucketing is used instead of run adjacency because runs
// are not execution-ordered across workflow types.
type SameDayPolicy struct{}

// Correlated implements CorrelationPolicy
func (SameDayPolicy) Correlated(security, compliance types.RunMetadata) bool {
	sy, sm, sd := security.Timestamp.UTC().Date()
	cy, cm, cd := compliance.Timestamp.UTC().Date()
	return sy == cy && sm == cm && sd == cd
}
