package domain

type UnitOutcome string

const (
	UnitCached     UnitOutcome = "cached"
	UnitDownloaded UnitOutcome = "downloaded"
	UnitFailed     UnitOutcome = "failed"
)

// UnitResult reports one completed (index, account) download unit.
type UnitResult struct {
	Key     ArtifactKey
	Outcome UnitOutcome
	Records int
	Err     error
}
