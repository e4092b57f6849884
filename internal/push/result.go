package push

// Changeset is one atomic unit of change read from source history. It is
// immutable once read; the diff payloads are extracted per subproject at
// split time.
type Changeset struct {
	Rev     string
	Files   []string
	Message string
}

// Outcome classifies what happened to one changeset.
type Outcome string

const (
	// OutcomeCommitted means the changeset landed as one svn commit.
	OutcomeCommitted Outcome = "committed"
	// OutcomeDryRunSkipped means the changeset was applied but not
	// committed because dry-run mode is active.
	OutcomeDryRunSkipped Outcome = "dry-run-skipped"
	// OutcomeFailed means the changeset halted the run.
	OutcomeFailed Outcome = "failed"
)

// Result is the per-changeset outcome emitted by the orchestrator.
type Result struct {
	Rev      string
	Outcome  Outcome
	Revision int64
	Err      error
}
