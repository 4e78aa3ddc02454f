package domain

import "time"

type TallyEntry struct {
	Option        string    `json:"option"`
	Count         int64     `json:"count"`
	LastUpdatedAt time.Time `json:"-"`
}

// Results is a point-in-time view of the tally table.
type Results struct {
	Entries    []TallyEntry `json:"results"`
	TotalVotes int64        `json:"total_votes"`
	Timestamp  int64        `json:"timestamp"`
}

func NewResults(entries []TallyEntry, at time.Time) Results {
	var total int64
	for _, e := range entries {
		total += e.Count
	}
	if entries == nil {
		entries = []TallyEntry{}
	}
	return Results{Entries: entries, TotalVotes: total, Timestamp: at.Unix()}
}

// AuditSnapshot is the tally and the encrypted vote log read at the same
// point in time.
type AuditSnapshot struct {
	Tally               []TallyEntry
	EncryptedSelections []string
}

// InvalidVoteLabel groups vote-log entries that could not be decrypted.
const InvalidVoteLabel = "Invalid Vote"

type Discrepancy struct {
	Option     string `json:"option"`
	TallyCount int64  `json:"tally_count"`
	LogCount   int64  `json:"log_count"`
}

// ReconcileReport compares the decrypted vote log with the tally table.
type ReconcileReport struct {
	Tally         map[string]int64 `json:"tally"`
	VoteLog       map[string]int64 `json:"vote_log"`
	TotalTally    int64            `json:"total_tally"`
	TotalVotes    int64            `json:"total_votes"`
	Undecryptable int64            `json:"undecryptable"`
	Discrepancies []Discrepancy    `json:"discrepancies"`
	GeneratedAt   time.Time        `json:"generated_at"`
}

func (r *ReconcileReport) Consistent() bool {
	return len(r.Discrepancies) == 0 && r.Undecryptable == 0 && r.TotalTally == r.TotalVotes
}
