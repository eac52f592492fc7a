package intake

import (
	"encoding/json"

	"github.com/alexanderramin/critpath/internal/domain"
)

// Audit log keys written by this package.
const (
	KeyAppliedUpdates      = "applied_updates"
	KeyRejectedUpdates     = "rejected_updates"
	KeyAppliedIntelligence = "applied_intelligence"
	KeyStatusSyncs         = "status_syncs"
)

// Rejection explains why one input item was not applied.
type Rejection struct {
	Ref    string `json:"ref"`
	Kind   string `json:"kind"`
	Reason string `json:"reason"`
}

func rejection(ref string, err error) Rejection {
	return Rejection{Ref: ref, Kind: domain.ErrorKind(err), Reason: err.Error()}
}

// appendAudit appends entry to the list stored under key. The entry is
// normalized through JSON so the log holds the same shapes it would after a
// save and reload.
func appendAudit(log domain.AuditLog, key string, entry any) domain.AuditLog {
	if log == nil {
		log = domain.AuditLog{}
	}
	var normalized any
	raw, err := json.Marshal(entry)
	if err == nil {
		err = json.Unmarshal(raw, &normalized)
	}
	if err != nil {
		normalized = entry
	}

	var list []any
	switch existing := log[key].(type) {
	case nil:
	case []any:
		list = existing
	default:
		list = []any{existing}
	}
	log[key] = append(list, normalized)
	return log
}
