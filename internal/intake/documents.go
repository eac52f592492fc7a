package intake

import (
	"fmt"
	"time"

	"github.com/alexanderramin/critpath/internal/domain"
)

const (
	UpdateStatusChange   = "status_change"
	UpdateDurationChange = "duration_change"

	// DefaultMinConfidence is the lowest confidence at which a proposed
	// document update is applied.
	DefaultMinConfidence = 0.70
)

// ProposedUpdate is a milestone change extracted from a document.
type ProposedUpdate struct {
	MilestoneID string  `json:"milestone_id"`
	UpdateType  string  `json:"update_type"`
	NewValue    any     `json:"new_value"`
	Confidence  float64 `json:"confidence"`
	Source      string  `json:"source,omitempty"`
}

// RejectedUpdate pairs a proposal with the reason it was not applied.
type RejectedUpdate struct {
	Update ProposedUpdate `json:"update"`
	Kind   string         `json:"kind"`
	Reason string         `json:"reason"`
}

// DocumentResult reports a batch of document updates in input order.
type DocumentResult struct {
	Applied  []ProposedUpdate `json:"applied"`
	Rejected []RejectedUpdate `json:"rejected"`
}

type lowConfidenceError struct {
	confidence, min float64
}

func (e *lowConfidenceError) Error() string {
	return fmt.Sprintf("confidence %.2f below threshold %.2f", e.confidence, e.min)
}

// ApplyDocumentUpdates applies each proposal whose confidence is at least
// minConfidence and whose milestone exists. Every decision is appended to
// the site's document scan history.
func ApplyDocumentUpdates(data *domain.CriticalPathData, updates []ProposedUpdate, minConfidence float64, now time.Time) (*domain.CriticalPathData, DocumentResult) {
	out := data.Clone()
	var res DocumentResult
	stamp := now.UTC().Truncate(time.Second)

	for _, u := range updates {
		err := applyDocumentUpdate(out, u, minConfidence, stamp)
		entry := map[string]any{
			"milestone_id": u.MilestoneID,
			"update_type":  u.UpdateType,
			"new_value":    u.NewValue,
			"confidence":   u.Confidence,
			"source":       u.Source,
			"timestamp":    stamp.Format(time.RFC3339),
			"applied":      err == nil,
		}
		if err != nil {
			kind := domain.ErrorKind(err)
			if _, low := err.(*lowConfidenceError); low {
				kind = "confidence"
			}
			res.Rejected = append(res.Rejected, RejectedUpdate{Update: u, Kind: kind, Reason: err.Error()})
			entry["reason"] = err.Error()
			out.DocumentScanHistory = appendAudit(out.DocumentScanHistory, KeyRejectedUpdates, entry)
			continue
		}
		res.Applied = append(res.Applied, u)
		out.DocumentScanHistory = appendAudit(out.DocumentScanHistory, KeyAppliedUpdates, entry)
	}
	return out, res
}

func applyDocumentUpdate(data *domain.CriticalPathData, u ProposedUpdate, minConfidence float64, stamp time.Time) error {
	if u.Confidence < minConfidence {
		return &lowConfidenceError{confidence: u.Confidence, min: minConfidence}
	}
	inst, ok := data.Milestones[u.MilestoneID]
	if !ok || inst == nil {
		return &domain.LookupError{Kind: "milestone", ID: u.MilestoneID}
	}

	switch u.UpdateType {
	case UpdateStatusChange:
		raw, ok := u.NewValue.(string)
		if !ok {
			return &domain.ValidationError{Field: "new_value", Value: u.NewValue, Message: "status must be a string"}
		}
		s, err := LookupStatus(SourceDocument, raw)
		if err != nil {
			return err
		}
		inst.Status = s
	case UpdateDurationChange:
		weeks, err := domain.NonNegativeInt("new_value", u.NewValue)
		if err != nil {
			return err
		}
		inst.DurationOverride = domain.IntPtr(weeks)
	default:
		return &domain.ValidationError{Field: "update_type", Value: u.UpdateType, Message: "unknown update type"}
	}
	inst.UpdatedAt = domain.TimePtr(stamp)
	return nil
}
