package domain

import (
	"time"

	"github.com/google/uuid"
)

// AgentType names the pipeline stage that produced a result.
type AgentType string

const (
	AgentCompanyMatch     AgentType = "company_match"
	AgentCompanyReadiness AgentType = "company_readiness"
	AgentPatternDiscovery AgentType = "pattern_discovery"
	AgentPersonMatch      AgentType = "person_match"
	AgentEmployment       AgentType = "employment"
	AgentMovement         AgentType = "movement"
	AgentEmailGeneration  AgentType = "email_generation"
)

// AgentResult is the uniform envelope every agent stage returns. It exists
// for logging and auditing; control flow between stages uses the mutated
// SlotRow and explicit booleans, never this envelope.
type AgentResult struct {
	TaskID      string
	Agent       AgentType
	RowID       RowID
	Success     bool
	Detail      string
	Err         error
	CompletedAt time.Time
}

// NewAgentResult stamps a fresh envelope for a completed stage.
func NewAgentResult(agent AgentType, rowID RowID, success bool, detail string, err error) AgentResult {
	return AgentResult{
		TaskID:      uuid.NewString(),
		Agent:       agent,
		RowID:       rowID,
		Success:     success,
		Detail:      detail,
		Err:         err,
		CompletedAt: time.Now().UTC(),
	}
}
