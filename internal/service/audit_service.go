package service

import (
	"context"
	"log"

	"github.com/denisceno/clone-magazina/internal/model"
	"github.com/denisceno/clone-magazina/internal/repository"
)

type AuditLogResponse struct {
	ID         string `json:"id"`
	ActorID    string `json:"actor_id"`
	Action     string `json:"action"`
	EntityType string `json:"entity_type"`
	EntityID   string `json:"entity_id"`
	Detail     string `json:"detail"`
	ClientIP   string `json:"client_ip"`
	CreatedAt  string `json:"created_at"`
}

// AuditTrail is the sink for action events. Engines collect events while
// their transaction runs and hand them to Emit after commit, so audit order
// matches commit order per resource and a sink failure can never undo a
// committed business change.
type AuditTrail interface {
	Emit(ctx context.Context, entries []model.AuditLog)
	GetAuditLogs(ctx context.Context, filter repository.AuditFilter, page, limit int) ([]AuditLogResponse, int64, error)
}

type auditTrail struct {
	auditRepo repository.AuditRepository
}

// NewAuditTrail creates a new AuditTrail instance
func NewAuditTrail(auditRepo repository.AuditRepository) AuditTrail {
	return &auditTrail{auditRepo: auditRepo}
}

// Emit writes the events best-effort. Failures are logged and swallowed.
func (t *auditTrail) Emit(ctx context.Context, entries []model.AuditLog) {
	for i := range entries {
		if err := t.auditRepo.Log(ctx, &entries[i]); err != nil {
			log.Printf("WARNING: audit write failed (action=%s entity=%s/%s): %v",
				entries[i].Action, entries[i].EntityType, entries[i].EntityID, err)
		}
	}
}

// GetAuditLogs retrieves strictly paginated audit records, newest first
func (t *auditTrail) GetAuditLogs(ctx context.Context, filter repository.AuditFilter, page, limit int) ([]AuditLogResponse, int64, error) {
	logs, total, err := t.auditRepo.List(ctx, filter, page, limit)
	if err != nil {
		return nil, 0, err
	}

	res := make([]AuditLogResponse, 0, len(logs))
	for _, l := range logs {
		actorID := ""
		if l.ActorID != nil {
			actorID = l.ActorID.String()
		}

		res = append(res, AuditLogResponse{
			ID:         l.ID.String(),
			ActorID:    actorID,
			Action:     l.Action,
			EntityType: l.EntityType,
			EntityID:   l.EntityID,
			Detail:     l.Detail,
			ClientIP:   l.ClientIP,
			CreatedAt:  l.CreatedAt.Format("2006-01-02 15:04:05"),
		})
	}

	return res, total, nil
}
