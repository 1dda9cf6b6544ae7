package dto

import (
	"time"

	"github.com/medilink/telehealth-api/internal/domain/entity"
)

// Request DTOs

type ListAuditLogsRequest struct {
	Action string `json:"action" validate:"omitempty"`
	Limit  int    `json:"limit" validate:"omitempty,min=1,max=200"`
	Offset int    `json:"offset" validate:"omitempty,min=0"`
}

// Response DTOs

type AuditLogResponse struct {
	ID        int64         `json:"id"`
	User      *UserResponse `json:"user,omitempty"`
	Action    string        `json:"action"`
	Metadata  entity.JSON   `json:"metadata,omitempty"`
	CreatedAt time.Time     `json:"created_at"`
}

type AuditLogListResponse struct {
	Logs  []AuditLogResponse `json:"logs"`
	Total int64              `json:"total"`
}
