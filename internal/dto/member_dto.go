package dto

import "github.com/google/uuid"

type AddMemberRequest struct {
	UserID uuid.UUID `json:"user_id"`
	Role   string    `json:"role,omitempty"`
}

type UpdateMemberRoleRequest struct {
	Role string `json:"role"`
}

type BlockMemberRequest struct {
	Blocked bool   `json:"blocked"`
	Reason  string `json:"reason,omitempty"`
}
