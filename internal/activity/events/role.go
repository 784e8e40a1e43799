package events

import (
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/lzjever/mbos-activity/internal/activity"
	"github.com/lzjever/mbos-activity/internal/core"
)

type RoleUsersAssigned struct {
	activity.Header
	AssignedUsers string `json:"assigned_users"`
}

func (RoleUsersAssigned) EventKind() activity.EventKind { return "RoleUsersAssigned" }
func (RoleUsersAssigned) Revision() activity.Revision   { return 1 }
func (RoleUsersAssigned) SubjectKind() core.SubjectKind { return core.SubjectRole }

func (e RoleUsersAssigned) Render() string {
	return fmt.Sprintf("Role has been assigned to the following users: %s", e.AssignedUsers)
}

func (e RoleUsersAssigned) Validate() error {
	return validation.ValidateStruct(&e,
		validation.Field(&e.Header),
		validation.Field(&e.AssignedUsers, validation.Required),
	)
}

type RoleUsersUnassigned struct {
	activity.Header
	UnassignedUsers string `json:"unassigned_users"`
}

func (RoleUsersUnassigned) EventKind() activity.EventKind { return "RoleUsersUnassigned" }
func (RoleUsersUnassigned) Revision() activity.Revision   { return 1 }
func (RoleUsersUnassigned) SubjectKind() core.SubjectKind { return core.SubjectRole }

func (e RoleUsersUnassigned) Render() string {
	return fmt.Sprintf("Role has been unassigned from the following users: %s", e.UnassignedUsers)
}

func (e RoleUsersUnassigned) Validate() error {
	return validation.ValidateStruct(&e,
		validation.Field(&e.Header),
		validation.Field(&e.UnassignedUsers, validation.Required),
	)
}
