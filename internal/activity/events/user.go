package events

import (
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	"github.com/lzjever/mbos-activity/internal/activity"
	"github.com/lzjever/mbos-activity/internal/core"
)

type UserCreated struct {
	activity.Header
	CreatedUserEmail string `json:"created_user_email"`
}

func (UserCreated) EventKind() activity.EventKind { return "UserCreated" }
func (UserCreated) Revision() activity.Revision   { return 1 }
func (UserCreated) SubjectKind() core.SubjectKind { return core.SubjectUser }
func (e UserCreated) Render() string              { return "User created" }

func (e UserCreated) Validate() error {
	return validation.ValidateStruct(&e,
		validation.Field(&e.Header),
		validation.Field(&e.CreatedUserEmail, validation.Required, is.EmailFormat),
	)
}

type UserUpdated struct {
	activity.Header
	Change
}

func (UserUpdated) EventKind() activity.EventKind { return "UserUpdated" }
func (UserUpdated) Revision() activity.Revision   { return 1 }
func (UserUpdated) SubjectKind() core.SubjectKind { return core.SubjectUser }
func (e UserUpdated) Render() string              { return "User details updated" }

func (e UserUpdated) Validate() error { return validateChange(&e, &e.Header, &e.Change) }

type UserDeactivated struct {
	activity.Header
}

func (UserDeactivated) EventKind() activity.EventKind { return "UserDeactivated" }
func (UserDeactivated) Revision() activity.Revision   { return 1 }
func (UserDeactivated) SubjectKind() core.SubjectKind { return core.SubjectUser }
func (e UserDeactivated) Render() string              { return "User deactivated" }

type UserReactivated struct {
	activity.Header
}

func (UserReactivated) EventKind() activity.EventKind { return "UserReactivated" }
func (UserReactivated) Revision() activity.Revision   { return 1 }
func (UserReactivated) SubjectKind() core.SubjectKind { return core.SubjectUser }
func (e UserReactivated) Render() string              { return "User reactivated" }

// UserRolesAssigned is the first revision, which stored the role names
// already joined for display.
type UserRolesAssigned struct {
	activity.Header
	AssignedRoles string `json:"assigned_roles"`
}

func (UserRolesAssigned) EventKind() activity.EventKind { return "UserRolesAssigned" }
func (UserRolesAssigned) Revision() activity.Revision   { return 1 }
func (UserRolesAssigned) SubjectKind() core.SubjectKind { return core.SubjectUser }

func (e UserRolesAssigned) Render() string {
	return fmt.Sprintf("User has been assigned to the following roles: %s", e.AssignedRoles)
}

func (e UserRolesAssigned) Validate() error {
	return validation.ValidateStruct(&e,
		validation.Field(&e.Header),
		validation.Field(&e.AssignedRoles, validation.Required),
	)
}

// UserRolesAssignedV2 keeps the assigned roles as a list.
type UserRolesAssignedV2 struct {
	activity.Header
	AssignedRoles []string `json:"assigned_roles"`
}

func (UserRolesAssignedV2) EventKind() activity.EventKind { return "UserRolesAssigned" }
func (UserRolesAssignedV2) Revision() activity.Revision   { return 2 }
func (UserRolesAssignedV2) SubjectKind() core.SubjectKind { return core.SubjectUser }

func (e UserRolesAssignedV2) Render() string {
	return fmt.Sprintf("User has been assigned to the following roles: %s", joinNames(e.AssignedRoles))
}

func (e UserRolesAssignedV2) Validate() error {
	return validation.ValidateStruct(&e,
		validation.Field(&e.Header),
		validation.Field(&e.AssignedRoles, validation.Required, validation.Each(validation.Required)),
	)
}

type UserRolesUnassigned struct {
	activity.Header
	UnassignedRoles string `json:"unassigned_roles"`
}

func (UserRolesUnassigned) EventKind() activity.EventKind { return "UserRolesUnassigned" }
func (UserRolesUnassigned) Revision() activity.Revision   { return 1 }
func (UserRolesUnassigned) SubjectKind() core.SubjectKind { return core.SubjectUser }

func (e UserRolesUnassigned) Render() string {
	return fmt.Sprintf("User has been unassigned from the following roles: %s", e.UnassignedRoles)
}

func (e UserRolesUnassigned) Validate() error {
	return validation.ValidateStruct(&e,
		validation.Field(&e.Header),
		validation.Field(&e.UnassignedRoles, validation.Required),
	)
}

type CredentialsSent struct {
	activity.Header
	Email string `json:"email"`
}

func (CredentialsSent) EventKind() activity.EventKind { return "CredentialsSent" }
func (CredentialsSent) Revision() activity.Revision   { return 1 }
func (CredentialsSent) SubjectKind() core.SubjectKind { return core.SubjectUser }
func (e CredentialsSent) Render() string              { return fmt.Sprintf("Credentials sent to %s", e.Email) }

func (e CredentialsSent) Validate() error {
	return validation.ValidateStruct(&e,
		validation.Field(&e.Header),
		validation.Field(&e.Email, validation.Required, is.EmailFormat),
	)
}
