package events

import (
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/lzjever/mbos-activity/internal/activity"
	"github.com/lzjever/mbos-activity/internal/core"
)

type ProgramCreated struct {
	activity.Header
}

func (ProgramCreated) EventKind() activity.EventKind { return "ProgramCreated" }
func (ProgramCreated) Revision() activity.Revision   { return 1 }
func (ProgramCreated) SubjectKind() core.SubjectKind { return core.SubjectProgram }
func (ProgramCreated) Render() string                { return "Program created" }

type ProgramUpdated struct {
	activity.Header
	Change
}

func (ProgramUpdated) EventKind() activity.EventKind { return "ProgramUpdated" }
func (ProgramUpdated) Revision() activity.Revision   { return 1 }
func (ProgramUpdated) SubjectKind() core.SubjectKind { return core.SubjectProgram }
func (ProgramUpdated) Render() string                { return "Program details updated" }

func (e ProgramUpdated) Validate() error { return validateChange(&e, &e.Header, &e.Change) }

type ProgramDeactivated struct {
	activity.Header
}

func (ProgramDeactivated) EventKind() activity.EventKind { return "ProgramDeactivated" }
func (ProgramDeactivated) Revision() activity.Revision   { return 1 }
func (ProgramDeactivated) SubjectKind() core.SubjectKind { return core.SubjectProgram }
func (ProgramDeactivated) Render() string                { return "Program deactivated" }

type ProgramReactivated struct {
	activity.Header
}

func (ProgramReactivated) EventKind() activity.EventKind { return "ProgramReactivated" }
func (ProgramReactivated) Revision() activity.Revision   { return 1 }
func (ProgramReactivated) SubjectKind() core.SubjectKind { return core.SubjectProgram }
func (ProgramReactivated) Render() string                { return "Program reactivated" }

// ProgramOrgUnitAssigned records a program granted to departments, service
// areas, job titles or teams of a tenant. OrgUnits is the joined display name
// list.
type ProgramOrgUnitAssigned struct {
	activity.Header
	OrgUnits string `json:"org_units"`
}

func (ProgramOrgUnitAssigned) EventKind() activity.EventKind { return "ProgramOrgUnitAssigned" }
func (ProgramOrgUnitAssigned) Revision() activity.Revision   { return 1 }
func (ProgramOrgUnitAssigned) SubjectKind() core.SubjectKind { return core.SubjectProgram }

func (e ProgramOrgUnitAssigned) Render() string {
	return fmt.Sprintf("Program assigned to the following organization units: %s", e.OrgUnits)
}

func (e ProgramOrgUnitAssigned) Validate() error {
	return validation.ValidateStruct(&e,
		validation.Field(&e.Header),
		validation.Field(&e.OrgUnits, validation.Required),
	)
}

type ProgramOrgUnitUnassigned struct {
	activity.Header
	OrgUnits string `json:"org_units"`
}

func (ProgramOrgUnitUnassigned) EventKind() activity.EventKind { return "ProgramOrgUnitUnassigned" }
func (ProgramOrgUnitUnassigned) Revision() activity.Revision   { return 1 }
func (ProgramOrgUnitUnassigned) SubjectKind() core.SubjectKind { return core.SubjectProgram }

func (e ProgramOrgUnitUnassigned) Render() string {
	return fmt.Sprintf("Program unassigned from the following organization units: %s", e.OrgUnits)
}

func (e ProgramOrgUnitUnassigned) Validate() error {
	return validation.ValidateStruct(&e,
		validation.Field(&e.Header),
		validation.Field(&e.OrgUnits, validation.Required),
	)
}
