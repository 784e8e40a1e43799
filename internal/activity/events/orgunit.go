package events

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/lzjever/mbos-activity/internal/activity"
	"github.com/lzjever/mbos-activity/internal/core"
)

// Organisational units only record detail updates. Each kind gets its own
// type because the (kind, revision) pair is the dispatch key.

type DepartmentUpdated struct {
	activity.Header
	Change
}

func (DepartmentUpdated) EventKind() activity.EventKind { return "DepartmentUpdated" }
func (DepartmentUpdated) Revision() activity.Revision   { return 1 }
func (DepartmentUpdated) SubjectKind() core.SubjectKind { return core.SubjectDepartment }
func (DepartmentUpdated) Render() string                { return "Department details updated" }

func (e DepartmentUpdated) Validate() error { return validateChange(&e, &e.Header, &e.Change) }

type DivisionUpdated struct {
	activity.Header
	Change
}

func (DivisionUpdated) EventKind() activity.EventKind { return "DivisionUpdated" }
func (DivisionUpdated) Revision() activity.Revision   { return 1 }
func (DivisionUpdated) SubjectKind() core.SubjectKind { return core.SubjectDivision }
func (DivisionUpdated) Render() string                { return "Division details updated" }

func (e DivisionUpdated) Validate() error { return validateChange(&e, &e.Header, &e.Change) }

type ServiceAreaUpdated struct {
	activity.Header
	Change
}

func (ServiceAreaUpdated) EventKind() activity.EventKind { return "ServiceAreaUpdated" }
func (ServiceAreaUpdated) Revision() activity.Revision   { return 1 }
func (ServiceAreaUpdated) SubjectKind() core.SubjectKind { return core.SubjectServiceArea }
func (ServiceAreaUpdated) Render() string                { return "Service area details updated" }

func (e ServiceAreaUpdated) Validate() error { return validateChange(&e, &e.Header, &e.Change) }

type JobTitleUpdated struct {
	activity.Header
	Change
}

func (JobTitleUpdated) EventKind() activity.EventKind { return "JobTitleUpdated" }
func (JobTitleUpdated) Revision() activity.Revision   { return 1 }
func (JobTitleUpdated) SubjectKind() core.SubjectKind { return core.SubjectJobTitle }
func (JobTitleUpdated) Render() string                { return "Job title details updated" }

func (e JobTitleUpdated) Validate() error { return validateChange(&e, &e.Header, &e.Change) }

type TeamUpdated struct {
	activity.Header
	Change
}

func (TeamUpdated) EventKind() activity.EventKind { return "TeamUpdated" }
func (TeamUpdated) Revision() activity.Revision   { return 1 }
func (TeamUpdated) SubjectKind() core.SubjectKind { return core.SubjectTeam }
func (TeamUpdated) Render() string                { return "Team details updated" }

func (e TeamUpdated) Validate() error { return validateChange(&e, &e.Header, &e.Change) }

func validateChange(structPtr any, h *activity.Header, c *Change) error {
	return validation.ValidateStruct(structPtr,
		validation.Field(h),
		validation.Field(c),
	)
}
