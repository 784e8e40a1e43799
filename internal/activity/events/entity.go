package events

import (
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/lzjever/mbos-activity/internal/activity"
	"github.com/lzjever/mbos-activity/internal/core"
)

type EntityUpdated struct {
	activity.Header
	Change
}

func (EntityUpdated) EventKind() activity.EventKind { return "EntityUpdated" }
func (EntityUpdated) Revision() activity.Revision   { return 1 }
func (EntityUpdated) SubjectKind() core.SubjectKind { return core.SubjectEntity }
func (EntityUpdated) Render() string                { return "Entity details updated" }

func (e EntityUpdated) Validate() error { return validateChange(&e, &e.Header, &e.Change) }

type EntityLocationsAssociated struct {
	activity.Header
	Locations []string `json:"locations"`
}

func (EntityLocationsAssociated) EventKind() activity.EventKind { return "EntityLocationsAssociated" }
func (EntityLocationsAssociated) Revision() activity.Revision   { return 1 }
func (EntityLocationsAssociated) SubjectKind() core.SubjectKind { return core.SubjectEntity }

func (e EntityLocationsAssociated) Render() string {
	return fmt.Sprintf("Entity associated with the following locations: %s", joinNames(e.Locations))
}

func (e EntityLocationsAssociated) Validate() error {
	return validation.ValidateStruct(&e,
		validation.Field(&e.Header),
		validation.Field(&e.Locations, validation.Required, validation.Each(validation.Required)),
	)
}

type EntityLocationsUnassociated struct {
	activity.Header
	Locations []string `json:"locations"`
}

func (EntityLocationsUnassociated) EventKind() activity.EventKind { return "EntityLocationsUnassociated" }
func (EntityLocationsUnassociated) Revision() activity.Revision   { return 1 }
func (EntityLocationsUnassociated) SubjectKind() core.SubjectKind { return core.SubjectEntity }

func (e EntityLocationsUnassociated) Render() string {
	return fmt.Sprintf("Entity unassociated from the following locations: %s", joinNames(e.Locations))
}

func (e EntityLocationsUnassociated) Validate() error {
	return validation.ValidateStruct(&e,
		validation.Field(&e.Header),
		validation.Field(&e.Locations, validation.Required, validation.Each(validation.Required)),
	)
}
