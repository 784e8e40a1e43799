package events

import (
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/lzjever/mbos-activity/internal/activity"
	"github.com/lzjever/mbos-activity/internal/core"
)

type LocationCreated struct {
	activity.Header
}

func (LocationCreated) EventKind() activity.EventKind { return "LocationCreated" }
func (LocationCreated) Revision() activity.Revision   { return 1 }
func (LocationCreated) SubjectKind() core.SubjectKind { return core.SubjectLocation }
func (LocationCreated) Render() string                { return "Location created" }

type LocationUpdated struct {
	activity.Header
	Change
}

func (LocationUpdated) EventKind() activity.EventKind { return "LocationUpdated" }
func (LocationUpdated) Revision() activity.Revision   { return 1 }
func (LocationUpdated) SubjectKind() core.SubjectKind { return core.SubjectLocation }
func (LocationUpdated) Render() string                { return "Location details updated" }

func (e LocationUpdated) Validate() error { return validateChange(&e, &e.Header, &e.Change) }

type LocationDeactivated struct {
	activity.Header
}

func (LocationDeactivated) EventKind() activity.EventKind { return "LocationDeactivated" }
func (LocationDeactivated) Revision() activity.Revision   { return 1 }
func (LocationDeactivated) SubjectKind() core.SubjectKind { return core.SubjectLocation }
func (LocationDeactivated) Render() string                { return "Location deactivated" }

type LocationReactivated struct {
	activity.Header
}

func (LocationReactivated) EventKind() activity.EventKind { return "LocationReactivated" }
func (LocationReactivated) Revision() activity.Revision   { return 1 }
func (LocationReactivated) SubjectKind() core.SubjectKind { return core.SubjectLocation }
func (LocationReactivated) Render() string                { return "Location reactivated" }

type LocationEntitiesAssociated struct {
	activity.Header
	Entities []string `json:"entities"`
}

func (LocationEntitiesAssociated) EventKind() activity.EventKind { return "LocationEntitiesAssociated" }
func (LocationEntitiesAssociated) Revision() activity.Revision   { return 1 }
func (LocationEntitiesAssociated) SubjectKind() core.SubjectKind { return core.SubjectLocation }

func (e LocationEntitiesAssociated) Render() string {
	return fmt.Sprintf("Location associated with the following entities: %s", joinNames(e.Entities))
}

func (e LocationEntitiesAssociated) Validate() error {
	return validation.ValidateStruct(&e,
		validation.Field(&e.Header),
		validation.Field(&e.Entities, validation.Required, validation.Each(validation.Required)),
	)
}

type LocationEntitiesUnassociated struct {
	activity.Header
	Entities []string `json:"entities"`
}

func (LocationEntitiesUnassociated) EventKind() activity.EventKind {
	return "LocationEntitiesUnassociated"
}
func (LocationEntitiesUnassociated) Revision() activity.Revision   { return 1 }
func (LocationEntitiesUnassociated) SubjectKind() core.SubjectKind { return core.SubjectLocation }

func (e LocationEntitiesUnassociated) Render() string {
	return fmt.Sprintf("Location unassociated from the following entities: %s", joinNames(e.Entities))
}

func (e LocationEntitiesUnassociated) Validate() error {
	return validation.ValidateStruct(&e,
		validation.Field(&e.Header),
		validation.Field(&e.Entities, validation.Required, validation.Each(validation.Required)),
	)
}
