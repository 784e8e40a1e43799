package events

import (
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/lzjever/mbos-activity/internal/activity"
	"github.com/lzjever/mbos-activity/internal/core"
)

type ContactCreated struct {
	activity.Header
}

func (ContactCreated) EventKind() activity.EventKind { return "ContactCreated" }
func (ContactCreated) Revision() activity.Revision   { return 1 }
func (ContactCreated) SubjectKind() core.SubjectKind { return core.SubjectContact }
func (ContactCreated) Render() string                { return "Contact created" }

type ContactUpdated struct {
	activity.Header
	Change
}

func (ContactUpdated) EventKind() activity.EventKind { return "ContactUpdated" }
func (ContactUpdated) Revision() activity.Revision   { return 1 }
func (ContactUpdated) SubjectKind() core.SubjectKind { return core.SubjectContact }
func (ContactUpdated) Render() string                { return "Contact details updated" }

func (e ContactUpdated) Validate() error { return validateChange(&e, &e.Header, &e.Change) }

type ContactDeactivated struct {
	activity.Header
}

func (ContactDeactivated) EventKind() activity.EventKind { return "ContactDeactivated" }
func (ContactDeactivated) Revision() activity.Revision   { return 1 }
func (ContactDeactivated) SubjectKind() core.SubjectKind { return core.SubjectContact }
func (ContactDeactivated) Render() string                { return "Contact deactivated" }

type ContactReactivated struct {
	activity.Header
}

func (ContactReactivated) EventKind() activity.EventKind { return "ContactReactivated" }
func (ContactReactivated) Revision() activity.Revision   { return 1 }
func (ContactReactivated) SubjectKind() core.SubjectKind { return core.SubjectContact }
func (ContactReactivated) Render() string                { return "Contact reactivated" }

type ContactAssignedToAccount struct {
	activity.Header
	AccountName string `json:"account_name"`
}

func (ContactAssignedToAccount) EventKind() activity.EventKind { return "ContactAssignedToAccount" }
func (ContactAssignedToAccount) Revision() activity.Revision   { return 1 }
func (ContactAssignedToAccount) SubjectKind() core.SubjectKind { return core.SubjectContact }

func (e ContactAssignedToAccount) Render() string {
	return fmt.Sprintf("Contact associated with the account: %s", e.AccountName)
}

func (e ContactAssignedToAccount) Validate() error {
	return validation.ValidateStruct(&e,
		validation.Field(&e.Header),
		validation.Field(&e.AccountName, validation.Required),
	)
}

type ContactUnassociatedWithAccount struct {
	activity.Header
	AccountName string `json:"account_name"`
}

func (ContactUnassociatedWithAccount) EventKind() activity.EventKind {
	return "ContactUnassociatedWithAccount"
}
func (ContactUnassociatedWithAccount) Revision() activity.Revision   { return 1 }
func (ContactUnassociatedWithAccount) SubjectKind() core.SubjectKind { return core.SubjectContact }

func (e ContactUnassociatedWithAccount) Render() string {
	return fmt.Sprintf("Contact unassociated with the account: %s", e.AccountName)
}

func (e ContactUnassociatedWithAccount) Validate() error {
	return validation.ValidateStruct(&e,
		validation.Field(&e.Header),
		validation.Field(&e.AccountName, validation.Required),
	)
}

type ContactLinkedToContact struct {
	activity.Header
	LinkedContactName string `json:"linked_contact_name"`
}

func (ContactLinkedToContact) EventKind() activity.EventKind { return "ContactLinkedToContact" }
func (ContactLinkedToContact) Revision() activity.Revision   { return 1 }
func (ContactLinkedToContact) SubjectKind() core.SubjectKind { return core.SubjectContact }

func (e ContactLinkedToContact) Render() string {
	return fmt.Sprintf("Contact linked to the contact: %s", e.LinkedContactName)
}

func (e ContactLinkedToContact) Validate() error {
	return validation.ValidateStruct(&e,
		validation.Field(&e.Header),
		validation.Field(&e.LinkedContactName, validation.Required),
	)
}

type ContactUnlinkedFromContact struct {
	activity.Header
	UnlinkedContactName string `json:"unlinked_contact_name"`
}

func (ContactUnlinkedFromContact) EventKind() activity.EventKind { return "ContactUnlinkedFromContact" }
func (ContactUnlinkedFromContact) Revision() activity.Revision   { return 1 }
func (ContactUnlinkedFromContact) SubjectKind() core.SubjectKind { return core.SubjectContact }

func (e ContactUnlinkedFromContact) Render() string {
	return fmt.Sprintf("Contact unlinked from the contact: %s", e.UnlinkedContactName)
}

func (e ContactUnlinkedFromContact) Validate() error {
	return validation.ValidateStruct(&e,
		validation.Field(&e.Header),
		validation.Field(&e.UnlinkedContactName, validation.Required),
	)
}

type ContactTypeUpdated struct {
	activity.Header
	PreviousType string `json:"previous_type"`
	CurrentType  string `json:"current_type"`
}

func (ContactTypeUpdated) EventKind() activity.EventKind { return "ContactTypeUpdated" }
func (ContactTypeUpdated) Revision() activity.Revision   { return 1 }
func (ContactTypeUpdated) SubjectKind() core.SubjectKind { return core.SubjectContact }

func (e ContactTypeUpdated) Render() string {
	return fmt.Sprintf("Contact type updated from %s to %s", e.PreviousType, e.CurrentType)
}

func (e ContactTypeUpdated) Validate() error {
	return validation.ValidateStruct(&e,
		validation.Field(&e.Header),
		validation.Field(&e.PreviousType, validation.Required),
		validation.Field(&e.CurrentType, validation.Required),
	)
}
