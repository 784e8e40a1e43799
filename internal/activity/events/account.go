package events

import (
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/lzjever/mbos-activity/internal/activity"
	"github.com/lzjever/mbos-activity/internal/core"
)

type AccountCreated struct {
	activity.Header
	// AccountServices lists what the account was opened for, e.g. "Client, Referral partner".
	AccountServices string `json:"account_services"`
}

func (AccountCreated) EventKind() activity.EventKind { return "AccountCreated" }
func (AccountCreated) Revision() activity.Revision   { return 1 }
func (AccountCreated) SubjectKind() core.SubjectKind { return core.SubjectAccount }

func (e AccountCreated) Render() string {
	if e.AccountServices == "" {
		return "Account created"
	}
	return fmt.Sprintf("Account created: %s", e.AccountServices)
}

func (e AccountCreated) Validate() error {
	return validation.ValidateStruct(&e, validation.Field(&e.Header))
}

type AccountProfileUpdated struct {
	activity.Header
	Change
}

func (AccountProfileUpdated) EventKind() activity.EventKind { return "AccountProfileUpdated" }
func (AccountProfileUpdated) Revision() activity.Revision   { return 1 }
func (AccountProfileUpdated) SubjectKind() core.SubjectKind { return core.SubjectAccount }
func (AccountProfileUpdated) Render() string                { return "Account profile updated" }

func (e AccountProfileUpdated) Validate() error { return validateChange(&e, &e.Header, &e.Change) }

type ClientDeactivated struct {
	activity.Header
}

func (ClientDeactivated) EventKind() activity.EventKind { return "ClientDeactivated" }
func (ClientDeactivated) Revision() activity.Revision   { return 1 }
func (ClientDeactivated) SubjectKind() core.SubjectKind { return core.SubjectAccount }
func (ClientDeactivated) Render() string                { return "Client deactivated" }

type ClientReactivated struct {
	activity.Header
}

func (ClientReactivated) EventKind() activity.EventKind { return "ClientReactivated" }
func (ClientReactivated) Revision() activity.Revision   { return 1 }
func (ClientReactivated) SubjectKind() core.SubjectKind { return core.SubjectAccount }
func (ClientReactivated) Render() string                { return "Client reactivated" }

type SalespersonAssigned struct {
	activity.Header
	Salespersons string `json:"salespersons"`
}

func (SalespersonAssigned) EventKind() activity.EventKind { return "SalespersonAssigned" }
func (SalespersonAssigned) Revision() activity.Revision   { return 1 }
func (SalespersonAssigned) SubjectKind() core.SubjectKind { return core.SubjectAccount }

func (e SalespersonAssigned) Render() string {
	return fmt.Sprintf("Salesperson assigned: %s", e.Salespersons)
}

func (e SalespersonAssigned) Validate() error {
	return validation.ValidateStruct(&e,
		validation.Field(&e.Header),
		validation.Field(&e.Salespersons, validation.Required),
	)
}

type SalespersonUnassigned struct {
	activity.Header
	Salespersons string `json:"salespersons"`
}

func (SalespersonUnassigned) EventKind() activity.EventKind { return "SalespersonUnassigned" }
func (SalespersonUnassigned) Revision() activity.Revision   { return 1 }
func (SalespersonUnassigned) SubjectKind() core.SubjectKind { return core.SubjectAccount }

func (e SalespersonUnassigned) Render() string {
	return fmt.Sprintf("Salesperson unassigned: %s", e.Salespersons)
}

func (e SalespersonUnassigned) Validate() error {
	return validation.ValidateStruct(&e,
		validation.Field(&e.Header),
		validation.Field(&e.Salespersons, validation.Required),
	)
}
