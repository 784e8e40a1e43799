package events

import "github.com/lzjever/mbos-activity/internal/activity"

// Decoders is the static decoder table. Every payload type in this package
// appears exactly once.
func Decoders() []activity.Decoder {
	return []activity.Decoder{
		// user
		activity.DecoderFor[UserCreated](),
		activity.DecoderFor[UserUpdated](),
		activity.DecoderFor[UserDeactivated](),
		activity.DecoderFor[UserReactivated](),
		activity.DecoderFor[UserRolesAssigned](),
		activity.DecoderFor[UserRolesAssignedV2](),
		activity.DecoderFor[UserRolesUnassigned](),
		activity.DecoderFor[CredentialsSent](),

		// role
		activity.DecoderFor[RoleUsersAssigned](),
		activity.DecoderFor[RoleUsersUnassigned](),

		// tenant
		activity.DecoderFor[TenantUpdated](),
		activity.DecoderFor[TenantEntered](),
		activity.DecoderFor[TenantExited](),
		activity.DecoderFor[TenantProgramsAssigned](),
		activity.DecoderFor[TenantProgramsUnassigned](),

		// program
		activity.DecoderFor[ProgramCreated](),
		activity.DecoderFor[ProgramUpdated](),
		activity.DecoderFor[ProgramDeactivated](),
		activity.DecoderFor[ProgramReactivated](),
		activity.DecoderFor[ProgramOrgUnitAssigned](),
		activity.DecoderFor[ProgramOrgUnitUnassigned](),

		// organisational units
		activity.DecoderFor[DepartmentUpdated](),
		activity.DecoderFor[DivisionUpdated](),
		activity.DecoderFor[ServiceAreaUpdated](),
		activity.DecoderFor[JobTitleUpdated](),
		activity.DecoderFor[TeamUpdated](),

		// account
		activity.DecoderFor[AccountCreated](),
		activity.DecoderFor[AccountProfileUpdated](),
		activity.DecoderFor[ClientDeactivated](),
		activity.DecoderFor[ClientReactivated](),
		activity.DecoderFor[SalespersonAssigned](),
		activity.DecoderFor[SalespersonUnassigned](),

		// contact
		activity.DecoderFor[ContactCreated](),
		activity.DecoderFor[ContactUpdated](),
		activity.DecoderFor[ContactDeactivated](),
		activity.DecoderFor[ContactReactivated](),
		activity.DecoderFor[ContactAssignedToAccount](),
		activity.DecoderFor[ContactUnassociatedWithAccount](),
		activity.DecoderFor[ContactLinkedToContact](),
		activity.DecoderFor[ContactUnlinkedFromContact](),
		activity.DecoderFor[ContactTypeUpdated](),

		// location
		activity.DecoderFor[LocationCreated](),
		activity.DecoderFor[LocationUpdated](),
		activity.DecoderFor[LocationDeactivated](),
		activity.DecoderFor[LocationReactivated](),
		activity.DecoderFor[LocationEntitiesAssociated](),
		activity.DecoderFor[LocationEntitiesUnassociated](),

		// entity
		activity.DecoderFor[EntityUpdated](),
		activity.DecoderFor[EntityLocationsAssociated](),
		activity.DecoderFor[EntityLocationsUnassociated](),
	}
}

// NewRegistry builds the process-wide registry from Decoders.
func NewRegistry() (*activity.Registry, error) {
	return activity.NewRegistry(Decoders()...)
}
