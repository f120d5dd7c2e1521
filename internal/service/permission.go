package service

import "github.com/google/uuid"

// Permission is a named capability that lets an actor bypass the ownership
// check for one specific action.
type Permission string

const (
	PermissionUpdateCourtNotOwned Permission = "court.update_not_owned"
	PermissionDeleteCourtNotOwned Permission = "court.delete_not_owned"
	PermissionAddPhotoNotOwned    Permission = "court.add_photo_not_owned"
	PermissionDeletePhotoNotOwned Permission = "court.delete_photo_not_owned"
	PermissionAddVideoNotOwned    Permission = "court.add_video_not_owned"
	PermissionDeleteVideoNotOwned Permission = "court.delete_video_not_owned"
)

// Actor is the already-authenticated caller identity. Credential parsing
// happens upstream; the services only ever see this.
type Actor struct {
	ID          uuid.UUID
	Anonymous   bool
	Permissions []Permission
}

func AnonymousActor() Actor {
	return Actor{Anonymous: true}
}

func (a Actor) HasPermission(p Permission) bool {
	for _, held := range a.Permissions {
		if held == p {
			return true
		}
	}
	return false
}

func (a Actor) Is(userID uuid.UUID) bool {
	return !a.Anonymous && a.ID == userID
}

// CanModify is the single authorization policy for every mutating operation:
// the actor must own the resource or hold the override permission for the
// action. Pure function, evaluated before any write.
func CanModify(actor Actor, ownerID uuid.UUID, override Permission) bool {
	if actor.Anonymous {
		return false
	}
	return actor.ID == ownerID || actor.HasPermission(override)
}
