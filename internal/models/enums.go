// enums.go
//
// Samsyn - collaborative marine spatial planning backend
// Copyright (c) 2026 Mistra C2B2
//
// This file is part of samsyn-sub000, released under the terms of the
// GNU Affero General Public License version 3 or (at your option) any
// later version. See <https://www.gnu.org/licenses/> for details.

package models

// The data store keeps every enum-like field as a plain string and does not
// enforce membership. Each read path that branches on one of these values
// must call Valid() first and treat an unknown value as the most restrictive
// member of the set.

// Permission governs access to a map along one axis (view or edit).
type Permission string

const (
	PermissionPrivate       Permission = "private"
	PermissionCollaborators Permission = "collaborators"
	PermissionPublic        Permission = "public"
)

// Valid reports whether the stored value is a known permission.
func (p Permission) Valid() bool {
	switch p {
	case PermissionPrivate, PermissionCollaborators, PermissionPublic:
		return true
	}
	return false
}

// Role is a requester's effective standing on a map. Only RoleViewer and
// RoleEditor are ever stored in a collaborator row; RoleOwner and RoleNone
// are computed.
type Role string

const (
	RoleOwner  Role = "owner"
	RoleEditor Role = "editor"
	RoleViewer Role = "viewer"
	RoleNone   Role = "none"
)

// ValidCollaborator reports whether the role may be stored in a
// collaborator row.
func (r Role) ValidCollaborator() bool {
	return r == RoleViewer || r == RoleEditor
}

// LayerType identifies the tile/feature source family of a layer.
type LayerType string

const (
	LayerTypeWMS     LayerType = "wms"
	LayerTypeGeoTIFF LayerType = "geotiff"
	LayerTypeVector  LayerType = "vector"
)

func (t LayerType) Valid() bool {
	switch t {
	case LayerTypeWMS, LayerTypeGeoTIFF, LayerTypeVector:
		return true
	}
	return false
}

// Editable governs who may edit a layer. It never governs delete.
type Editable string

const (
	EditableCreatorOnly Editable = "creator-only"
	EditableEveryone    Editable = "everyone"
)

func (e Editable) Valid() bool {
	return e == EditableCreatorOnly || e == EditableEveryone
}

// Visibility governs layer discovery in the library listing. It is a
// separate axis from map permissions and the two never interact.
type Visibility string

const (
	VisibilityPrivate Visibility = "private"
	VisibilityPublic  Visibility = "public"
)

func (v Visibility) Valid() bool {
	return v == VisibilityPrivate || v == VisibilityPublic
}

// CreationSource distinguishes system-seeded layers from user-created ones.
type CreationSource string

const (
	CreationSourceSystem CreationSource = "system"
	CreationSourceUser   CreationSource = "user"
)

func (s CreationSource) Valid() bool {
	return s == CreationSourceSystem || s == CreationSourceUser
}
