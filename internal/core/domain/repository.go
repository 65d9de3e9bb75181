package domain

import "context"

// ProfileRepository defines the interface for profile data access
type ProfileRepository interface {
	Create(ctx context.Context, req CreateProfileRequest) (*UserProfile, error)
	Get(ctx context.Context, id string) (*UserProfile, error)
	List(ctx context.Context) ([]UserProfile, error)
}

// ConnectionRepository defines the interface for connection data access.
// Update shallow-merges the supplied fields into the stored document;
// fields not named in the patch are left untouched.
type ConnectionRepository interface {
	Create(ctx context.Context, req CreateConnectionRequest) (*Connection, error)
	ListForUser(ctx context.Context, userID string) ([]Connection, error)
	Update(ctx context.Context, id string, fields map[string]any) error
}
