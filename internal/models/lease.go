package models

import "time"

// FileLease describes where an archived file lives and how long it stays
// directly servable. The registry never stores file bytes; FileRef is the
// transport's handle for refetching them.
type FileLease struct {
	ShareLink string    `json:"shareLink"`
	OwnerID   int64     `json:"ownerId"`
	FileRef   string    `json:"fileRef"`
	OriginRef string    `json:"originRef"`
	CreatedAt time.Time `json:"createdAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Lapsed reports whether the lease is past its servable window. A lease is
// directly servable iff now < ExpiresAt, mirroring grant activity.
func (l *FileLease) Lapsed(now time.Time) bool {
	return !now.Before(l.ExpiresAt)
}

// Tombstoned reports whether the file reference has been reclaimed. The row
// itself persists for audit; resolve must treat it as not found.
func (l *FileLease) Tombstoned() bool {
	return l.FileRef == ""
}

// Sweepable reports whether the lease is past its renewal grace window and
// still holds a file reference.
func (l *FileLease) Sweepable(now time.Time, grace time.Duration) bool {
	return !l.Tombstoned() && now.After(l.ExpiresAt.Add(grace))
}
