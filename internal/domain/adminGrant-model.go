package domain

import "gorm.io/gorm"

// AdminGrant marks a user as a reviewer. Rows are created out-of-band by
// operators; the service only ever reads them. Existence of a row is the
// sole admin-authorization signal.
type AdminGrant struct {
	ID        uint    `gorm:"primaryKey" json:"id"`
	UserID    uint    `gorm:"uniqueIndex;not null" json:"user_id"`
	AdminRole *string `gorm:"type:varchar(50)" json:"admin_role,omitempty"`
	CreatedBy *uint   `json:"created_by,omitempty"`
	gorm.Model
}
