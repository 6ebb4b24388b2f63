package models

import (
	"time"

	"gorm.io/gorm"
)

// Role represents a user role
type Role struct {
	ID          int64        `gorm:"primaryKey;column:id" json:"id"`
	Name        string       `gorm:"size:50;not null;unique;index;column:name" json:"name"`
	Description string       `gorm:"type:text;column:description" json:"description"`
	CreatedAt   time.Time    `gorm:"autoCreateTime;column:created_at" json:"created_at"`
	Permissions []Permission `gorm:"many2many:role_permissions;" json:"permissions"`
}

func (Role) TableName() string {
	return "roles"
}

// SeedRoles inserts initial roles into the database
func SeedRoles(db *gorm.DB) error {
	initialRoles := []Role{
		{Name: "ADMIN", Description: "Full access to the clinic"},
		{Name: "DOCTOR", Description: "Can manage assigned patients, odontograms and prescriptions"},
		{Name: "RECEPTION", Description: "Can handle appointments and budgets"},
	}
	return db.Transaction(func(tx *gorm.DB) error {
		for _, role := range initialRoles {
			if err := tx.FirstOrCreate(&role, Role{Name: role.Name}).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// User represents a user in the system. DoctorID links clinic staff accounts
// with DOCTOR role to their doctor row; it is empty for everyone else.
type User struct {
	ID        int64     `gorm:"primaryKey;column:id" json:"id"`
	Username  string    `gorm:"size:100;not null;unique;index;column:username" json:"username"`
	Email     string    `gorm:"size:255;not null;unique;index;column:email" json:"email"`
	Password  string    `gorm:"size:255;not null;column:password" json:"password"`
	RoleID    int64     `gorm:"index;not null;column:role_id" json:"role_id"`
	Role      Role      `gorm:"foreignKey:RoleID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"role"`
	DoctorID  string    `gorm:"size:36;index;column:doctor_id" json:"doctor_id"`
	ClinicID  string    `gorm:"size:36;index;column:clinic_id" json:"clinic_id"`
	CreatedAt time.Time `gorm:"autoCreateTime;column:created_at" json:"created_at"`
}

func (User) TableName() string {
	return "users"
}

// Permission represents a permission in the system
type Permission struct {
	ID          int64  `gorm:"primaryKey;column:id" json:"id"`
	Name        string `gorm:"size:100;not null;unique;index;column:name" json:"name"`
	Description string `gorm:"type:text;column:description" json:"description"`
}

func (Permission) TableName() string {
	return "permissions"
}

// SeedPermissions inserts initial permissions into the database
func SeedPermissions(db *gorm.DB) error {
	initialPermissions := []Permission{
		{Name: "manage_users", Description: "Create, update, or delete users"},
		{Name: "view_patients", Description: "View patient data"},
		{Name: "manage_odontograms", Description: "Update patient odontograms"},
		{Name: "manage_budgets", Description: "Create or update treatment budgets"},
		{Name: "manage_appointments", Description: "Create or update appointments"},
		{Name: "use_assistant", Description: "Dispatch AI assistant actions"},
	}
	return db.Transaction(func(tx *gorm.DB) error {
		for _, permission := range initialPermissions {
			if err := tx.FirstOrCreate(&permission, Permission{Name: permission.Name}).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// RolePermission represents the association between roles and permissions
type RolePermission struct {
	ID           int64 `gorm:"primaryKey;column:id" json:"id"`
	RoleID       int64 `gorm:"index;column:role_id" json:"role_id"`
	PermissionID int64 `gorm:"index;column:permission_id" json:"permission_id"`
}

func (RolePermission) TableName() string {
	return "role_permissions"
}

// SeedRolePermissions inserts initial role permissions into the database
func SeedRolePermissions(db *gorm.DB) error {
	initialRolePermissions := []RolePermission{
		{RoleID: 1, PermissionID: 1}, // ADMIN: manage_users
		{RoleID: 1, PermissionID: 2}, // ADMIN: view_patients
		{RoleID: 1, PermissionID: 3}, // ADMIN: manage_odontograms
		{RoleID: 1, PermissionID: 4}, // ADMIN: manage_budgets
		{RoleID: 1, PermissionID: 5}, // ADMIN: manage_appointments
		{RoleID: 1, PermissionID: 6}, // ADMIN: use_assistant
		{RoleID: 2, PermissionID: 2}, // DOCTOR: view_patients
		{RoleID: 2, PermissionID: 3}, // DOCTOR: manage_odontograms
		{RoleID: 2, PermissionID: 6}, // DOCTOR: use_assistant
		{RoleID: 3, PermissionID: 4}, // RECEPTION: manage_budgets
		{RoleID: 3, PermissionID: 5}, // RECEPTION: manage_appointments
		{RoleID: 3, PermissionID: 6}, // RECEPTION: use_assistant
	}
	return db.Transaction(func(tx *gorm.DB) error {
		for _, rolePermission := range initialRolePermissions {
			if err := tx.FirstOrCreate(&rolePermission, RolePermission{RoleID: rolePermission.RoleID, PermissionID: rolePermission.PermissionID}).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
