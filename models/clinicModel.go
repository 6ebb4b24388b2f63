package models

import (
	"time"
)

// Doctor model
type Doctor struct {
	ID           string        `gorm:"primaryKey;column:id" json:"id"`
	ClinicID     string        `gorm:"column:clinic_id;not null;index" json:"clinic_id"`
	Name         string        `gorm:"column:name;not null;index" json:"name"`
	Specialty    string        `gorm:"column:specialty" json:"specialty"`
	Email        string        `gorm:"column:email" json:"email"`
	CreatedAt    time.Time     `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	Appointments []Appointment `gorm:"foreignKey:DoctorID;references:ID" json:"-"`
}

func (Doctor) TableName() string {
	return "doctor"
}

// Patient model. Patients are created by the front-desk CRUD surface; the
// assistant core only reads them and never deletes them.
type Patient struct {
	ID               string           `gorm:"primaryKey;column:id" json:"id"`
	ClinicID         string           `gorm:"column:clinic_id;not null;index" json:"clinic_id"`
	Name             string           `gorm:"column:name;not null;index" json:"name"`
	DNI              string           `gorm:"column:dni" json:"dni"`
	Email            string           `gorm:"column:email" json:"email"`
	Phone            string           `gorm:"column:phone" json:"phone"`
	Address          string           `gorm:"column:address" json:"address"`
	DateOfBirth      string           `gorm:"column:date_of_birth" json:"date_of_birth"`
	AssignedDoctorID string           `gorm:"column:assigned_doctor_id;index" json:"assigned_doctor_id"`
	CreatedAt        time.Time        `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	ClinicalRecords  []ClinicalRecord `gorm:"foreignKey:PatientID;references:ID" json:"-"`
	Budgets          []Budget         `gorm:"foreignKey:PatientID;references:ID" json:"-"`
	Appointments     []Appointment    `gorm:"foreignKey:PatientID;references:ID" json:"-"`
}

func (Patient) TableName() string {
	return "patient"
}

// Odontogram model. At most one row per patient. Teeth holds the serialized
// tooth map (tooth number -> status/notes/updated_at); the row is replaced
// whole on every write, Version increments on each save so callers can opt
// into optimistic-concurrency checks.
type Odontogram struct {
	ID        string    `gorm:"primaryKey;column:id" json:"id"`
	ClinicID  string    `gorm:"column:clinic_id;not null;index" json:"clinic_id"`
	PatientID string    `gorm:"column:patient_id;not null;uniqueIndex" json:"patient_id"`
	Teeth     string    `gorm:"column:teeth;type:text;not null" json:"teeth"`
	Version   int       `gorm:"column:version;not null;default:1" json:"version"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
	Patient   Patient   `gorm:"foreignKey:PatientID;references:ID" json:"-"`
}

func (Odontogram) TableName() string {
	return "odontogram"
}

// Budget model. Created in one shot with its line items; immutable afterwards
// from the assistant's point of view (acceptance happens elsewhere).
type Budget struct {
	ID          string           `gorm:"primaryKey;column:id" json:"id"`
	ClinicID    string           `gorm:"column:clinic_id;not null;index" json:"clinic_id"`
	PatientID   string           `gorm:"column:patient_id;not null;index" json:"patient_id"`
	Status      string           `gorm:"column:status;not null" json:"status"`
	TotalAmount float64          `gorm:"column:total_amount;not null" json:"total_amount"`
	Date        time.Time        `gorm:"column:date;not null;index" json:"date"`
	CreatedAt   time.Time        `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	Items       []BudgetLineItem `gorm:"foreignKey:BudgetID;references:ID" json:"items"`
	Patient     Patient          `gorm:"foreignKey:PatientID;references:ID" json:"-"`
}

func (Budget) TableName() string {
	return "budget"
}

// BudgetLineItem model
type BudgetLineItem struct {
	ID       string  `gorm:"primaryKey;column:id" json:"id"`
	BudgetID string  `gorm:"column:budget_id;not null;index" json:"budget_id"`
	Name     string  `gorm:"column:name;not null" json:"name"`
	Price    float64 `gorm:"column:price;not null" json:"price"`
	Tooth    *string `gorm:"column:tooth" json:"tooth"`
	Quantity int     `gorm:"column:quantity;not null;default:1" json:"quantity"`
}

func (BudgetLineItem) TableName() string {
	return "budget_line_item"
}

// ClinicalRecord model. Append-only timeline entry. Text holds a serialized
// {treatment, observation, specialization} payload rather than free prose.
type ClinicalRecord struct {
	ID        string    `gorm:"primaryKey;column:id" json:"id"`
	ClinicID  string    `gorm:"column:clinic_id;not null;index" json:"clinic_id"`
	PatientID string    `gorm:"column:patient_id;not null;index" json:"patient_id"`
	Date      time.Time `gorm:"column:date;not null;index" json:"date"`
	Text      string    `gorm:"column:text;type:text;not null" json:"text"`
	AuthorID  string    `gorm:"column:author_id;not null" json:"author_id"`
	Patient   Patient   `gorm:"foreignKey:PatientID;references:ID" json:"-"`
}

func (ClinicalRecord) TableName() string {
	return "clinical_record"
}

// Appointment model
type Appointment struct {
	ID            string    `gorm:"primaryKey;column:id" json:"id"`
	ClinicID      string    `gorm:"column:clinic_id;not null;index" json:"clinic_id"`
	PatientID     string    `gorm:"column:patient_id;not null;index" json:"patient_id"`
	DoctorID      string    `gorm:"column:doctor_id;not null;index" json:"doctor_id"`
	Date          string    `gorm:"column:date;not null;index" json:"date"`
	Time          string    `gorm:"column:time;not null" json:"time"`
	TreatmentType string    `gorm:"column:treatment_type" json:"treatment_type"`
	Status        string    `gorm:"column:status;check:status IN ('Scheduled', 'Fulfilled', 'Cancelled');not null" json:"status"`
	CreatedAt     time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	Patient       Patient   `gorm:"foreignKey:PatientID;references:ID" json:"patient"`
	Doctor        Doctor    `gorm:"foreignKey:DoctorID;references:ID" json:"doctor"`
}

func (Appointment) TableName() string {
	return "appointment"
}
