package repository

import (
	"context"
	"time"

	"github.com/jwalitptl/medtrack-api/internal/model"
)

// All repository interfaces in one file
type (
	// TxManager runs fn in one database transaction. Repositories called
	// with the ctx handed to fn join that transaction.
	TxManager interface {
		WithTx(ctx context.Context, fn func(ctx context.Context) error) error
	}

	// UserRepository stores accounts together with their role row
	UserRepository interface {
		Create(ctx context.Context, user *model.User, profile model.RoleProfile) error
		GetByID(ctx context.Context, id int64) (*model.User, error)
		GetByUsername(ctx context.Context, username string) (*model.User, error)
	}

	DoctorRepository interface {
		List(ctx context.Context) ([]*model.Doctor, error)
		Get(ctx context.Context, id int64) (*model.Doctor, error)
		UpdateDepartment(ctx context.Context, id int64, department string) error
		Delete(ctx context.Context, id int64) error
		AssignPatient(ctx context.Context, doctorID, patientID int64) error
		UnassignPatient(ctx context.Context, doctorID, patientID int64) error
		ListPatients(ctx context.Context, doctorID int64) ([]*model.Patient, error)
		PatientIDs(ctx context.Context, doctorIDs []int64) (map[int64][]int64, error)
	}

	PatientRepository interface {
		List(ctx context.Context) ([]*model.Patient, error)
		Get(ctx context.Context, id int64) (*model.Patient, error)
		Update(ctx context.Context, patient *model.Patient) error
		Delete(ctx context.Context, id int64) error
	}

	MedicationRepository interface {
		Create(ctx context.Context, medication *model.Medication) error
		Get(ctx context.Context, id int64) (*model.Medication, error)
		ListByPatient(ctx context.Context, patientID int64) ([]*model.Medication, error)
		Update(ctx context.Context, medication *model.Medication) error
		Delete(ctx context.Context, id int64) error
	}

	// DoseScheduleRepository stores dose slots
	DoseScheduleRepository interface {
		CreateBatch(ctx context.Context, schedules []model.DoseSchedule) ([]model.DoseSchedule, error)
		Get(ctx context.Context, id int64) (*model.DoseSchedule, error)
		ListByMedications(ctx context.Context, medicationIDs []int64) ([]model.DoseSchedule, error)
		CountByMedication(ctx context.Context, medicationID int64) (int, error)
		DeleteByMedication(ctx context.Context, medicationID int64) error
	}

	// MedicationRecordRepository stores adherence records; there is no update
	MedicationRecordRepository interface {
		Create(ctx context.Context, record *model.MedicationRecord) error
		Get(ctx context.Context, id int64) (*model.MedicationRecordDetail, error)
		ListByMedications(ctx context.Context, medicationIDs []int64) ([]model.MedicationRecord, error)
		ListByPatient(ctx context.Context, patientID int64) ([]*model.MedicationRecordDetail, error)
		Delete(ctx context.Context, id int64) error
	}

	SideEffectRepository interface {
		Create(ctx context.Context, sideEffect *model.SideEffect) error
		Get(ctx context.Context, id int64) (*model.SideEffect, error)
		ListByPatient(ctx context.Context, patientID int64) ([]*model.SideEffect, error)
		Delete(ctx context.Context, id int64) error
	}

	MessageRepository interface {
		Create(ctx context.Context, message *model.Message) error
		Get(ctx context.Context, id int64) (*model.Message, error)
		ListByParticipant(ctx context.Context, userID int64) ([]*model.Message, error)
		ListUnread(ctx context.Context, receiverID int64) ([]*model.Message, error)
		// MarkRead sets read_at only on the first call.
		MarkRead(ctx context.Context, id int64, at time.Time) (*model.Message, error)
	}
)
