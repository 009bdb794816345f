// Package memory is an in-process implementation of the repository
// interfaces. It mirrors the foreign-key actions of the Postgres schema
// and is used for local runs (database.driver: memory) and tests.
package memory

import (
	"context"
	"sync"

	"github.com/jwalitptl/medtrack-api/internal/model"
	"github.com/jwalitptl/medtrack-api/internal/repository"
)

type txKey struct{}

type assignment struct {
	doctorID  int64
	patientID int64
}

type tables struct {
	users       map[int64]model.User
	doctors     map[int64]model.Doctor
	patients    map[int64]model.Patient
	assignments map[assignment]struct{}
	medications map[int64]model.Medication
	schedules   map[int64]model.DoseSchedule
	records     map[int64]model.MedicationRecord
	sideEffects map[int64]model.SideEffect
	messages    map[int64]model.Message
	seq         map[string]int64
}

func newTables() tables {
	return tables{
		users:       map[int64]model.User{},
		doctors:     map[int64]model.Doctor{},
		patients:    map[int64]model.Patient{},
		assignments: map[assignment]struct{}{},
		medications: map[int64]model.Medication{},
		schedules:   map[int64]model.DoseSchedule{},
		records:     map[int64]model.MedicationRecord{},
		sideEffects: map[int64]model.SideEffect{},
		messages:    map[int64]model.Message{},
		seq:         map[string]int64{},
	}
}

func (t tables) clone() tables {
	c := newTables()
	for k, v := range t.users {
		c.users[k] = v
	}
	for k, v := range t.doctors {
		c.doctors[k] = v
	}
	for k, v := range t.patients {
		c.patients[k] = v
	}
	for k := range t.assignments {
		c.assignments[k] = struct{}{}
	}
	for k, v := range t.medications {
		c.medications[k] = v
	}
	for k, v := range t.schedules {
		c.schedules[k] = v
	}
	for k, v := range t.records {
		c.records[k] = v
	}
	for k, v := range t.sideEffects {
		c.sideEffects[k] = v
	}
	for k, v := range t.messages {
		c.messages[k] = v
	}
	for k, v := range t.seq {
		c.seq[k] = v
	}
	return c
}

// Store holds every table behind one lock. Transactions are serialized
// and restore a snapshot when fn fails; writes made outside a transaction
// wait for the running one so a rollback cannot discard them.
type Store struct {
	mu   sync.Mutex
	txMu sync.Mutex
	t    tables
}

func NewStore() *Store {
	return &Store{t: newTables()}
}

func (s *Store) nextID(table string) int64 {
	s.t.seq[table]++
	return s.t.seq[table]
}

// write locks the tables for a mutation and returns the unlock func.
func (s *Store) write(ctx context.Context) func() {
	if ctx.Value(txKey{}) != nil {
		s.mu.Lock()
		return s.mu.Unlock
	}
	s.txMu.Lock()
	s.mu.Lock()
	return func() {
		s.mu.Unlock()
		s.txMu.Unlock()
	}
}

func (s *Store) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if ctx.Value(txKey{}) != nil {
		return fn(ctx)
	}

	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.Lock()
	snapshot := s.t.clone()
	s.mu.Unlock()

	if err := fn(context.WithValue(ctx, txKey{}, true)); err != nil {
		s.mu.Lock()
		s.t = snapshot
		s.mu.Unlock()
		return err
	}
	return nil
}

func (s *Store) TxManager() repository.TxManager                 { return s }
func (s *Store) Users() repository.UserRepository                { return &userRepository{s} }
func (s *Store) Doctors() repository.DoctorRepository            { return &doctorRepository{s} }
func (s *Store) Patients() repository.PatientRepository          { return &patientRepository{s} }
func (s *Store) Medications() repository.MedicationRepository    { return &medicationRepository{s} }
func (s *Store) DoseSchedules() repository.DoseScheduleRepository { return &doseScheduleRepository{s} }
func (s *Store) MedicationRecords() repository.MedicationRecordRepository {
	return &medicationRecordRepository{s}
}
func (s *Store) SideEffects() repository.SideEffectRepository { return &sideEffectRepository{s} }
func (s *Store) Messages() repository.MessageRepository       { return &messageRepository{s} }

// cascade helpers; callers hold s.mu

func (s *Store) deleteDoctorLocked(id int64) {
	delete(s.t.doctors, id)
	for a := range s.t.assignments {
		if a.doctorID == id {
			delete(s.t.assignments, a)
		}
	}
}

func (s *Store) deletePatientLocked(id int64) {
	delete(s.t.patients, id)
	for a := range s.t.assignments {
		if a.patientID == id {
			delete(s.t.assignments, a)
		}
	}
	for medID, m := range s.t.medications {
		if m.PatientID == id {
			s.deleteMedicationLocked(medID)
		}
	}
	for seID, se := range s.t.sideEffects {
		if se.PatientID == id {
			delete(s.t.sideEffects, seID)
		}
	}
}

func (s *Store) deleteMedicationLocked(id int64) {
	delete(s.t.medications, id)
	for slotID, slot := range s.t.schedules {
		if slot.MedicationID == id {
			s.deleteScheduleLocked(slotID)
		}
	}
	for recID, rec := range s.t.records {
		if rec.MedicationID == id {
			delete(s.t.records, recID)
		}
	}
	for seID, se := range s.t.sideEffects {
		if se.MedicationID != nil && *se.MedicationID == id {
			se.MedicationID = nil
			s.t.sideEffects[seID] = se
		}
	}
}

func (s *Store) deleteScheduleLocked(id int64) {
	delete(s.t.schedules, id)
	for recID, rec := range s.t.records {
		if rec.DoseScheduleID == id {
			delete(s.t.records, recID)
		}
	}
}

func int64Set(ids []int64) map[int64]bool {
	set := make(map[int64]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}
