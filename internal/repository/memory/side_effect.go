package memory

import (
	"context"
	"sort"
	"time"

	"github.com/jwalitptl/medtrack-api/internal/model"
	apperrors "github.com/jwalitptl/medtrack-api/pkg/errors"
)

type sideEffectRepository struct{ s *Store }

func (r *sideEffectRepository) withMedicationName(se model.SideEffect) *model.SideEffect {
	se.MedicationName = nil
	if se.MedicationID != nil {
		if m, ok := r.s.t.medications[*se.MedicationID]; ok {
			name := m.Name
			se.MedicationName = &name
		}
	}
	return &se
}

func (r *sideEffectRepository) Create(ctx context.Context, se *model.SideEffect) error {
	defer r.s.write(ctx)()

	if _, ok := r.s.t.patients[se.PatientID]; !ok {
		return apperrors.NotFound("referenced patient", nil)
	}
	if se.MedicationID != nil {
		if _, ok := r.s.t.medications[*se.MedicationID]; !ok {
			return apperrors.NotFound("referenced medication", nil)
		}
	}
	se.ID = r.s.nextID("side_effects")
	r.s.t.sideEffects[se.ID] = *se
	return nil
}

func (r *sideEffectRepository) Get(_ context.Context, id int64) (*model.SideEffect, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	se, ok := r.s.t.sideEffects[id]
	if !ok {
		return nil, apperrors.NotFound("side effect", nil)
	}
	return r.withMedicationName(se), nil
}

func (r *sideEffectRepository) ListByPatient(_ context.Context, patientID int64) ([]*model.SideEffect, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	effects := []*model.SideEffect{}
	for _, se := range r.s.t.sideEffects {
		if se.PatientID == patientID {
			effects = append(effects, r.withMedicationName(se))
		}
	}
	sort.Slice(effects, func(i, j int) bool {
		if !effects[i].Date.Equal(effects[j].Date) {
			return effects[i].Date.After(effects[j].Date)
		}
		return effects[i].ID > effects[j].ID
	})
	return effects, nil
}

func (r *sideEffectRepository) Delete(ctx context.Context, id int64) error {
	defer r.s.write(ctx)()

	if _, ok := r.s.t.sideEffects[id]; !ok {
		return apperrors.NotFound("side effect", nil)
	}
	delete(r.s.t.sideEffects, id)
	return nil
}

type messageRepository struct{ s *Store }

func (r *messageRepository) Create(ctx context.Context, m *model.Message) error {
	defer r.s.write(ctx)()

	m.ID = r.s.nextID("messages")
	r.s.t.messages[m.ID] = *m
	return nil
}

func (r *messageRepository) Get(_ context.Context, id int64) (*model.Message, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	m, ok := r.s.t.messages[id]
	if !ok {
		return nil, apperrors.NotFound("message", nil)
	}
	return &m, nil
}

func (r *messageRepository) collect(match func(model.Message) bool, newestFirst bool) []*model.Message {
	messages := []*model.Message{}
	for _, m := range r.s.t.messages {
		if match(m) {
			m := m
			messages = append(messages, &m)
		}
	}
	sort.Slice(messages, func(i, j int) bool {
		a, b := messages[i], messages[j]
		if newestFirst {
			a, b = b, a
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.ID < b.ID
	})
	return messages
}

func (r *messageRepository) ListByParticipant(_ context.Context, userID int64) ([]*model.Message, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	return r.collect(func(m model.Message) bool {
		return m.SenderID == userID || m.ReceiverID == userID
	}, false), nil
}

func (r *messageRepository) ListUnread(_ context.Context, receiverID int64) ([]*model.Message, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	return r.collect(func(m model.Message) bool {
		return m.ReceiverID == receiverID && !m.IsRead
	}, true), nil
}

func (r *messageRepository) MarkRead(ctx context.Context, id int64, at time.Time) (*model.Message, error) {
	defer r.s.write(ctx)()

	m, ok := r.s.t.messages[id]
	if !ok {
		return nil, apperrors.NotFound("message", nil)
	}
	if m.ReadAt == nil {
		readAt := at
		m.ReadAt = &readAt
	}
	m.IsRead = true
	r.s.t.messages[id] = m
	return &m, nil
}
