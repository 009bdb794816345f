// Package scheduling derives dose slots from a medication's daily frequency.
package scheduling

import (
	"time"

	"github.com/benbjohnson/clock"

	"github.com/jwalitptl/medtrack-api/internal/model"
)

type Scheduler struct {
	clock clock.Clock
}

func NewScheduler(clk clock.Clock) *Scheduler {
	if clk == nil {
		clk = clock.New()
	}
	return &Scheduler{clock: clk}
}

// GenerateSlots returns the slots for m on today's date. The medication's
// start date is not consulted.
func (s *Scheduler) GenerateSlots(m *model.Medication) []model.DoseSchedule {
	return Slots(m.ID, m.FrequencyPerDay, s.clock.Now())
}

// Slots places frequencyPerDay slots on the calendar day of now, starting at
// midnight and spaced 24/frequencyPerDay whole hours apart. The remainder of
// the division is dropped, so 5 a day lands at 0, 4, 8, 12 and 16 h; above
// 24 a day the spacing is zero and every slot falls at midnight. A
// non-positive frequency yields no slots.
func Slots(medicationID int64, frequencyPerDay int, now time.Time) []model.DoseSchedule {
	if frequencyPerDay <= 0 {
		return nil
	}

	interval := 24 / frequencyPerDay
	y, mo, d := now.Date()

	slots := make([]model.DoseSchedule, 0, frequencyPerDay)
	for i := 0; i < frequencyPerDay; i++ {
		slots = append(slots, model.DoseSchedule{
			MedicationID:  medicationID,
			ScheduledTime: time.Date(y, mo, d, i*interval, 0, 0, 0, now.Location()),
		})
	}
	return slots
}
