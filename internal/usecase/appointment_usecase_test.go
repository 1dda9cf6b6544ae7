package usecase_test

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/medilink/telehealth-api/internal/delivery/dto"
	"github.com/medilink/telehealth-api/internal/domain/entity"
	"github.com/medilink/telehealth-api/internal/infrastructure/database"
	"github.com/medilink/telehealth-api/internal/repository"
	"github.com/medilink/telehealth-api/internal/service"
	"github.com/medilink/telehealth-api/internal/usecase"
	"github.com/medilink/telehealth-api/pkg/clock"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// mondayMorning is a Monday; the fake clock starts an hour before the first
// test slot so freshly created slots are always in the future.
var mondayMorning = time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)

type testEnv struct {
	db           *gorm.DB
	clk          *clock.Fake
	availability usecase.AvailabilityUsecase
	appointments usecase.AppointmentUsecase
}

// newTestEnv wires the usecases against a real database. Tests are skipped
// unless TEST_DATABASE_URL points at a disposable PostgreSQL instance.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	require.NoError(t, database.RunMigrationsURL(url))

	db, err := gorm.Open(postgres.Open(url), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	log := logrus.New()
	log.SetOutput(io.Discard)

	clk := clock.NewFake(mondayMorning)

	doctorProfileRepo := repository.NewDoctorProfileRepository()
	patientProfileRepo := repository.NewPatientProfileRepository()
	availabilityRepo := repository.NewAvailabilityRepository()
	appointmentRepo := repository.NewAppointmentRepository()
	auditLogRepo := repository.NewAuditLogRepository()

	auditService := service.NewAuditService(db, log, auditLogRepo)

	return &testEnv{
		db:  db,
		clk: clk,
		availability: usecase.NewAvailabilityUsecase(
			db, log, clk, doctorProfileRepo, availabilityRepo, auditService,
		),
		// The video room service is only touched by VideoToken, which these
		// tests never reach; the join-window logic itself is covered by the
		// entity tests.
		appointments: usecase.NewAppointmentUsecase(
			db, log, clk, appointmentRepo, availabilityRepo, doctorProfileRepo, patientProfileRepo, nil, auditService,
		),
	}
}

func (e *testEnv) createDoctor(t *testing.T, accepting bool) uuid.UUID {
	t.Helper()

	user := &entity.User{
		Email:    fmt.Sprintf("doctor-%s@test.local", uuid.NewString()),
		FullName: "Dr Test",
		RoleID:   entity.RoleIDDoctor,
		IsActive: true,
	}
	require.NoError(t, repository.NewUserRepository().Create(e.db, user))

	profile := &entity.DoctorProfile{
		UserID:                  user.ID,
		Specialization:          "cardiology",
		LicenseNumber:           uuid.NewString(),
		ConsultationFee:         decimal.NewFromInt(100),
		IsAcceptingAppointments: accepting,
	}
	require.NoError(t, repository.NewDoctorProfileRepository().Create(e.db, profile))

	return user.ID
}

func (e *testEnv) createPatient(t *testing.T) uuid.UUID {
	t.Helper()

	user := &entity.User{
		Email:    fmt.Sprintf("patient-%s@test.local", uuid.NewString()),
		FullName: "Pat Test",
		RoleID:   entity.RoleIDPatient,
		IsActive: true,
	}
	require.NoError(t, repository.NewUserRepository().Create(e.db, user))

	profile := &entity.PatientProfile{
		UserID:      user.ID,
		DateOfBirth: time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	require.NoError(t, repository.NewPatientProfileRepository().Create(e.db, profile))

	return user.ID
}

func (e *testEnv) setMondaySlots(t *testing.T, doctorID uuid.UUID, slots ...dto.SlotRequest) []dto.SlotResponse {
	t.Helper()

	result, err := e.availability.SetWeeklyAvailability(context.Background(), doctorID, &dto.SetWeeklyAvailabilityRequest{
		Weekday: "monday",
		Slots:   slots,
	})
	require.NoError(t, err)
	require.Len(t, result.Slots, len(slots))
	return result.Slots
}

func TestBookAndSlotVisibility(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	doctorID := env.createDoctor(t, true)
	patientID := env.createPatient(t)
	slots := env.setMondaySlots(t, doctorID,
		dto.SlotRequest{StartTime: "09:00", EndTime: "09:30"},
		dto.SlotRequest{StartTime: "09:30", EndTime: "10:00"},
	)

	// Both slots are bookable before any booking.
	bookable, err := env.availability.GetBookableSlots(ctx, doctorID, "2026-03-02")
	require.NoError(t, err)
	assert.Equal(t, 2, bookable.Total)

	appointment, err := env.appointments.Book(ctx, patientID, &dto.BookAppointmentRequest{
		DoctorID: doctorID,
		SlotID:   slots[0].ID,
		Date:     "2026-03-02",
		Type:     "video",
		Reason:   "checkup",
	})
	require.NoError(t, err)
	assert.Equal(t, "scheduled", appointment.Status)
	assert.Equal(t, "09:00", appointment.StartTime)

	// The booked slot disappears from the bookable list; the other stays.
	bookable, err = env.availability.GetBookableSlots(ctx, doctorID, "2026-03-02")
	require.NoError(t, err)
	require.Equal(t, 1, bookable.Total)
	assert.Equal(t, slots[1].ID, bookable.Slots[0].ID)

	// A second booking of the same slot loses to the reservation.
	_, err = env.appointments.Book(ctx, env.createPatient(t), &dto.BookAppointmentRequest{
		DoctorID: doctorID,
		SlotID:   slots[0].ID,
		Date:     "2026-03-02",
		Type:     "in-person",
	})
	assert.ErrorIs(t, err, usecase.ErrSlotAlreadyBooked)
}

func TestConcurrentBookingOneWinner(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	doctorID := env.createDoctor(t, true)
	slots := env.setMondaySlots(t, doctorID, dto.SlotRequest{StartTime: "10:00", EndTime: "10:30"})

	patients := []uuid.UUID{env.createPatient(t), env.createPatient(t)}
	errs := make([]error, len(patients))

	var wg sync.WaitGroup
	for i, patientID := range patients {
		wg.Add(1)
		go func(i int, patientID uuid.UUID) {
			defer wg.Done()
			_, errs[i] = env.appointments.Book(ctx, patientID, &dto.BookAppointmentRequest{
				DoctorID: doctorID,
				SlotID:   slots[0].ID,
				Date:     "2026-03-02",
				Type:     "in-person",
			})
		}(i, patientID)
	}
	wg.Wait()

	winners := 0
	for _, err := range errs {
		if err == nil {
			winners++
		} else {
			assert.ErrorIs(t, err, usecase.ErrSlotAlreadyBooked)
		}
	}
	assert.Equal(t, 1, winners)
}

func TestCancelReleasesSlotExactlyOnce(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	doctorID := env.createDoctor(t, true)
	patientID := env.createPatient(t)
	slots := env.setMondaySlots(t, doctorID, dto.SlotRequest{StartTime: "11:00", EndTime: "11:30"})

	appointment, err := env.appointments.Book(ctx, patientID, &dto.BookAppointmentRequest{
		DoctorID: doctorID,
		SlotID:   slots[0].ID,
		Date:     "2026-03-02",
		Type:     "video",
	})
	require.NoError(t, err)

	id := appointment.ID
	cancelled, err := env.appointments.Cancel(ctx, id, patientID, entity.RoleIDPatient, &dto.CancelAppointmentRequest{Reason: "conflict"})
	require.NoError(t, err)
	assert.Equal(t, "cancelled", cancelled.Status)

	// Cancel frees the slot for rebooking.
	bookable, err := env.availability.GetBookableSlots(ctx, doctorID, "2026-03-02")
	require.NoError(t, err)
	assert.Equal(t, 1, bookable.Total)

	// A second cancel finds the appointment already finalized.
	_, err = env.appointments.Cancel(ctx, id, patientID, entity.RoleIDPatient, &dto.CancelAppointmentRequest{})
	assert.ErrorIs(t, err, usecase.ErrAlreadyFinalized)
}

func TestCompleteKeepsSlotConsumed(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	doctorID := env.createDoctor(t, true)
	patientID := env.createPatient(t)
	slots := env.setMondaySlots(t, doctorID, dto.SlotRequest{StartTime: "12:00", EndTime: "12:30"})

	appointment, err := env.appointments.Book(ctx, patientID, &dto.BookAppointmentRequest{
		DoctorID: doctorID,
		SlotID:   slots[0].ID,
		Date:     "2026-03-02",
		Type:     "in-person",
	})
	require.NoError(t, err)

	id := appointment.ID
	completed, err := env.appointments.Complete(ctx, id, doctorID, &dto.CompleteAppointmentRequest{Notes: "all good"})
	require.NoError(t, err)
	assert.Equal(t, "completed", completed.Status)

	// Unlike cancel, completion does not free the slot.
	bookable, err := env.availability.GetBookableSlots(ctx, doctorID, "2026-03-02")
	require.NoError(t, err)
	assert.Equal(t, 0, bookable.Total)

	// And cancelling a completed appointment is rejected.
	_, err = env.appointments.Cancel(ctx, id, patientID, entity.RoleIDPatient, &dto.CancelAppointmentRequest{})
	assert.ErrorIs(t, err, usecase.ErrAlreadyFinalized)
}

func TestNoShowRequiresStartToHavePassed(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	doctorID := env.createDoctor(t, true)
	patientID := env.createPatient(t)
	slots := env.setMondaySlots(t, doctorID, dto.SlotRequest{StartTime: "13:00", EndTime: "13:30"})

	appointment, err := env.appointments.Book(ctx, patientID, &dto.BookAppointmentRequest{
		DoctorID: doctorID,
		SlotID:   slots[0].ID,
		Date:     "2026-03-02",
		Type:     "in-person",
	})
	require.NoError(t, err)

	id := appointment.ID
	_, err = env.appointments.MarkNoShow(ctx, id, doctorID)
	assert.ErrorIs(t, err, usecase.ErrAppointmentNotDue)

	env.clk.Set(time.Date(2026, 3, 2, 13, 5, 0, 0, time.UTC))

	marked, err := env.appointments.MarkNoShow(ctx, id, doctorID)
	require.NoError(t, err)
	assert.Equal(t, "no-show", marked.Status)

	// No-show keeps the slot consumed. Check against next Monday since this
	// one is over.
	env.clk.Set(time.Date(2026, 3, 3, 8, 0, 0, 0, time.UTC))
	bookable, err := env.availability.GetBookableSlots(ctx, doctorID, "2026-03-09")
	require.NoError(t, err)
	assert.Equal(t, 0, bookable.Total)
}

func TestBookRejectsUnavailableDoctor(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	doctorID := env.createDoctor(t, false)
	patientID := env.createPatient(t)
	slots := env.setMondaySlots(t, doctorID, dto.SlotRequest{StartTime: "14:00", EndTime: "14:30"})

	_, err := env.appointments.Book(ctx, patientID, &dto.BookAppointmentRequest{
		DoctorID: doctorID,
		SlotID:   slots[0].ID,
		Date:     "2026-03-02",
		Type:     "in-person",
	})
	assert.ErrorIs(t, err, usecase.ErrDoctorUnavailable)
}

func TestBookRejectsWeekdayMismatch(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	doctorID := env.createDoctor(t, true)
	patientID := env.createPatient(t)
	slots := env.setMondaySlots(t, doctorID, dto.SlotRequest{StartTime: "15:00", EndTime: "15:30"})

	// 2026-03-03 is a Tuesday; the slot belongs to Monday.
	_, err := env.appointments.Book(ctx, patientID, &dto.BookAppointmentRequest{
		DoctorID: doctorID,
		SlotID:   slots[0].ID,
		Date:     "2026-03-03",
		Type:     "in-person",
	})
	assert.ErrorIs(t, err, usecase.ErrSlotMismatch)
}

func TestBookRejectsPastSlotToday(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	doctorID := env.createDoctor(t, true)
	patientID := env.createPatient(t)
	slots := env.setMondaySlots(t, doctorID, dto.SlotRequest{StartTime: "16:00", EndTime: "16:30"})

	env.clk.Set(time.Date(2026, 3, 2, 16, 30, 0, 0, time.UTC))

	_, err := env.appointments.Book(ctx, patientID, &dto.BookAppointmentRequest{
		DoctorID: doctorID,
		SlotID:   slots[0].ID,
		Date:     "2026-03-02",
		Type:     "in-person",
	})
	assert.ErrorIs(t, err, usecase.ErrPastDate)
}

func TestCancelOwnershipEnforced(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	doctorID := env.createDoctor(t, true)
	patientID := env.createPatient(t)
	stranger := env.createPatient(t)
	slots := env.setMondaySlots(t, doctorID, dto.SlotRequest{StartTime: "17:00", EndTime: "17:30"})

	appointment, err := env.appointments.Book(ctx, patientID, &dto.BookAppointmentRequest{
		DoctorID: doctorID,
		SlotID:   slots[0].ID,
		Date:     "2026-03-02",
		Type:     "video",
	})
	require.NoError(t, err)

	id := appointment.ID
	_, err = env.appointments.Cancel(ctx, id, stranger, entity.RoleIDPatient, &dto.CancelAppointmentRequest{})
	assert.ErrorIs(t, err, usecase.ErrNotAppointmentParty)
}

func TestSetAvailabilityValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	doctorID := env.createDoctor(t, true)

	_, err := env.availability.SetWeeklyAvailability(ctx, doctorID, &dto.SetWeeklyAvailabilityRequest{
		Weekday: "monday",
		Slots: []dto.SlotRequest{
			{StartTime: "09:00", EndTime: "08:00"},
		},
	})
	assert.ErrorIs(t, err, usecase.ErrSlotsOutOfOrder)

	_, err = env.availability.SetWeeklyAvailability(ctx, doctorID, &dto.SetWeeklyAvailabilityRequest{
		Weekday: "monday",
		Slots: []dto.SlotRequest{
			{StartTime: "09:00", EndTime: "10:00"},
			{StartTime: "09:30", EndTime: "10:30"},
		},
	})
	assert.ErrorIs(t, err, usecase.ErrSlotsOutOfOrder)
}

func TestBookableSlotsTodayHidesStartedSlots(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	doctorID := env.createDoctor(t, true)
	env.setMondaySlots(t, doctorID,
		dto.SlotRequest{StartTime: "09:00", EndTime: "09:30"},
		dto.SlotRequest{StartTime: "10:00", EndTime: "10:30"},
		dto.SlotRequest{StartTime: "11:00", EndTime: "11:30"},
	)

	// Mid-morning today: the 09:00 slot has started, the rest are ahead.
	env.clk.Set(time.Date(2026, 3, 2, 9, 30, 0, 0, time.UTC))

	bookable, err := env.availability.GetBookableSlots(ctx, doctorID, "2026-03-02")
	require.NoError(t, err)
	require.Equal(t, 2, bookable.Total)
	assert.Equal(t, "10:00", bookable.Slots[0].StartTime)
	assert.Equal(t, "11:00", bookable.Slots[1].StartTime)

	// A future date keeps the full list, in stored order.
	bookable, err = env.availability.GetBookableSlots(ctx, doctorID, "2026-03-09")
	require.NoError(t, err)
	require.Equal(t, 3, bookable.Total)
	assert.Equal(t, "09:00", bookable.Slots[0].StartTime)

	// Asking about yesterday is an error, not an empty list.
	_, err = env.availability.GetBookableSlots(ctx, doctorID, "2026-03-01")
	assert.ErrorIs(t, err, usecase.ErrPastDate)
}

func TestReplaceWeekdayRefusedWhileBooked(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	doctorID := env.createDoctor(t, true)
	patientID := env.createPatient(t)
	slots := env.setMondaySlots(t, doctorID, dto.SlotRequest{StartTime: "18:00", EndTime: "18:30"})

	_, err := env.appointments.Book(ctx, patientID, &dto.BookAppointmentRequest{
		DoctorID: doctorID,
		SlotID:   slots[0].ID,
		Date:     "2026-03-02",
		Type:     "in-person",
	})
	require.NoError(t, err)

	_, err = env.availability.SetWeeklyAvailability(ctx, doctorID, &dto.SetWeeklyAvailabilityRequest{
		Weekday: "monday",
		Slots:   []dto.SlotRequest{{StartTime: "08:00", EndTime: "08:30"}},
	})
	assert.ErrorIs(t, err, usecase.ErrWeekdayHasBookings)
}
