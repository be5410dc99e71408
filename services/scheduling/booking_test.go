package scheduling

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"clinicore/models"
)

func bookingReq(start, end time.Time) BookingRequest {
	return BookingRequest{
		PatientID:         "patient-1",
		ProviderIDs:       []string{testProviderID},
		AppointmentTypeID: testTypeID,
		Start:             start,
		End:               end,
	}
}

func TestBookAppointmentValidation(t *testing.T) {
	engine := newTestEngine(testProvider(), testType(30), &fakeApptRepo{})
	ctx := context.Background()

	req := bookingReq(testMonday(9, 0), testMonday(9, 30))
	req.PatientID = ""
	req.ProviderIDs = nil
	var missing *MissingFieldsError
	if _, err := engine.BookAppointment(ctx, req); !errors.As(err, &missing) {
		t.Fatalf("expected MissingFieldsError, got %v", err)
	}

	var invalidRange *InvalidRangeError
	if _, err := engine.BookAppointment(ctx, bookingReq(testMonday(9, 30), testMonday(9, 0))); !errors.As(err, &invalidRange) {
		t.Fatalf("expected InvalidRangeError for inverted interval, got %v", err)
	}
	if _, err := engine.BookAppointment(ctx, bookingReq(testMonday(9, 0), testMonday(9, 0))); !errors.As(err, &invalidRange) {
		t.Fatalf("expected InvalidRangeError for zero-length interval, got %v", err)
	}

	// The fixed test clock is 2030-01-01; anything in 2029 is the past.
	past := time.Date(2029, 12, 31, 9, 0, 0, 0, time.UTC)
	var pastErr *PastBookingError
	if _, err := engine.BookAppointment(ctx, bookingReq(past, past.Add(30*time.Minute))); !errors.As(err, &pastErr) {
		t.Fatalf("expected PastBookingError, got %v", err)
	}
}

func TestBookAppointmentSuccess(t *testing.T) {
	repo := &fakeApptRepo{}
	engine := newTestEngine(testProvider(), testType(30), repo)

	appt, err := engine.BookAppointment(context.Background(), bookingReq(testMonday(9, 0), testMonday(9, 30)))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if appt.ID == "" {
		t.Fatal("expected a generated appointment ID")
	}
	if appt.Status != models.StatusConfirmed {
		t.Fatalf("status = %s, want confirmed", appt.Status)
	}
	if appt.ProviderID != testProviderID || appt.PatientID != "patient-1" || appt.AppointmentTypeID != testTypeID {
		t.Fatalf("appointment references not carried over: %+v", appt)
	}
	if len(repo.appts) != 1 {
		t.Fatalf("expected 1 persisted appointment, got %d", len(repo.appts))
	}
}

func TestBookAppointmentTentativeStatus(t *testing.T) {
	engine := newTestEngine(testProvider(), testType(30), &fakeApptRepo{})

	req := bookingReq(testMonday(9, 0), testMonday(9, 30))
	req.Tentative = true
	appt, err := engine.BookAppointment(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if appt.Status != models.StatusScheduled {
		t.Fatalf("tentative booking status = %s, want scheduled", appt.Status)
	}
}

func TestBookAppointmentSequentialDoubleBooking(t *testing.T) {
	repo := &fakeApptRepo{}
	engine := newTestEngine(testProvider(), testType(30), repo)
	ctx := context.Background()

	if _, err := engine.BookAppointment(ctx, bookingReq(testMonday(9, 0), testMonday(10, 0))); err != nil {
		t.Fatalf("first booking failed: %v", err)
	}

	_, err := engine.BookAppointment(ctx, bookingReq(testMonday(9, 30), testMonday(10, 30)))
	var unavailable *SlotUnavailableError
	if !errors.As(err, &unavailable) {
		t.Fatalf("expected SlotUnavailableError for the overlapping second booking, got %v", err)
	}
	if unavailable.Reason == "" {
		t.Fatal("SlotUnavailableError must carry the detector's reason")
	}
	// testMonday(9, 0) is 09:00 on the provider's New York clock (14:00 UTC);
	// the reason quotes the clinic's local times.
	if !strings.Contains(unavailable.Reason, "09:00") || !strings.Contains(unavailable.Reason, "10:00") {
		t.Fatalf("reason %q should quote the provider's local clock", unavailable.Reason)
	}
	if len(repo.appts) != 1 {
		t.Fatalf("second booking must not persist, have %d appointments", len(repo.appts))
	}
}

func TestBookAppointmentHonorsBuffers(t *testing.T) {
	provider := testProvider()
	provider.BufferBeforeMin = 15
	provider.BufferAfterMin = 15
	repo := &fakeApptRepo{appts: []models.Appointment{
		apptAt("existing", testMonday(10, 0), testMonday(11, 0)),
	}}
	engine := newTestEngine(provider, testType(30), repo)
	ctx := context.Background()

	// 11:00 start lands inside the trailing buffer.
	var unavailable *SlotUnavailableError
	if _, err := engine.BookAppointment(ctx, bookingReq(testMonday(11, 0), testMonday(11, 30))); !errors.As(err, &unavailable) {
		t.Fatalf("expected SlotUnavailableError inside the buffer, got %v", err)
	}

	// 11:15 clears the padded interval.
	if _, err := engine.BookAppointment(ctx, bookingReq(testMonday(11, 15), testMonday(11, 45))); err != nil {
		t.Fatalf("booking just past the buffer should succeed: %v", err)
	}
}

func TestBookAppointmentTypeBufferOverride(t *testing.T) {
	provider := testProvider()
	provider.BufferBeforeMin = 60
	provider.BufferAfterMin = 60

	noBuffer := 0
	apptType := testType(30)
	apptType.BufferBeforeMin = &noBuffer
	apptType.BufferAfterMin = &noBuffer

	repo := &fakeApptRepo{appts: []models.Appointment{
		apptAt("existing", testMonday(10, 0), testMonday(11, 0)),
	}}
	engine := newTestEngine(provider, apptType, repo)

	// The type's zero-buffer override beats the provider's hour-wide default.
	if _, err := engine.BookAppointment(context.Background(), bookingReq(testMonday(11, 0), testMonday(11, 30))); err != nil {
		t.Fatalf("type buffer override not applied: %v", err)
	}
}

func TestBookAppointmentIgnoresCancelled(t *testing.T) {
	cancelled := apptAt("c1", testMonday(9, 0), testMonday(10, 0))
	cancelled.Status = models.StatusCancelled
	repo := &fakeApptRepo{appts: []models.Appointment{cancelled}}
	engine := newTestEngine(testProvider(), testType(30), repo)

	if _, err := engine.BookAppointment(context.Background(), bookingReq(testMonday(9, 0), testMonday(9, 30))); err != nil {
		t.Fatalf("cancelled appointment must not block a booking: %v", err)
	}
}

func TestBookAppointmentLockHeld(t *testing.T) {
	repo := &fakeApptRepo{}
	engine := newTestEngine(testProvider(), testType(30), repo)
	engine.Locker = &fakeLocker{held: true}

	_, err := engine.BookAppointment(context.Background(), bookingReq(testMonday(9, 0), testMonday(9, 30)))
	var unavailable *SlotUnavailableError
	if !errors.As(err, &unavailable) {
		t.Fatalf("expected SlotUnavailableError while the provider lock is held, got %v", err)
	}
	if len(repo.appts) != 0 {
		t.Fatal("nothing may persist while the lock is held elsewhere")
	}
}

func TestBookAppointmentRunsUnderLock(t *testing.T) {
	locker := &fakeLocker{}
	engine := newTestEngine(testProvider(), testType(30), &fakeApptRepo{})
	engine.Locker = locker

	if _, err := engine.BookAppointment(context.Background(), bookingReq(testMonday(9, 0), testMonday(9, 30))); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if locker.calls != 1 {
		t.Fatalf("expected exactly one lock acquisition, got %d", locker.calls)
	}
}

func TestBookAppointmentInsertFailurePropagates(t *testing.T) {
	repo := &fakeApptRepo{createErr: errInjected}
	engine := newTestEngine(testProvider(), testType(30), repo)

	_, err := engine.BookAppointment(context.Background(), bookingReq(testMonday(9, 0), testMonday(9, 30)))
	if !errors.Is(err, errInjected) {
		t.Fatalf("store failure must propagate unchanged, got %v", err)
	}
}
