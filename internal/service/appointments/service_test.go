package appointments

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	apptRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/appointment"
	"github.com/m04kA/SMC-AppointmentService/internal/service/appointments/models"
	"github.com/m04kA/SMC-AppointmentService/pkg/ptr"
)

// --- моки ---

type stubLogger struct{}

func (stubLogger) Info(format string, v ...interface{})  {}
func (stubLogger) Warn(format string, v ...interface{})  {}
func (stubLogger) Error(format string, v ...interface{}) {}

type fakeApptRepo struct {
	appt     *domain.Appointment
	getErr   error
	list     []*domain.Appointment
	filter   domain.TenantAppointmentsFilter
	listErr  error
	status   domain.AppointmentStatus
	statuses int
	cancels  int
	reason   string
}

func (f *fakeApptRepo) GetByID(ctx context.Context, id int64) (*domain.Appointment, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.appt, nil
}

func (f *fakeApptRepo) GetByTenantWithFilter(ctx context.Context, filter domain.TenantAppointmentsFilter) ([]*domain.Appointment, error) {
	f.filter = filter
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.list, nil
}

func (f *fakeApptRepo) UpdateStatus(ctx context.Context, id int64, status domain.AppointmentStatus) error {
	f.statuses++
	f.status = status
	return nil
}

func (f *fakeApptRepo) Cancel(ctx context.Context, id int64, reason string) error {
	f.cancels++
	f.reason = reason
	return nil
}

type fakePublisher struct {
	events []domain.AppointmentEvent
	err    error
}

func (f *fakePublisher) Publish(ctx context.Context, event domain.AppointmentEvent) error {
	if f.err != nil {
		return f.err
	}
	f.events = append(f.events, event)
	return nil
}

type fakeCache struct {
	invalidated []string
}

func (f *fakeCache) InvalidateStaffDate(ctx context.Context, staffID int64, date string) error {
	f.invalidated = append(f.invalidated, date)
	return nil
}

// --- фикстуры ---

const (
	tenantID = int64(1)
	apptID   = int64(100)
	staffID  = int64(30)
)

var testDate = time.Date(2026, 9, 8, 0, 0, 0, 0, time.UTC)

func testAppointment() *domain.Appointment {
	return &domain.Appointment{
		ID:              apptID,
		TenantID:        tenantID,
		LocationID:      10,
		ServiceID:       20,
		StaffID:         staffID,
		CustomerName:    "Иван Петров",
		CustomerPhone:   "+79991234567",
		Date:            testDate,
		StartTime:       "11:00",
		EndTime:         "12:00",
		DurationMinutes: 60,
		Timezone:        "Europe/Moscow",
		Status:          domain.StatusConfirmed,
		ServiceName:     "Стрижка",
		ServicePrice:    1500,
	}
}

type fixture struct {
	svc       *Service
	repo      *fakeApptRepo
	publisher *fakePublisher
	cache     *fakeCache
}

func newFixture() *fixture {
	f := &fixture{
		repo:      &fakeApptRepo{appt: testAppointment()},
		publisher: &fakePublisher{},
		cache:     &fakeCache{},
	}
	f.svc = NewService(f.repo, f.publisher, f.cache, stubLogger{})
	return f
}

// --- тесты GetByID ---

func TestGetByID_OK(t *testing.T) {
	f := newFixture()

	resp, err := f.svc.GetByID(context.Background(), apptID, tenantID)
	require.NoError(t, err)

	assert.Equal(t, apptID, resp.ID)
	assert.Equal(t, "2026-09-08", resp.Date)
	assert.Equal(t, "11:00", resp.StartTime)
	assert.Equal(t, string(domain.StatusConfirmed), resp.Status)
}

func TestGetByID_NotFound(t *testing.T) {
	f := newFixture()
	f.repo.getErr = apptRepo.ErrAppointmentNotFound

	_, err := f.svc.GetByID(context.Background(), apptID, tenantID)
	assert.ErrorIs(t, err, ErrAppointmentNotFound)
}

func TestGetByID_ForeignTenant(t *testing.T) {
	f := newFixture()

	_, err := f.svc.GetByID(context.Background(), apptID, 999)
	assert.ErrorIs(t, err, ErrAccessDenied)
}

// --- тесты GetTenantAppointments ---

func TestGetTenantAppointments_OK(t *testing.T) {
	f := newFixture()
	f.repo.list = []*domain.Appointment{testAppointment()}

	resp, err := f.svc.GetTenantAppointments(context.Background(), &models.GetTenantAppointmentsRequest{
		TenantID: tenantID,
	})
	require.NoError(t, err)

	assert.Len(t, resp.Appointments, 1)
	assert.Equal(t, tenantID, f.repo.filter.TenantID)
	assert.False(t, f.repo.filter.IncludeInactive)
}

func TestGetTenantAppointments_FilterPassthrough(t *testing.T) {
	f := newFixture()
	locID := int64(10)

	_, err := f.svc.GetTenantAppointments(context.Background(), &models.GetTenantAppointmentsRequest{
		TenantID:        tenantID,
		LocationID:      ptr.Ptr(locID),
		StartDate:       ptr.Ptr(testDate),
		EndDate:         ptr.Ptr(testDate.AddDate(0, 0, 7)),
		Status:          ptr.Ptr("confirmed"),
		IncludeInactive: true,
	})
	require.NoError(t, err)

	require.NotNil(t, f.repo.filter.LocationID)
	assert.Equal(t, locID, *f.repo.filter.LocationID)
	require.NotNil(t, f.repo.filter.Status)
	assert.Equal(t, domain.StatusConfirmed, *f.repo.filter.Status)
	assert.True(t, f.repo.filter.IncludeInactive)
}

func TestGetTenantAppointments_InvalidStatus(t *testing.T) {
	f := newFixture()

	_, err := f.svc.GetTenantAppointments(context.Background(), &models.GetTenantAppointmentsRequest{
		TenantID: tenantID,
		Status:   ptr.Ptr("bogus"),
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestGetTenantAppointments_EmptyList(t *testing.T) {
	f := newFixture()

	resp, err := f.svc.GetTenantAppointments(context.Background(), &models.GetTenantAppointmentsRequest{
		TenantID: tenantID,
	})
	require.NoError(t, err)
	assert.NotNil(t, resp.Appointments)
	assert.Empty(t, resp.Appointments)
}

// --- тесты Cancel ---

func TestCancel_OK(t *testing.T) {
	f := newFixture()

	err := f.svc.Cancel(context.Background(), apptID, &models.CancelAppointmentRequest{
		TenantID:           tenantID,
		CancellationReason: "клиент заболел",
	})
	require.NoError(t, err)

	assert.Equal(t, 1, f.repo.cancels)
	assert.Equal(t, "клиент заболел", f.repo.reason)

	// Слот освободился - кэш слотов сотрудника на дату сброшен
	assert.Equal(t, []string{"2026-09-08"}, f.cache.invalidated)

	require.Len(t, f.publisher.events, 1)
	assert.Equal(t, domain.EventAppointmentCancelled, f.publisher.events[0].Type)
	assert.Equal(t, apptID, f.publisher.events[0].AppointmentID)
}

func TestCancel_AlreadyCancelled(t *testing.T) {
	f := newFixture()
	f.repo.appt.Status = domain.StatusCancelled

	err := f.svc.Cancel(context.Background(), apptID, &models.CancelAppointmentRequest{TenantID: tenantID})
	assert.ErrorIs(t, err, ErrCannotCancel)
	assert.Equal(t, 0, f.repo.cancels)
}

func TestCancel_Completed(t *testing.T) {
	f := newFixture()
	f.repo.appt.Status = domain.StatusCompleted

	err := f.svc.Cancel(context.Background(), apptID, &models.CancelAppointmentRequest{TenantID: tenantID})
	assert.ErrorIs(t, err, ErrCannotCancel)
}

func TestCancel_PublishErrorDoesNotFail(t *testing.T) {
	f := newFixture()
	f.publisher.err = errors.New("kafka down")

	err := f.svc.Cancel(context.Background(), apptID, &models.CancelAppointmentRequest{TenantID: tenantID})
	assert.NoError(t, err)
	assert.Equal(t, 1, f.repo.cancels)
}

func TestCancel_ForeignTenant(t *testing.T) {
	f := newFixture()

	err := f.svc.Cancel(context.Background(), apptID, &models.CancelAppointmentRequest{TenantID: 999})
	assert.ErrorIs(t, err, ErrAccessDenied)
	assert.Equal(t, 0, f.repo.cancels)
}

// --- тесты UpdateStatus ---

func TestUpdateStatus_PendingToConfirmed(t *testing.T) {
	f := newFixture()
	f.repo.appt.Status = domain.StatusPending

	err := f.svc.UpdateStatus(context.Background(), apptID, &models.UpdateStatusRequest{
		TenantID: tenantID,
		Status:   "confirmed",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusConfirmed, f.repo.status)
}

func TestUpdateStatus_ConfirmedToCompleted(t *testing.T) {
	f := newFixture()

	err := f.svc.UpdateStatus(context.Background(), apptID, &models.UpdateStatusRequest{
		TenantID: tenantID,
		Status:   "completed",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, f.repo.status)
}

func TestUpdateStatus_CancelViaStatusRejected(t *testing.T) {
	// Отмена идёт через Cancel, а не через смену статуса
	f := newFixture()

	err := f.svc.UpdateStatus(context.Background(), apptID, &models.UpdateStatusRequest{
		TenantID: tenantID,
		Status:   "cancelled",
	})
	assert.ErrorIs(t, err, ErrInvalidStatusTransition)
	assert.Equal(t, 0, f.repo.statuses)
}

func TestUpdateStatus_FromTerminalStatus(t *testing.T) {
	f := newFixture()
	f.repo.appt.Status = domain.StatusCompleted

	err := f.svc.UpdateStatus(context.Background(), apptID, &models.UpdateStatusRequest{
		TenantID: tenantID,
		Status:   "confirmed",
	})
	assert.ErrorIs(t, err, ErrInvalidStatusTransition)
	assert.Equal(t, 0, f.repo.statuses)
}

func TestUpdateStatus_UnknownStatus(t *testing.T) {
	f := newFixture()

	err := f.svc.UpdateStatus(context.Background(), apptID, &models.UpdateStatusRequest{
		TenantID: tenantID,
		Status:   "archived",
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}
