package reschedule_appointment

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	apptRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/appointment"
	"github.com/m04kA/SMC-AppointmentService/internal/scheduling"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// --- моки ---

type stubLogger struct{}

func (stubLogger) Info(format string, v ...interface{})  {}
func (stubLogger) Warn(format string, v ...interface{})  {}
func (stubLogger) Error(format string, v ...interface{}) {}

type fakeApptRepo struct {
	appt      *domain.Appointment
	getErr    error
	existing  []*domain.Appointment
	excludeID *int64

	updatedDate  time.Time
	updatedStart types.TimeString
	updatedEnd   types.TimeString
	updateCalls  int
}

func (f *fakeApptRepo) GetByID(ctx context.Context, id int64) (*domain.Appointment, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.appt, nil
}

func (f *fakeApptRepo) GetActiveByStaffAndDate(ctx context.Context, staffID int64, date time.Time, excludeID *int64) ([]*domain.Appointment, error) {
	f.excludeID = excludeID
	return f.existing, nil
}

func (f *fakeApptRepo) UpdateTimes(ctx context.Context, id int64, date time.Time, start, end types.TimeString, durationMinutes int) error {
	f.updateCalls++
	f.updatedDate = date
	f.updatedStart = start
	f.updatedEnd = end
	return nil
}

type fakeLocationRepo struct {
	location *domain.Location
}

func (f *fakeLocationRepo) GetByID(ctx context.Context, id int64) (*domain.Location, error) {
	return f.location, nil
}

type fakeServiceRepo struct{}

func (fakeServiceRepo) GetByID(ctx context.Context, id int64) (*domain.Service, error) {
	return nil, nil
}

type fakeStaffRepo struct {
	staff *domain.StaffMember
}

func (f *fakeStaffRepo) GetByID(ctx context.Context, id int64) (*domain.StaffMember, error) {
	return f.staff, nil
}

type fakeTxManager struct{}

func (fakeTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakePublisher struct {
	events []domain.AppointmentEvent
}

func (f *fakePublisher) Publish(ctx context.Context, event domain.AppointmentEvent) error {
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

type fakeClock struct {
	now time.Time
}

func (f fakeClock) Now() time.Time { return f.now }

// --- фикстуры ---

const (
	tenantID   = int64(1)
	locationID = int64(10)
	staffID    = int64(30)
	apptID     = int64(100)
)

// Запись во вторник 2026-09-08, переносим на четверг 2026-09-10
var (
	oldDate = time.Date(2026, 9, 8, 0, 0, 0, 0, time.UTC)
	newDate = time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC)
	testNow = time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
)

func workweek() domain.WeeklySchedule {
	return domain.WeeklySchedule{
		time.Tuesday:  {Enabled: true, Blocks: []domain.TimeBlock{{Start: "09:00", End: "18:00"}}},
		time.Thursday: {Enabled: true, Blocks: []domain.TimeBlock{{Start: "09:00", End: "18:00"}}},
	}
}

func testAppointment() *domain.Appointment {
	return &domain.Appointment{
		ID:              apptID,
		TenantID:        tenantID,
		LocationID:      locationID,
		ServiceID:       20,
		StaffID:         staffID,
		Date:            oldDate,
		StartTime:       "11:00",
		EndTime:         "12:00",
		DurationMinutes: 60,
		Status:          domain.StatusConfirmed,
	}
}

func testRequest() *Request {
	return &Request{
		AppointmentID: apptID,
		TenantID:      tenantID,
		Date:          newDate,
		StartTime:     "14:00",
	}
}

type fixture struct {
	uc        *UseCase
	apptRepo  *fakeApptRepo
	publisher *fakePublisher
	cache     *fakeCache
}

func newFixture() *fixture {
	f := &fixture{
		apptRepo:  &fakeApptRepo{appt: testAppointment()},
		publisher: &fakePublisher{},
		cache:     &fakeCache{},
	}
	f.uc = NewUseCase(
		f.apptRepo,
		&fakeLocationRepo{location: &domain.Location{
			ID: locationID, TenantID: tenantID, OperatingHours: workweek(), IsActive: true,
		}},
		fakeServiceRepo{},
		&fakeStaffRepo{staff: &domain.StaffMember{
			ID: staffID, TenantID: tenantID,
			SchedulesByLocation: map[int64]domain.WeeklySchedule{locationID: workweek()},
			ServiceIDs:          []int64{20},
			IsActive:            true,
		}},
		fakeTxManager{},
		f.publisher,
		f.cache,
		stubLogger{},
	)
	f.uc.timeProvider = fakeClock{now: testNow}
	return f
}

// --- тесты ---

func TestExecute_OK(t *testing.T) {
	f := newFixture()

	resp, err := f.uc.Execute(context.Background(), testRequest())
	require.NoError(t, err)

	assert.Equal(t, apptID, resp.ID)
	assert.Equal(t, newDate, resp.Date)
	assert.Equal(t, types.TimeString("14:00"), resp.StartTime)
	// Конец окна вычисляется из длительности самой записи
	assert.Equal(t, types.TimeString("15:00"), resp.EndTime)

	assert.Equal(t, 1, f.apptRepo.updateCalls)
	assert.Equal(t, newDate, f.apptRepo.updatedDate)
}

func TestExecute_ExcludesSelfFromConflictCheck(t *testing.T) {
	f := newFixture()

	_, err := f.uc.Execute(context.Background(), testRequest())
	require.NoError(t, err)

	// Запись не конфликтует сама с собой
	require.NotNil(t, f.apptRepo.excludeID)
	assert.Equal(t, apptID, *f.apptRepo.excludeID)
}

func TestExecute_SlotTaken(t *testing.T) {
	f := newFixture()
	f.apptRepo.existing = []*domain.Appointment{
		{ID: 2, StaffID: staffID, StartTime: "14:30", EndTime: "15:30", Status: domain.StatusPending},
	}

	_, err := f.uc.Execute(context.Background(), testRequest())
	assert.ErrorIs(t, err, ErrSlotNotAvailable)
	// Отклонённый перенос не меняет строку
	assert.Equal(t, 0, f.apptRepo.updateCalls)
}

func TestExecute_CannotRescheduleCancelled(t *testing.T) {
	f := newFixture()
	f.apptRepo.appt.Status = domain.StatusCancelled

	_, err := f.uc.Execute(context.Background(), testRequest())
	assert.ErrorIs(t, err, ErrCannotReschedule)
}

func TestExecute_CannotRescheduleCompleted(t *testing.T) {
	f := newFixture()
	f.apptRepo.appt.Status = domain.StatusCompleted

	_, err := f.uc.Execute(context.Background(), testRequest())
	assert.ErrorIs(t, err, ErrCannotReschedule)
}

func TestExecute_AppointmentNotFound(t *testing.T) {
	f := newFixture()
	f.apptRepo.getErr = apptRepo.ErrAppointmentNotFound

	_, err := f.uc.Execute(context.Background(), testRequest())
	assert.ErrorIs(t, err, ErrAppointmentNotFound)
}

func TestExecute_AccessDenied(t *testing.T) {
	f := newFixture()
	req := testRequest()
	req.TenantID = 999

	_, err := f.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestExecute_TargetDayDisabled(t *testing.T) {
	// Среда не рабочий день
	f := newFixture()
	req := testRequest()
	req.Date = time.Date(2026, 9, 9, 0, 0, 0, 0, time.UTC)

	_, err := f.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, scheduling.ErrValidation)
	assert.Equal(t, 0, f.apptRepo.updateCalls)
}

func TestExecute_PublishesRescheduledEvent(t *testing.T) {
	f := newFixture()

	_, err := f.uc.Execute(context.Background(), testRequest())
	require.NoError(t, err)

	require.Len(t, f.publisher.events, 1)
	assert.Equal(t, domain.EventAppointmentRescheduled, f.publisher.events[0].Type)
	assert.Equal(t, apptID, f.publisher.events[0].AppointmentID)
}

func TestExecute_InvalidatesBothDates(t *testing.T) {
	f := newFixture()

	_, err := f.uc.Execute(context.Background(), testRequest())
	require.NoError(t, err)

	// Кэш сбрасывается и на старую, и на новую дату
	assert.ElementsMatch(t, []string{"2026-09-08", "2026-09-10"}, f.cache.invalidated)
}

func TestExecute_InvalidInput(t *testing.T) {
	f := newFixture()

	cases := map[string]func(*Request){
		"zero appointment": func(r *Request) { r.AppointmentID = 0 },
		"zero tenant":      func(r *Request) { r.TenantID = 0 },
		"zero date":        func(r *Request) { r.Date = time.Time{} },
		"bad start time":   func(r *Request) { r.StartTime = "9:00" },
	}

	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			req := testRequest()
			mutate(req)
			_, err := f.uc.Execute(context.Background(), req)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}
